// Package markdown renders article bodies and derives plain text from them.
package markdown

import (
	"bytes"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// charsPerMinute is the Japanese reading speed used for read-time estimates.
const charsPerMinute = 500

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Heading is one entry of an article's table of contents.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Render converts an article body to HTML. Raw HTML in the source is
// omitted by goldmark's default renderer.
func Render(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Headings returns the h2 and h3 headings of src in document order.
func Headings(src string) []Heading {
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level < 2 || h.Level > 3 {
			return ast.WalkContinue, nil
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  strings.TrimSpace(string(h.Text(source))),
			ID:    id,
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// PlainText renders src and strips the markup, collapsing whitespace.
func PlainText(src string) string {
	html := Render(src)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return strings.Join(strings.Fields(src), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt returns at most n runes of the plain text of src, marking
// truncation with an ellipsis.
func Excerpt(src string, n int) string {
	return Truncate(PlainText(src), n)
}

// Truncate shortens s to n runes, appending "…" when it cuts.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

// ReadTime estimates reading time in whole minutes, never less than one.
func ReadTime(src string) int {
	chars := utf8.RuneCountInString(strings.ReplaceAll(PlainText(src), " ", ""))
	minutes := (chars + charsPerMinute - 1) / charsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
