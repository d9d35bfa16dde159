package seo

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ao4646/game-study-academy/internal/content"
	"github.com/ao4646/game-study-academy/internal/database"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapURL is one <url> element.
type SitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapInput is everything the sitemap lists.
type SitemapInput struct {
	Games      []database.Game
	Articles   []database.Article
	Categories []database.Category
	Taxa       []database.Taxon
}

// SitemapURLs lists the top page, games, taxonomy listings and rows,
// categories and published articles.
func SitemapURLs(s Site, in SitemapInput) []SitemapURL {
	urls := []SitemapURL{{Loc: s.URL("/"), ChangeFreq: "daily", Priority: 1.0}}
	for _, g := range in.Games {
		urls = append(urls, SitemapURL{Loc: s.URL(content.GameURL(g.Slug)), ChangeFreq: "daily", Priority: 0.9})
		for _, guide := range content.Guides {
			urls = append(urls, SitemapURL{Loc: s.URL(content.GuideURL(g.Slug, guide)), ChangeFreq: "weekly", Priority: 0.7})
		}
	}
	for _, kind := range database.TaxonKinds {
		urls = append(urls, SitemapURL{Loc: s.URL(content.TaxonListURL(kind)), ChangeFreq: "weekly", Priority: 0.6})
	}
	for _, t := range in.Taxa {
		urls = append(urls, SitemapURL{Loc: s.URL(content.TaxonURL(t.Kind, t.Slug)), ChangeFreq: "weekly", Priority: 0.6})
	}
	for _, c := range in.Categories {
		urls = append(urls, SitemapURL{Loc: s.URL(content.CategoryURL(c.ID)), ChangeFreq: "weekly", Priority: 0.6})
	}
	for _, a := range in.Articles {
		urls = append(urls, SitemapURL{
			Loc:        s.URL(content.ArticleURL(a.ID)),
			LastMod:    lastMod(a),
			ChangeFreq: "monthly",
			Priority:   0.8,
		})
	}
	return urls
}

// WriteSitemap encodes urls as a sitemap document.
func WriteSitemap(w io.Writer, urls []SitemapURL) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(urlSet{XMLNS: sitemapNS, URLs: urls}); err != nil {
		return fmt.Errorf("encoding sitemap: %w", err)
	}
	return enc.Flush()
}

// Robots is the robots.txt body.
func Robots(s Site) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /search\n")
	fmt.Fprintf(&b, "\nSitemap: %s\n", s.URL("/sitemap.xml"))
	return b.String()
}

func lastMod(a database.Article) string {
	for _, ts := range []string{a.UpdatedAt, a.CreatedAt} {
		if t, ok := database.ParseTimestamp(ts); ok {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
