// Package seo derives page head metadata and the sitemap.
package seo

import (
	"fmt"
	"strings"

	"github.com/ao4646/game-study-academy/internal/content"
	"github.com/ao4646/game-study-academy/internal/database"
	"github.com/ao4646/game-study-academy/internal/markdown"
)

const descriptionLength = 160

// Site holds the values every page shares.
type Site struct {
	Name        string
	Description string
	BaseURL     string
	Language    string
}

// Meta is what a page puts in <head>: the search-engine tags and the social
// sharing duplicates.
type Meta struct {
	Title       string
	Description string
	Keywords    []string
	Canonical   string
	Image       string
	OGType      string
	NoIndex     bool

	PublishedTime string
	ModifiedTime  string
}

// Locale is the OpenGraph locale for the site language.
func (s Site) Locale() string {
	if s.Language == "" || s.Language == "ja" {
		return "ja_JP"
	}
	return s.Language
}

// URL joins path onto the base URL.
func (s Site) URL(path string) string {
	return strings.TrimRight(s.BaseURL, "/") + path
}

func (s Site) title(parts ...string) string {
	return strings.Join(append(parts, s.Name), " | ")
}

// KeywordList is Keywords joined for the keywords meta tag.
func (m Meta) KeywordList() string {
	return strings.Join(m.Keywords, ",")
}

// TwitterCard picks the large card when there is an image.
func (m Meta) TwitterCard() string {
	if m.Image != "" {
		return "summary_large_image"
	}
	return "summary"
}

func (s Site) page(path, title, description string, keywords ...string) Meta {
	return Meta{
		Title:       title,
		Description: markdown.Truncate(strings.TrimSpace(description), descriptionLength),
		Keywords:    dedupe(keywords),
		Canonical:   s.URL(path),
		OGType:      "website",
	}
}

// ForHome is the metadata of the top page.
func ForHome(s Site) Meta {
	return s.page("/", s.Name, s.Description, "ゲーム攻略", "攻略動画", "YouTube")
}

// ForGame is the metadata of a game's top page.
func ForGame(s Site, v *content.GameView) Meta {
	desc := fmt.Sprintf("%sの攻略記事一覧。ボス、エリア、キャラクター別に攻略動画の内容を解説します。", v.Game.Name)
	if v.Game.Description != nil && *v.Game.Description != "" {
		desc = *v.Game.Description
	}
	return s.page(content.GameURL(v.Game.Slug), s.title(v.Game.Name+" 攻略"), desc, v.Game.Name, "攻略")
}

// ForArticle prefers the article's own SEO fields and falls back to the
// title, the summary and an excerpt of the body.
func ForArticle(s Site, v *content.ArticleView) Meta {
	a := v.Article

	title := a.Title
	if a.SEOTitle != nil && strings.TrimSpace(*a.SEOTitle) != "" {
		title = strings.TrimSpace(*a.SEOTitle)
	}

	var desc string
	switch {
	case a.MetaDescription != nil && strings.TrimSpace(*a.MetaDescription) != "":
		desc = *a.MetaDescription
	default:
		desc = v.Summary()
	}

	var keywords []string
	if a.Keywords != nil {
		keywords = splitKeywords(*a.Keywords)
	}
	keywords = append(keywords, v.GameName())
	if v.Related != nil {
		keywords = append(keywords, v.Related.Name)
	}
	for _, c := range v.Categories {
		keywords = append(keywords, c.Name)
	}

	m := s.page(v.URL(), s.title(title), desc, keywords...)
	m.OGType = "article"
	m.Image = v.ThumbnailURL()
	m.PublishedTime = isoTime(a.CreatedAt)
	m.ModifiedTime = isoTime(a.UpdatedAt)
	return m
}

// ForCategory is the metadata of a category page.
func ForCategory(s Site, v *content.CategoryView) Meta {
	desc := fmt.Sprintf("「%s」カテゴリの攻略記事一覧です。", v.Category.Name)
	if v.Category.Description != nil && *v.Category.Description != "" {
		desc = *v.Category.Description
	}
	keywords := []string{v.Category.Name}
	name := v.Category.Name
	if v.Game != nil {
		keywords = append(keywords, v.Game.Name)
		name = v.Game.Name + " " + name
	}
	m := s.page(content.CategoryURL(v.Category.ID), s.title(name+" 攻略記事"), desc, keywords...)
	m.NoIndex = len(v.Articles) == 0
	return m
}

// ForTaxonList is the metadata of a taxonomy listing.
func ForTaxonList(s Site, v *content.TaxonListView) Meta {
	desc := fmt.Sprintf("%s別の攻略記事一覧です。", v.Label)
	return s.page(content.TaxonListURL(v.Kind), s.title(v.Label+"一覧"), desc, v.Label, "攻略")
}

// ForTaxon is the metadata of a taxonomy detail page.
func ForTaxon(s Site, v *content.TaxonView) Meta {
	desc := fmt.Sprintf("%sの攻略情報。関連する攻略動画と解説記事をまとめています。", v.Taxon.Name)
	if v.Taxon.Description != nil && *v.Taxon.Description != "" {
		desc = *v.Taxon.Description
	}
	keywords := []string{v.Taxon.Name, v.Label}
	title := v.Taxon.Name + " 攻略"
	if v.Game != nil {
		keywords = append(keywords, v.Game.Name)
		title = v.Game.Name + " " + title
	}
	m := s.page(content.TaxonURL(v.Taxon.Kind, v.Taxon.Slug), s.title(title), desc, keywords...)
	if v.Taxon.ImageURL != nil {
		m.Image = *v.Taxon.ImageURL
	}
	m.NoIndex = len(v.Articles) == 0
	return m
}

// ForDate is the metadata of a day listing.
func ForDate(s Site, v *content.DateView) Meta {
	m := s.page(content.DateURL(v.Day), s.title(v.Label+"の攻略記事"),
		fmt.Sprintf("%sに公開された攻略記事の一覧です。", v.Label))
	m.NoIndex = true
	return m
}

// ForGuide is the metadata of a filterable guide page. Filtered variants
// point their canonical URL at the unfiltered page.
func ForGuide(s Site, v *content.GuideView) Meta {
	title := v.Game.Name + " " + v.Guide.Label()
	desc := fmt.Sprintf("%sの%s記事を絞り込んで探せます。", v.Game.Name, v.Guide.Label())
	keywords := []string{v.Game.Name, v.Guide.Label()}
	for _, b := range v.Buttons[min(1, len(v.Buttons)):] {
		keywords = append(keywords, b.Label)
	}
	return s.page(content.GuideURL(v.Game.Slug, v.Guide), s.title(title), desc, keywords...)
}

// ForSearch is the metadata of the search page, never indexed.
func ForSearch(s Site, q string) Meta {
	title := "記事検索"
	if q != "" {
		title = fmt.Sprintf("「%s」の検索結果", q)
	}
	m := s.page("/search", s.title(title), s.Description)
	m.NoIndex = true
	return m
}

// ForNotFound is the metadata of the 404 page.
func ForNotFound(s Site) Meta {
	m := s.page("/", s.title("ページが見つかりません"), s.Description)
	m.NoIndex = true
	return m
}

func splitKeywords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '、' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func dedupe(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	var out []string
	for _, k := range keywords {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func isoTime(stored string) string {
	t, ok := database.ParseTimestamp(stored)
	if !ok {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05Z07:00")
}
