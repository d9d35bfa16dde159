package content

import (
	"fmt"
	"strings"

	"github.com/ao4646/game-study-academy/internal/database"
	"github.com/ao4646/game-study-academy/internal/filter"
	"github.com/ao4646/game-study-academy/internal/markdown"
	"github.com/ao4646/game-study-academy/internal/media"
)

const summaryLength = 120

// Card is an article with its relations resolved.
type Card struct {
	Article    database.Article
	Video      *database.Video
	Game       *database.Game
	Related    *database.Taxon
	Categories []database.Category
	Status     Status
	Missing    []string
}

// URL is the article's detail page path.
func (c Card) URL() string {
	return ArticleURL(c.Article.ID)
}

// ThumbnailURL returns the video thumbnail, empty when the video is unknown.
func (c Card) ThumbnailURL() string {
	return media.ThumbnailURL(c.Video)
}

// ReadTime is the stored estimate, or one derived from the body.
func (c Card) ReadTime() int {
	if c.Article.ReadTime > 0 {
		return c.Article.ReadTime
	}
	return markdown.ReadTime(c.Article.Content)
}

// Summary is the stored summary or an excerpt of the body.
func (c Card) Summary() string {
	if s := c.Article.Summary; s != nil && strings.TrimSpace(*s) != "" {
		return markdown.Truncate(strings.TrimSpace(*s), summaryLength)
	}
	return markdown.Excerpt(c.Article.Content, summaryLength)
}

// Date is the creation date in Japanese form.
func (c Card) Date() string {
	return database.FormatDay(c.Article.CreatedAt)
}

// GameName is empty when the game did not resolve.
func (c Card) GameName() string {
	if c.Game == nil {
		return ""
	}
	return c.Game.Name
}

// RelatedURL links to the related taxonomy page, empty without one.
func (c Card) RelatedURL() string {
	if c.Related == nil {
		return ""
	}
	return TaxonURL(c.Related.Kind, c.Related.Slug)
}

// Fields exposes the text the keyword filter matches against.
func (c Card) Fields() filter.Fields {
	f := filter.Fields{Title: c.Article.Title, Body: c.Article.Content}
	if c.Video != nil {
		f.SourceTitle = c.Video.Title
	}
	return f
}

func cardFields(c Card) filter.Fields { return c.Fields() }

// ArticleURL is the path of an article detail page.
func ArticleURL(id int64) string {
	return fmt.Sprintf("/articles/%d", id)
}

// CategoryURL is the path of a category page.
func CategoryURL(id int64) string {
	return fmt.Sprintf("/categories/%d", id)
}

// GameURL is the path of a game's top page.
func GameURL(slug string) string {
	return "/games/" + slug
}

// TaxonListURL is the listing path for a taxonomy kind, e.g. /bosses.
func TaxonListURL(kind database.TaxonKind) string {
	return "/" + kind.Table()
}

// TaxonURL is the detail path of a taxonomy row, e.g. /bosses/margit.
func TaxonURL(kind database.TaxonKind, slug string) string {
	return TaxonListURL(kind) + "/" + slug
}

// DateURL is the path of a day listing.
func DateURL(day string) string {
	return "/date/" + day
}

// GuideURL is the path of a filterable guide page.
func GuideURL(gameSlug string, guide Guide) string {
	return GameURL(gameSlug) + "/guides/" + string(guide)
}
