package content

import (
	"context"
	"html/template"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ao4646/game-study-academy/internal/database"
	"github.com/ao4646/game-study-academy/internal/markdown"
	"github.com/ao4646/game-study-academy/internal/media"
)

const (
	homeLimit     = 12
	gameLimit     = 30
	relatedLimit  = 4
	searchLimit   = 50
	categoryLimit = 100
)

// Crumb is one breadcrumb link. The last crumb has no URL.
type Crumb struct {
	Label string
	URL   string
}

// Home is the site top page.
type Home struct {
	Games  []database.Game
	Latest []Card
}

// GameView is a game's top page.
type GameView struct {
	Game       database.Game
	Articles   []Card
	Categories []database.Category
	Guides     []GuideLink
}

// GuideLink points at one of a game's filterable guide pages.
type GuideLink struct {
	Guide Guide
	Label string
	URL   string
}

// ArticleView is an article detail page.
type ArticleView struct {
	Card
	Body       template.HTML
	Headings   []markdown.Heading
	Breadcrumb []Crumb
	EmbedURL   string
	WatchURL   string
	SeeAlso    []Card
}

// CategoryView is a category page.
type CategoryView struct {
	Category database.Category
	Game     *database.Game
	Articles []Card
}

// TaxonItem is one row of a taxonomy listing.
type TaxonItem struct {
	Taxon database.Taxon
	Count int
	URL   string
}

// TaxonListView lists every row of one taxonomy kind.
type TaxonListView struct {
	Kind  database.TaxonKind
	Label string
	Items []TaxonItem
}

// TaxonView is a taxonomy detail page.
type TaxonView struct {
	Taxon    database.Taxon
	Label    string
	Game     *database.Game
	Articles []Card
}

// DateView lists the articles published on one day.
type DateView struct {
	Day      string
	Label    string
	Articles []Card
}

// Calendar holds per-day article counts for one month.
type Calendar struct {
	Month string
	Days  []database.DayCount
}

// HomePage loads the latest articles and the game list.
func (r *Reader) HomePage(ctx context.Context) *Home {
	var (
		home     Home
		articles []database.Article
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		games, err := r.store.GetGames()
		home.Games = rowsOrEmpty(r.logger, "GetGames", games, err)
		return nil
	})
	g.Go(func() error {
		rows, err := r.store.GetPublishedArticles(database.ArticleQuery{Limit: homeLimit})
		articles = rowsOrEmpty(r.logger, "GetPublishedArticles", rows, err)
		return nil
	})
	_ = g.Wait()

	home.Latest = r.assembleIncluded(ctx, articles)
	return &home
}

// GamePage returns nil when the slug does not resolve.
func (r *Reader) GamePage(ctx context.Context, slug string) *GameView {
	game, err := r.store.GetGameBySlug(slug)
	game = rowOrNil(r.logger, "GetGameBySlug", game, err, "slug", slug)
	if game == nil {
		return nil
	}
	view := &GameView{Game: *game}

	var articles []database.Article
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.store.GetPublishedArticles(database.ArticleQuery{GameID: game.ID, Limit: gameLimit})
		articles = rowsOrEmpty(r.logger, "GetPublishedArticles", rows, err, "game", game.ID)
		return nil
	})
	g.Go(func() error {
		rows, err := r.store.GetCategoriesForGame(game.ID)
		view.Categories = rowsOrEmpty(r.logger, "GetCategoriesForGame", rows, err, "game", game.ID)
		return nil
	})
	_ = g.Wait()

	view.Articles = r.assembleIncluded(ctx, articles)
	for _, guide := range Guides {
		view.Guides = append(view.Guides, GuideLink{Guide: guide, Label: guide.Label(), URL: GuideURL(game.Slug, guide)})
	}
	return view
}

// ArticlePage returns nil when the article is missing, unpublished or
// excluded by the assembler.
func (r *Reader) ArticlePage(ctx context.Context, id int64) *ArticleView {
	a, err := r.store.GetPublishedArticle(id)
	a = rowOrNil(r.logger, "GetPublishedArticle", a, err, "id", id)
	if a == nil {
		return nil
	}
	cards := r.assembleIncluded(ctx, []database.Article{*a})
	if len(cards) == 0 {
		return nil
	}
	card := cards[0]

	view := &ArticleView{
		Card:     card,
		Body:     markdown.Render(card.Article.Content),
		Headings: markdown.Headings(card.Article.Content),
		EmbedURL: media.EmbedURL(card.Video.VideoID),
		WatchURL: media.WatchURL(card.Video.VideoID),
	}
	view.Breadcrumb = breadcrumb(card)
	view.SeeAlso = r.seeAlso(ctx, card)
	return view
}

func breadcrumb(c Card) []Crumb {
	crumbs := []Crumb{{Label: "ホーム", URL: "/"}}
	if c.Game != nil {
		crumbs = append(crumbs, Crumb{Label: c.Game.Name, URL: GameURL(c.Game.Slug)})
	}
	switch {
	case c.Related != nil:
		crumbs = append(crumbs, Crumb{Label: c.Related.Name, URL: c.RelatedURL()})
	case len(c.Categories) > 0:
		crumbs = append(crumbs, Crumb{Label: c.Categories[0].Name, URL: CategoryURL(c.Categories[0].ID)})
	}
	return append(crumbs, Crumb{Label: c.Article.Title})
}

// seeAlso picks other articles on the same taxonomy row, falling back to
// the first category and then to the same game.
func (r *Reader) seeAlso(ctx context.Context, c Card) []Card {
	var rows []database.Article
	var err error
	switch {
	case c.Related != nil:
		rows, err = r.store.GetPublishedArticles(database.ArticleQuery{
			Related:   c.Related.Kind,
			RelatedID: c.Related.ID,
			Limit:     relatedLimit + 1,
		})
	case len(c.Categories) > 0:
		rows, err = r.store.GetArticlesByCategory(c.Categories[0].ID, relatedLimit+1)
	default:
		rows, err = r.store.GetPublishedArticles(database.ArticleQuery{GameID: c.Article.GameID, Limit: relatedLimit + 1})
	}
	rows = rowsOrEmpty(r.logger, "seeAlso", rows, err, "article", c.Article.ID)

	var others []database.Article
	for _, a := range rows {
		if a.ID != c.Article.ID && len(others) < relatedLimit {
			others = append(others, a)
		}
	}
	return r.assembleIncluded(ctx, others)
}

// CategoryPage returns nil when the category does not exist.
func (r *Reader) CategoryPage(ctx context.Context, id int64) *CategoryView {
	c, err := r.store.GetCategory(id)
	c = rowOrNil(r.logger, "GetCategory", c, err, "id", id)
	if c == nil {
		return nil
	}
	view := &CategoryView{Category: *c}

	var articles []database.Article
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.Game = r.loadGames([]int64{c.GameID})[c.GameID]
		return nil
	})
	g.Go(func() error {
		rows, err := r.store.GetArticlesByCategory(id, categoryLimit)
		articles = rowsOrEmpty(r.logger, "GetArticlesByCategory", rows, err, "category", id)
		return nil
	})
	_ = g.Wait()

	view.Articles = r.assembleIncluded(ctx, articles)
	return view
}

// TaxonomyList lists every row of kind across games with its article count.
func (r *Reader) TaxonomyList(ctx context.Context, kind database.TaxonKind) *TaxonListView {
	view := &TaxonListView{Kind: kind, Label: KindLabel(kind)}

	var (
		taxa     []database.Taxon
		articles []database.Article
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.store.GetTaxa(kind, 0)
		taxa = rowsOrEmpty(r.logger, "GetTaxa", rows, err, "kind", kind)
		return nil
	})
	g.Go(func() error {
		rows, err := r.store.GetPublishedArticles(database.ArticleQuery{Related: kind})
		articles = rowsOrEmpty(r.logger, "GetPublishedArticles", rows, err, "kind", kind)
		return nil
	})
	_ = g.Wait()

	counts := make(map[int64]int)
	for i := range articles {
		if k, id, ok := articles[i].Related(); ok && k == kind {
			counts[id]++
		}
	}
	for _, t := range taxa {
		view.Items = append(view.Items, TaxonItem{Taxon: t, Count: counts[t.ID], URL: TaxonURL(kind, t.Slug)})
	}
	return view
}

// TaxonomyPage returns nil when no row of kind has slug. A row without
// articles yields a view with no articles.
func (r *Reader) TaxonomyPage(ctx context.Context, kind database.TaxonKind, slug string) *TaxonView {
	t, err := r.store.GetTaxonBySlug(kind, 0, slug)
	t = rowOrNil(r.logger, "GetTaxonBySlug", t, err, "kind", kind, "slug", slug)
	if t == nil {
		return nil
	}
	view := &TaxonView{Taxon: *t, Label: KindLabel(kind)}

	var articles []database.Article
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.Game = r.loadGames([]int64{t.GameID})[t.GameID]
		return nil
	})
	g.Go(func() error {
		rows, err := r.store.GetPublishedArticles(database.ArticleQuery{Related: kind, RelatedID: t.ID})
		articles = rowsOrEmpty(r.logger, "GetPublishedArticles", rows, err, "kind", kind, "id", t.ID)
		return nil
	})
	_ = g.Wait()

	view.Articles = r.assembleIncluded(ctx, articles)
	return view
}

// DatePage returns nil for anything that is not a YYYY-MM-DD calendar day.
func (r *Reader) DatePage(ctx context.Context, day string) *DateView {
	from, to, err := database.DayRange(day)
	if err != nil {
		r.logger.Debug("rejecting date", "date", day, "error", err)
		return nil
	}
	rows, err := r.store.GetPublishedArticles(database.ArticleQuery{CreatedFrom: from, CreatedTo: to})
	rows = rowsOrEmpty(r.logger, "GetPublishedArticles", rows, err, "date", day)
	return &DateView{
		Day:      day,
		Label:    database.FormatDay(day),
		Articles: r.assembleIncluded(ctx, rows),
	}
}

// Search matches q against article titles and summaries. A blank query
// returns nothing.
func (r *Reader) Search(ctx context.Context, q string) []Card {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	rows, err := r.store.GetPublishedArticles(database.ArticleQuery{Search: q, Limit: searchLimit})
	rows = rowsOrEmpty(r.logger, "GetPublishedArticles", rows, err, "q", q)
	return r.assembleIncluded(ctx, rows)
}

// CalendarMonth returns nil for a malformed YYYY-MM month.
func (r *Reader) CalendarMonth(month string) *Calendar {
	from, to, err := database.MonthRange(month)
	if err != nil {
		r.logger.Debug("rejecting month", "month", month, "error", err)
		return nil
	}
	days, err := r.store.CountPublishedByDay(from, to)
	return &Calendar{Month: month, Days: rowsOrEmpty(r.logger, "CountPublishedByDay", days, err, "month", month)}
}

// Categories lists every category, for the sitemap.
func (r *Reader) Categories() []database.Category {
	rows, err := r.store.GetAllCategories()
	return rowsOrEmpty(r.logger, "GetAllCategories", rows, err)
}

// AllTaxa lists every row of every kind, for the sitemap.
func (r *Reader) AllTaxa() []database.Taxon {
	var out []database.Taxon
	for _, kind := range database.TaxonKinds {
		rows, err := r.store.GetTaxa(kind, 0)
		out = append(out, rowsOrEmpty(r.logger, "GetTaxa", rows, err, "kind", kind)...)
	}
	return out
}

// PublishedArticles lists the published articles that have a page, by id.
// Articles the assembler excludes answer 404 and are left out.
func (r *Reader) PublishedArticles(ctx context.Context) []database.Article {
	rows, err := r.store.GetPublishedArticles(database.ArticleQuery{OrderByID: true})
	rows = rowsOrEmpty(r.logger, "GetPublishedArticles", rows, err)
	cards := r.assembleIncluded(ctx, rows)
	out := make([]database.Article, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Article)
	}
	return out
}

// Games lists every game.
func (r *Reader) Games() []database.Game {
	rows, err := r.store.GetGames()
	return rowsOrEmpty(r.logger, "GetGames", rows, err)
}

// KindLabel is the Japanese display name of a taxonomy kind.
func KindLabel(kind database.TaxonKind) string {
	switch kind {
	case database.KindBoss:
		return "ボス"
	case database.KindStrategy:
		return "攻略法"
	case database.KindClass:
		return "クラス"
	case database.KindTip:
		return "小技"
	case database.KindDungeon:
		return "ダンジョン"
	case database.KindStory:
		return "ストーリー"
	}
	return string(kind)
}
