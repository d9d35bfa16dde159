package content

import (
	"context"
	"net/url"

	"github.com/ao4646/game-study-academy/internal/database"
	"github.com/ao4646/game-study-academy/internal/filter"
)

// Guide names a filterable guide page of a game.
type Guide string

const (
	GuideAreas  Guide = "areas"
	GuideBosses Guide = "bosses"
	GuideNPCs   Guide = "npcs"
)

// Guides in navigation order.
var Guides = []Guide{GuideAreas, GuideBosses, GuideNPCs}

// ParseGuide accepts the path segment of a guide page.
func ParseGuide(s string) (Guide, bool) {
	for _, g := range Guides {
		if string(g) == s {
			return g, true
		}
	}
	return "", false
}

// Kind is the taxonomy table the guide's filter keys come from.
func (g Guide) Kind() database.TaxonKind {
	switch g {
	case GuideBosses:
		return database.KindBoss
	case GuideNPCs:
		return database.KindStory
	default:
		return database.KindDungeon
	}
}

// Label is the Japanese page title fragment.
func (g Guide) Label() string {
	switch g {
	case GuideBosses:
		return "ボス攻略"
	case GuideNPCs:
		return "NPC・イベント攻略"
	default:
		return "エリア攻略"
	}
}

// FilterButton is one entry of a guide's filter bar.
type FilterButton struct {
	Key    string
	Label  string
	Count  int
	Active bool
	URL    string
}

// GuideView is a game guide page narrowed by one filter key.
type GuideView struct {
	Game     database.Game
	Guide    Guide
	Filter   string
	Buttons  []FilterButton
	Total    int
	Articles []Card
}

// GuidePage returns nil when the game slug does not resolve. An unknown
// filter key falls back to the unfiltered list.
func (r *Reader) GuidePage(ctx context.Context, gameSlug string, guide Guide, key string) *GuideView {
	game, err := r.store.GetGameBySlug(gameSlug)
	game = rowOrNil(r.logger, "GetGameBySlug", game, err, "slug", gameSlug)
	if game == nil {
		return nil
	}

	table := r.FilterTable(guide.Kind(), game.ID)
	rows, err := r.store.GetPublishedArticles(database.ArticleQuery{GameID: game.ID})
	rows = rowsOrEmpty(r.logger, "GetPublishedArticles", rows, err, "game", game.ID)
	cards := r.assembleIncluded(ctx, rows)

	key = table.Resolve(key)
	counts := filter.Counts(table, cards, cardFields)
	base := GuideURL(game.Slug, guide)

	view := &GuideView{
		Game:     *game,
		Guide:    guide,
		Filter:   key,
		Total:    len(cards),
		Articles: filter.Apply(table, key, cards, cardFields),
	}
	view.Buttons = append(view.Buttons, FilterButton{
		Key:    filter.AllKey,
		Label:  "すべて",
		Count:  counts[filter.AllKey],
		Active: key == filter.AllKey,
		URL:    base,
	})
	for _, e := range table.Entries() {
		view.Buttons = append(view.Buttons, FilterButton{
			Key:    e.Key,
			Label:  e.Label,
			Count:  counts[e.Key],
			Active: key == e.Key,
			URL:    base + "?filter=" + url.QueryEscape(e.Key),
		})
	}
	return view
}

// FilterTable builds the keyword table for one taxonomy kind of a game.
// When the keywords cannot be read the buttons stay but every keyed filter
// matches nothing, since a name-only match would lose the exclusions.
func (r *Reader) FilterTable(kind database.TaxonKind, gameID int64) *filter.Table {
	taxa, err := r.store.GetTaxa(kind, gameID)
	taxa = rowsOrEmpty(r.logger, "GetTaxa", taxa, err, "kind", kind, "game", gameID)
	if len(taxa) == 0 {
		return filter.NewTable(nil)
	}
	ids := make([]int64, len(taxa))
	for i, t := range taxa {
		ids[i] = t.ID
	}
	keywords, err := r.store.GetFilterKeywords(kind, ids)
	if err != nil {
		r.logger.Warn("query failed, keyed filters disabled", "op", "GetFilterKeywords", "kind", kind, "error", err)
		return filter.KeysOnly(taxa)
	}
	return filter.FromTaxa(taxa, keywords)
}
