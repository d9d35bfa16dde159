package content

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ao4646/game-study-academy/internal/database"
)

// maxConcurrentBatches caps the relation queries one assembly runs at once.
const maxConcurrentBatches = 4

// Status records how completely an article's relations resolved.
type Status int

const (
	// Excluded: the video or the game did not resolve. Never rendered.
	Excluded Status = iota
	// Partial: video and game resolved, an optional relation did not.
	Partial
	// Complete: every populated reference resolved.
	Complete
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case Partial:
		return "partial"
	default:
		return "excluded"
	}
}

// Assemble resolves the relations of articles with one batched query per
// relation table and returns a card per distinct article, in input order.
// Cards are returned whatever their status; use Included to get the
// renderable ones.
func (r *Reader) Assemble(ctx context.Context, articles []database.Article) []Card {
	articles = distinctArticles(articles)
	if len(articles) == 0 {
		return nil
	}

	var (
		videoIDs   []int64
		gameIDs    []int64
		articleIDs []int64
		taxonIDs   = make(map[database.TaxonKind][]int64)
	)
	for i := range articles {
		a := &articles[i]
		videoIDs = append(videoIDs, a.VideoID)
		gameIDs = append(gameIDs, a.GameID)
		articleIDs = append(articleIDs, a.ID)
		if kind, id, ok := a.Related(); ok {
			taxonIDs[kind] = append(taxonIDs[kind], id)
		}
	}

	var (
		videos     map[int64]*database.Video
		games      map[int64]*database.Game
		categories map[int64][]int64
		catRows    map[int64]*database.Category
		linksOK    bool

		taxaMu sync.Mutex
		taxa   = make(map[database.TaxonKind]map[int64]*database.Taxon)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		videos = r.loadVideos(videoIDs)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		games = r.loadGames(gameIDs)
		return nil
	})
	for kind, ids := range taxonIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows := r.loadTaxa(kind, ids)
			taxaMu.Lock()
			taxa[kind] = rows
			taxaMu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		categories, catRows, linksOK = r.loadArticleCategories(articleIDs)
		return nil
	})

	if err := g.Wait(); err != nil {
		r.logger.Warn("assembly cancelled", "articles", len(articles), "error", err)
		return nil
	}

	cards := make([]Card, 0, len(articles))
	for _, a := range articles {
		card := Card{Article: a, Status: Complete}

		card.Video = videos[a.VideoID]
		if card.Video == nil {
			card.Missing = append(card.Missing, "video")
		}
		card.Game = games[a.GameID]
		if card.Game == nil {
			card.Missing = append(card.Missing, "game")
		}

		if kind, id, ok := a.Related(); ok {
			card.Related = taxa[kind][id]
			if card.Related == nil {
				card.Missing = append(card.Missing, string(kind))
			}
		}

		if !linksOK {
			card.Missing = append(card.Missing, "categories")
		}
		for _, cid := range categories[a.ID] {
			if c := catRows[cid]; c != nil {
				card.Categories = append(card.Categories, *c)
			} else {
				card.Missing = append(card.Missing, fmt.Sprintf("category %d", cid))
			}
		}

		switch {
		case card.Video == nil || card.Game == nil:
			card.Status = Excluded
		case len(card.Missing) > 0:
			card.Status = Partial
		}
		if card.Status != Complete {
			r.logger.Debug("article relations unresolved", "article", a.ID, "status", card.Status, "missing", card.Missing)
		}
		cards = append(cards, card)
	}
	return cards
}

// Included returns the cards that may be rendered, preserving order.
func Included(cards []Card) []Card {
	var out []Card
	for _, c := range cards {
		if c.Status != Excluded {
			out = append(out, c)
		}
	}
	return out
}

// assembleIncluded is Assemble followed by Included.
func (r *Reader) assembleIncluded(ctx context.Context, articles []database.Article) []Card {
	return Included(r.Assemble(ctx, articles))
}

func (r *Reader) loadVideos(ids []int64) map[int64]*database.Video {
	return load(r, r.cache.videoMemo(), "GetVideosByIDs", ids, r.store.GetVideosByIDs,
		func(v *database.Video) int64 { return v.ID })
}

func (r *Reader) loadGames(ids []int64) map[int64]*database.Game {
	return load(r, r.cache.gameMemo(), "GetGamesByIDs", ids, r.store.GetGamesByIDs,
		func(g *database.Game) int64 { return g.ID })
}

func (r *Reader) loadTaxa(kind database.TaxonKind, ids []int64) map[int64]*database.Taxon {
	fetch := func(ids []int64) ([]database.Taxon, error) { return r.store.GetTaxaByIDs(kind, ids) }
	return load(r, r.cache.taxonMemo(kind), "GetTaxaByIDs:"+string(kind), ids, fetch,
		func(t *database.Taxon) int64 { return t.ID })
}

func (r *Reader) loadCategories(ids []int64) map[int64]*database.Category {
	return load(r, r.cache.categoryMemo(), "GetCategoriesByIDs", ids, r.store.GetCategoriesByIDs,
		func(c *database.Category) int64 { return c.ID })
}

// loadArticleCategories returns category IDs per article, the category rows,
// and whether the join table could be read at all.
func (r *Reader) loadArticleCategories(articleIDs []int64) (map[int64][]int64, map[int64]*database.Category, bool) {
	links, err := r.store.GetArticleCategoryLinks(articleIDs)
	if err != nil {
		r.logger.Warn("query failed, using empty result", "op", "GetArticleCategoryLinks", "error", err)
		return nil, nil, false
	}
	byArticle := make(map[int64][]int64)
	var categoryIDs []int64
	for _, l := range links {
		byArticle[l.ArticleID] = append(byArticle[l.ArticleID], l.CategoryID)
		categoryIDs = append(categoryIDs, l.CategoryID)
	}
	return byArticle, r.loadCategories(categoryIDs), true
}

// load fetches rows by ID through the request cache. On error the IDs are
// left unresolved and not remembered, so a later lookup may retry them.
func load[T any](r *Reader, m *memo[T], op string, ids []int64, fetch func([]int64) ([]T, error), idOf func(*T) int64) map[int64]*T {
	ids = uniqueIDs(ids)
	found, missing := m.split(ids)
	if len(missing) == 0 {
		return found
	}

	rows, err := fetch(missing)
	if err != nil {
		r.logger.Warn("query failed, using empty result", "op", op, "ids", missing, "error", err)
		return found
	}

	fetched := make(map[int64]*T, len(rows))
	for i := range rows {
		row := &rows[i]
		fetched[idOf(row)] = row
	}
	m.remember(missing, fetched)
	for id, row := range fetched {
		found[id] = row
	}
	return found
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func distinctArticles(articles []database.Article) []database.Article {
	seen := make(map[int64]struct{}, len(articles))
	out := make([]database.Article, 0, len(articles))
	for _, a := range articles {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}
