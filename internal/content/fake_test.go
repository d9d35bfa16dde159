package content

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/ao4646/game-study-academy/internal/database"
)

var errStore = errors.New("store unavailable")

// fakeStore is an in-memory Store that counts calls and fails on request.
type fakeStore struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool

	games      map[int64]database.Game
	videos     map[int64]database.Video
	articles   []database.Article
	categories map[int64]database.Category
	links      []database.ArticleCategory
	taxa       map[database.TaxonKind]map[int64]database.Taxon
	keywords   []database.FilterKeyword
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		calls:      make(map[string]int),
		fail:       make(map[string]bool),
		games:      make(map[int64]database.Game),
		videos:     make(map[int64]database.Video),
		categories: make(map[int64]database.Category),
		taxa:       make(map[database.TaxonKind]map[int64]database.Taxon),
	}
}

func (f *fakeStore) call(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if f.fail[op] {
		return errStore
	}
	return nil
}

func (f *fakeStore) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeStore) failOn(ops ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, op := range ops {
		f.fail[op] = true
	}
}

func (f *fakeStore) addGame(id int64, name, slug string) {
	f.games[id] = database.Game{ID: id, Name: name, Slug: slug}
}

func (f *fakeStore) addVideo(id, gameID int64, title string) {
	f.videos[id] = database.Video{ID: id, VideoID: "vid" + title, Title: title, GameID: gameID}
}

func (f *fakeStore) addTaxon(t database.Taxon) {
	if f.taxa[t.Kind] == nil {
		f.taxa[t.Kind] = make(map[int64]database.Taxon)
	}
	f.taxa[t.Kind][t.ID] = t
}

func (f *fakeStore) addArticle(a database.Article) {
	a.Published = true
	f.articles = append(f.articles, a)
}

func byIDs[T any](op string, f *fakeStore, rows map[int64]T, ids []int64) ([]T, error) {
	if err := f.call(op); err != nil {
		return nil, err
	}
	var out []T
	for _, id := range ids {
		if row, ok := rows[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeStore) GetGame(id int64) (*database.Game, error) {
	if err := f.call("GetGame"); err != nil {
		return nil, err
	}
	if g, ok := f.games[id]; ok {
		return &g, nil
	}
	return nil, nil
}

func (f *fakeStore) GetGameBySlug(slug string) (*database.Game, error) {
	if err := f.call("GetGameBySlug"); err != nil {
		return nil, err
	}
	for _, g := range f.games {
		if g.Slug == slug {
			return &g, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetGames() ([]database.Game, error) {
	if err := f.call("GetGames"); err != nil {
		return nil, err
	}
	var out []database.Game
	for _, g := range f.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetGamesByIDs(ids []int64) ([]database.Game, error) {
	return byIDs("GetGamesByIDs", f, f.games, ids)
}

func (f *fakeStore) GetVideosByIDs(ids []int64) ([]database.Video, error) {
	return byIDs("GetVideosByIDs", f, f.videos, ids)
}

func (f *fakeStore) GetPublishedArticle(id int64) (*database.Article, error) {
	if err := f.call("GetPublishedArticle"); err != nil {
		return nil, err
	}
	for _, a := range f.articles {
		if a.ID == id && a.Published {
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetPublishedArticles(q database.ArticleQuery) ([]database.Article, error) {
	if err := f.call("GetPublishedArticles"); err != nil {
		return nil, err
	}
	var out []database.Article
	for _, a := range f.articles {
		if !a.Published || (q.GameID != 0 && a.GameID != q.GameID) {
			continue
		}
		if q.Related != "" {
			kind, id, ok := a.Related()
			if !ok || kind != q.Related || (q.RelatedID != 0 && id != q.RelatedID) {
				continue
			}
		}
		if q.Search != "" && !strings.Contains(a.Title, q.Search) {
			continue
		}
		out = append(out, a)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) GetArticlesByCategory(categoryID int64, limit int) ([]database.Article, error) {
	if err := f.call("GetArticlesByCategory"); err != nil {
		return nil, err
	}
	var out []database.Article
	for _, l := range f.links {
		if l.CategoryID != categoryID {
			continue
		}
		for _, a := range f.articles {
			if a.ID == l.ArticleID {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) GetCategory(id int64) (*database.Category, error) {
	if err := f.call("GetCategory"); err != nil {
		return nil, err
	}
	if c, ok := f.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeStore) GetCategoriesForGame(gameID int64) ([]database.Category, error) {
	if err := f.call("GetCategoriesForGame"); err != nil {
		return nil, err
	}
	var out []database.Category
	for _, c := range f.categories {
		if c.GameID == gameID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAllCategories() ([]database.Category, error) {
	if err := f.call("GetAllCategories"); err != nil {
		return nil, err
	}
	var out []database.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) GetCategoriesByIDs(ids []int64) ([]database.Category, error) {
	return byIDs("GetCategoriesByIDs", f, f.categories, ids)
}

func (f *fakeStore) GetArticleCategoryLinks(articleIDs []int64) ([]database.ArticleCategory, error) {
	if err := f.call("GetArticleCategoryLinks"); err != nil {
		return nil, err
	}
	want := make(map[int64]bool, len(articleIDs))
	for _, id := range articleIDs {
		want[id] = true
	}
	var out []database.ArticleCategory
	for _, l := range f.links {
		if want[l.ArticleID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) GetTaxa(kind database.TaxonKind, gameID int64) ([]database.Taxon, error) {
	if err := f.call("GetTaxa"); err != nil {
		return nil, err
	}
	var out []database.Taxon
	for _, t := range f.taxa[kind] {
		if gameID == 0 || t.GameID == gameID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetTaxonBySlug(kind database.TaxonKind, gameID int64, slug string) (*database.Taxon, error) {
	if err := f.call("GetTaxonBySlug"); err != nil {
		return nil, err
	}
	for _, t := range f.taxa[kind] {
		if t.Slug == slug && (gameID == 0 || t.GameID == gameID) {
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetTaxaByIDs(kind database.TaxonKind, ids []int64) ([]database.Taxon, error) {
	return byIDs("GetTaxaByIDs", f, f.taxa[kind], ids)
}

func (f *fakeStore) GetFilterKeywords(kind database.TaxonKind, entityIDs []int64) ([]database.FilterKeyword, error) {
	if err := f.call("GetFilterKeywords"); err != nil {
		return nil, err
	}
	var out []database.FilterKeyword
	for _, k := range f.keywords {
		if k.EntityType == kind {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeStore) CountPublishedByDay(from, to string) ([]database.DayCount, error) {
	if err := f.call("CountPublishedByDay"); err != nil {
		return nil, err
	}
	return []database.DayCount{{Day: from, Count: 1}}, nil
}

var _ Store = (*fakeStore)(nil)

func ptr[T any](v T) *T { return &v }
