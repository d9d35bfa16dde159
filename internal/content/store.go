// Package content turns store rows into the view models the pages render.
//
// Every lookup here follows one rule: a store error is logged and becomes an
// empty result. Pages never see partial failure, only absence.
package content

import (
	"github.com/hashicorp/go-hclog"

	"github.com/ao4646/game-study-academy/internal/database"
)

// Store is the read side of the database the pages need.
type Store interface {
	GetGame(id int64) (*database.Game, error)
	GetGameBySlug(slug string) (*database.Game, error)
	GetGames() ([]database.Game, error)
	GetGamesByIDs(ids []int64) ([]database.Game, error)

	GetVideosByIDs(ids []int64) ([]database.Video, error)

	GetPublishedArticle(id int64) (*database.Article, error)
	GetPublishedArticles(q database.ArticleQuery) ([]database.Article, error)
	GetArticlesByCategory(categoryID int64, limit int) ([]database.Article, error)

	GetCategory(id int64) (*database.Category, error)
	GetCategoriesForGame(gameID int64) ([]database.Category, error)
	GetAllCategories() ([]database.Category, error)
	GetCategoriesByIDs(ids []int64) ([]database.Category, error)
	GetArticleCategoryLinks(articleIDs []int64) ([]database.ArticleCategory, error)

	GetTaxa(kind database.TaxonKind, gameID int64) ([]database.Taxon, error)
	GetTaxonBySlug(kind database.TaxonKind, gameID int64, slug string) (*database.Taxon, error)
	GetTaxaByIDs(kind database.TaxonKind, ids []int64) ([]database.Taxon, error)
	GetFilterKeywords(kind database.TaxonKind, entityIDs []int64) ([]database.FilterKeyword, error)

	CountPublishedByDay(from, to string) ([]database.DayCount, error)
}

var _ Store = (*database.DB)(nil)

// Reader answers page queries against a Store. A Reader obtained from
// ForRequest memoises lookups for the lifetime of one request.
type Reader struct {
	store  Store
	logger hclog.Logger
	cache  *RequestCache
}

// NewReader creates a Reader without a cache.
func NewReader(store Store, logger hclog.Logger) *Reader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Reader{store: store, logger: logger.Named("content")}
}

// ForRequest returns a Reader sharing the store but with a fresh cache.
func (r *Reader) ForRequest() *Reader {
	return &Reader{store: r.store, logger: r.logger, cache: NewRequestCache()}
}

// Cache exposes the request cache, nil for the base Reader.
func (r *Reader) Cache() *RequestCache {
	return r.cache
}

func rowsOrEmpty[T any](logger hclog.Logger, op string, rows []T, err error, args ...any) []T {
	if err != nil {
		logger.Warn("query failed, using empty result", append([]any{"op", op, "error", err}, args...)...)
		return nil
	}
	return rows
}

func rowOrNil[T any](logger hclog.Logger, op string, row *T, err error, args ...any) *T {
	if err != nil {
		logger.Warn("query failed, using empty result", append([]any{"op", op, "error", err}, args...)...)
		return nil
	}
	return row
}
