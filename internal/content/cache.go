package content

import (
	"sync"

	"github.com/ao4646/game-study-academy/internal/database"
)

// RequestCache memoises rows by ID for one page render. A looked-up ID that
// did not exist is remembered as a miss so it is not fetched again.
// All methods are safe on a nil receiver, which caches nothing.
type RequestCache struct {
	games      memo[database.Game]
	videos     memo[database.Video]
	categories memo[database.Category]

	mu   sync.Mutex
	taxa map[database.TaxonKind]*memo[database.Taxon]
}

// NewRequestCache returns an empty cache.
func NewRequestCache() *RequestCache {
	return &RequestCache{taxa: make(map[database.TaxonKind]*memo[database.Taxon])}
}

func (c *RequestCache) gameMemo() *memo[database.Game] {
	if c == nil {
		return nil
	}
	return &c.games
}

func (c *RequestCache) videoMemo() *memo[database.Video] {
	if c == nil {
		return nil
	}
	return &c.videos
}

func (c *RequestCache) categoryMemo() *memo[database.Category] {
	if c == nil {
		return nil
	}
	return &c.categories
}

func (c *RequestCache) taxonMemo(kind database.TaxonKind) *memo[database.Taxon] {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.taxa[kind]
	if !ok {
		m = &memo[database.Taxon]{}
		c.taxa[kind] = m
	}
	return m
}

// Len returns the number of IDs (hits and remembered misses) held.
func (c *RequestCache) Len() int {
	if c == nil {
		return 0
	}
	n := c.games.len() + c.videos.len() + c.categories.len()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.taxa {
		n += m.len()
	}
	return n
}

type memo[T any] struct {
	mu   sync.Mutex
	rows map[int64]*T
}

// split returns the cached rows for ids and the IDs that still need a lookup.
func (m *memo[T]) split(ids []int64) (map[int64]*T, []int64) {
	found := make(map[int64]*T, len(ids))
	if m == nil {
		return found, ids
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var missing []int64
	for _, id := range ids {
		row, ok := m.rows[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if row != nil {
			found[id] = row
		}
	}
	return found, missing
}

// remember records the outcome of looking up ids: rows present in fetched
// are hits, the rest are misses.
func (m *memo[T]) remember(ids []int64, fetched map[int64]*T) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = make(map[int64]*T, len(ids))
	}
	for _, id := range ids {
		m.rows[id] = fetched[id]
	}
}

func (m *memo[T]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
