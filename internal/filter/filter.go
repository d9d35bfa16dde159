// Package filter narrows article lists on the guide pages by literal
// keyword matching.
//
// A Table maps filter keys (taxonomy slugs) to the substrings that select
// an article. Matching is case-sensitive substring containment, OR across
// keywords, over the article title, the source video title and the body.
// Exclusion keywords reject an article when they occur in the title or the
// source title, whatever else matches.
package filter

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ao4646/game-study-academy/internal/database"
)

// AllKey is the identity filter.
const AllKey = "all"

// Entry is one filter button.
type Entry struct {
	Key      string
	Label    string
	EntityID int64
	Include  []string
	Exclude  []string
}

// Fields is the text an article exposes to the filter.
type Fields struct {
	Title       string
	SourceTitle string
	Body        string
}

// Table is an ordered set of filter entries.
type Table struct {
	entries []Entry
	byKey   map[string]int
}

// NewTable builds a table from entries. Later entries with a duplicate key
// are dropped, as is any entry that tries to claim AllKey.
func NewTable(entries []Entry) *Table {
	t := &Table{byKey: make(map[string]int, len(entries))}
	for _, e := range entries {
		if e.Key == "" || e.Key == AllKey {
			continue
		}
		if _, dup := t.byKey[e.Key]; dup {
			continue
		}
		e.Include = normalizeAll(e.Include)
		e.Exclude = normalizeAll(e.Exclude)
		t.byKey[e.Key] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t
}

// FromTaxa builds a table from taxonomy rows and their stored keywords.
// Rows without include keywords match on their own name.
func FromTaxa(taxa []database.Taxon, keywords []database.FilterKeyword) *Table {
	type kw struct{ include, exclude []string }
	byEntity := make(map[int64]*kw)
	for _, k := range keywords {
		e, ok := byEntity[k.EntityID]
		if !ok {
			e = &kw{}
			byEntity[k.EntityID] = e
		}
		if k.Exclude {
			e.exclude = append(e.exclude, k.Keyword)
		} else {
			e.include = append(e.include, k.Keyword)
		}
	}

	entries := make([]Entry, 0, len(taxa))
	for _, tx := range taxa {
		entry := Entry{Key: tx.Slug, Label: tx.Name, EntityID: tx.ID}
		if e, ok := byEntity[tx.ID]; ok {
			entry.Include = e.include
			entry.Exclude = e.exclude
		}
		if len(entry.Include) == 0 {
			entry.Include = []string{tx.Name}
		}
		entries = append(entries, entry)
	}
	return NewTable(entries)
}

// KeysOnly builds a table with one entry per row and no keywords, so the
// keys resolve but match nothing.
func KeysOnly(taxa []database.Taxon) *Table {
	entries := make([]Entry, 0, len(taxa))
	for _, tx := range taxa {
		entries = append(entries, Entry{Key: tx.Slug, Label: tx.Name, EntityID: tx.ID})
	}
	return NewTable(entries)
}

// Entries returns the filter entries in display order, excluding AllKey.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Has reports whether key is AllKey or a known entry.
func (t *Table) Has(key string) bool {
	if key == AllKey {
		return true
	}
	_, ok := t.byKey[key]
	return ok
}

// Resolve maps unknown or empty keys to AllKey.
func (t *Table) Resolve(key string) string {
	if t.Has(key) {
		return key
	}
	return AllKey
}

// Entry returns the entry for key.
func (t *Table) Entry(key string) (Entry, bool) {
	i, ok := t.byKey[key]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Match reports whether f passes the filter for key. AllKey matches
// everything; unknown keys match nothing.
func (t *Table) Match(key string, f Fields) bool {
	if key == AllKey {
		return true
	}
	e, ok := t.Entry(key)
	if !ok {
		return false
	}
	title := norm.NFC.String(f.Title)
	source := norm.NFC.String(f.SourceTitle)

	for _, x := range e.Exclude {
		if strings.Contains(title, x) || strings.Contains(source, x) {
			return false
		}
	}

	body := norm.NFC.String(f.Body)
	for _, kw := range e.Include {
		if strings.Contains(title, kw) || strings.Contains(source, kw) || strings.Contains(body, kw) {
			return true
		}
	}
	return false
}

// Apply returns the items that pass the filter for key, preserving order.
// For AllKey the input slice is returned unchanged.
func Apply[T any](t *Table, key string, items []T, fields func(T) Fields) []T {
	if key == AllKey {
		return items
	}
	var out []T
	for _, item := range items {
		if t.Match(key, fields(item)) {
			out = append(out, item)
		}
	}
	return out
}

// Counts returns the number of items each key would keep, including AllKey.
func Counts[T any](t *Table, items []T, fields func(T) Fields) map[string]int {
	counts := make(map[string]int, len(t.entries)+1)
	counts[AllKey] = len(items)
	for _, e := range t.entries {
		n := 0
		for _, item := range items {
			if t.Match(e.Key, fields(item)) {
				n++
			}
		}
		counts[e.Key] = n
	}
	return counts
}

func normalizeAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = norm.NFC.String(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
