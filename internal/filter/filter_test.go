package filter

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ao4646/game-study-academy/internal/database"
)

type doc struct {
	title, source, body string
}

func fieldsOf(d doc) Fields {
	return Fields{Title: d.title, SourceTitle: d.source, Body: d.body}
}

func areaTable() *Table {
	return NewTable([]Entry{
		{Key: "leyndell", Label: "王都ローデイル", Include: []string{"王都ローデイル", "ローデイル"}, Exclude: []string{"灰都"}},
		{Key: "ashen-capital", Label: "灰都ローデイル", Include: []string{"灰都"}},
		{Key: "limgrave", Label: "リムグレイブ", Include: []string{"リムグレイブ", "関門前"}},
		{Key: "stormveil", Label: "ストームヴィル城", Include: []string{"ストームヴィル"}},
	})
}

func TestAllKeyIsIdentity(t *testing.T) {
	table := areaTable()
	docs := []doc{{title: "a"}, {title: "b", body: "リムグレイブ"}, {}}

	got := Apply(table, AllKey, docs, fieldsOf)
	assert.Equal(t, docs, got)

	assert.Nil(t, Apply(table, AllKey, []doc(nil), fieldsOf))
}

func TestLeyndellExcludesAshenCapital(t *testing.T) {
	table := areaTable()
	royal := doc{title: "王都ローデイルの探索ルート"}
	ashen := doc{title: "灰都と王都ローデイルの違い"}

	got := Apply(table, "leyndell", []doc{royal, ashen}, fieldsOf)
	require.Len(t, got, 1)
	assert.Equal(t, royal, got[0])

	ashenOnly := Apply(table, "ashen-capital", []doc{royal, ashen}, fieldsOf)
	require.Len(t, ashenOnly, 1)
	assert.Equal(t, ashen, ashenOnly[0])
}

func TestExclusionChecksSourceTitle(t *testing.T) {
	table := areaTable()
	d := doc{title: "王都ローデイル攻略", source: "【エルデンリング】灰都ローデイル完全攻略"}
	assert.False(t, table.Match("leyndell", fieldsOf(d)))
}

func TestExclusionIgnoresBody(t *testing.T) {
	table := areaTable()
	d := doc{title: "王都ローデイル攻略", body: "後半は灰都に変わる"}
	assert.True(t, table.Match("leyndell", fieldsOf(d)))
}

func TestMatchAcrossFields(t *testing.T) {
	table := areaTable()
	assert.True(t, table.Match("limgrave", fieldsOf(doc{title: "序盤", source: "リムグレイブ探索"})))
	assert.True(t, table.Match("limgrave", fieldsOf(doc{title: "序盤", body: "関門前の教会"})))
	assert.False(t, table.Match("limgrave", fieldsOf(doc{title: "序盤"})))
}

func TestMatchIsCaseSensitive(t *testing.T) {
	table := NewTable([]Entry{{Key: "margit", Include: []string{"Margit"}}})
	assert.True(t, table.Match("margit", fieldsOf(doc{title: "Margit guide"})))
	assert.False(t, table.Match("margit", fieldsOf(doc{title: "margit guide"})))
}

func TestMatchNormalizesComposition(t *testing.T) {
	// "ド" precomposed in the keyword, decomposed (ト + combining dakuten) in the title.
	table := NewTable([]Entry{{Key: "godrick", Include: []string{"ゴドリック"}}})
	decomposed := "ゴ\u30c8\u3099リック攻略"
	assert.True(t, table.Match("godrick", fieldsOf(doc{title: decomposed})))
}

func TestUnknownKey(t *testing.T) {
	table := areaTable()
	assert.Empty(t, Apply(table, "nowhere", []doc{{title: "王都ローデイル"}}, fieldsOf))
	assert.Equal(t, AllKey, table.Resolve("nowhere"))
	assert.Equal(t, AllKey, table.Resolve(""))
	assert.Equal(t, "limgrave", table.Resolve("limgrave"))
}

func TestNewTableDropsDuplicatesAndAll(t *testing.T) {
	table := NewTable([]Entry{
		{Key: "a", Include: []string{"x"}},
		{Key: "a", Include: []string{"y"}},
		{Key: AllKey, Include: []string{"z"}},
		{Key: "", Include: []string{"w"}},
	})
	require.Len(t, table.Entries(), 1)
	e, ok := table.Entry("a")
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, e.Include)
}

func TestCounts(t *testing.T) {
	table := areaTable()
	docs := []doc{
		{title: "王都ローデイル"},
		{title: "灰都ローデイル"},
		{title: "リムグレイブ"},
		{title: "関門前", body: "ストームヴィル"},
	}
	counts := Counts(table, docs, fieldsOf)
	assert.Equal(t, 4, counts[AllKey])
	assert.Equal(t, 1, counts["leyndell"])
	assert.Equal(t, 1, counts["ashen-capital"])
	assert.Equal(t, 2, counts["limgrave"])
	assert.Equal(t, 1, counts["stormveil"])
}

func TestFromTaxa(t *testing.T) {
	taxa := []database.Taxon{
		{ID: 1, Kind: database.KindDungeon, Name: "王都ローデイル", Slug: "leyndell"},
		{ID: 2, Kind: database.KindDungeon, Name: "リエーニエ", Slug: "liurnia"},
	}
	keywords := []database.FilterKeyword{
		{EntityType: database.KindDungeon, EntityID: 1, Keyword: "王都ローデイル"},
		{EntityType: database.KindDungeon, EntityID: 1, Keyword: "灰都", Exclude: true},
	}
	table := FromTaxa(taxa, keywords)

	entries := table.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "leyndell", entries[0].Key)
	assert.Equal(t, []string{"灰都"}, entries[0].Exclude)
	assert.Equal(t, []string{"リエーニエ"}, entries[1].Include, "rows without keywords match on their name")
}

func TestKeysOnlyMatchesNothing(t *testing.T) {
	table := KeysOnly([]database.Taxon{{ID: 1, Kind: database.KindDungeon, Name: "王都ローデイル", Slug: "leyndell"}})

	assert.Equal(t, "leyndell", table.Resolve("leyndell"))
	docs := []doc{{title: "王都ローデイル探索"}, {title: "灰都と化した王都ローデイル"}}
	assert.Empty(t, Apply(table, "leyndell", docs, fieldsOf))
	assert.Len(t, Apply(table, AllKey, docs, fieldsOf), 2)
}

// Every non-all key yields a subset of the input whose members contain a
// keyword, never an excluded one in title/source, and filtering is idempotent.
func TestFilterProperties(t *testing.T) {
	table := areaTable()
	vocab := []string{"王都ローデイル", "灰都", "リムグレイブ", "関門前", "ストームヴィル", "攻略", "ボス", "ローデイル", ""}
	rng := rand.New(rand.NewSource(42))
	pick := func() string {
		n := rng.Intn(3)
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteString(vocab[rng.Intn(len(vocab))])
		}
		return b.String()
	}

	for round := 0; round < 200; round++ {
		docs := make([]doc, rng.Intn(8))
		for i := range docs {
			docs[i] = doc{title: pick(), source: pick(), body: pick()}
		}

		for _, e := range table.Entries() {
			got := Apply(table, e.Key, docs, fieldsOf)
			assert.LessOrEqual(t, len(got), len(docs))
			assert.Equal(t, got, Apply(table, e.Key, got, fieldsOf), "idempotent for %s", e.Key)

			for _, d := range got {
				assert.Contains(t, docs, d)
				assert.True(t, containsAny(d.title+"\x00"+d.source+"\x00"+d.body, e.Include), "include for %s: %+v", e.Key, d)
				assert.False(t, containsAny(d.title+"\x00"+d.source, e.Exclude), "exclude for %s: %+v", e.Key, d)
			}
		}
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
