package database

import (
	"bytes"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func id(n int64) *int64 { return &n }

func seedGame(t *testing.T, db *DB) (gameID, videoID int64) {
	t.Helper()
	gameID, err := db.InsertGame("エルデンリング", "elden-ring", nil)
	if err != nil {
		t.Fatalf("insert game: %v", err)
	}
	videoID, _, err = db.UpsertVideo(Video{VideoID: "abc123", Title: "ボス攻略", GameID: gameID})
	if err != nil {
		t.Fatalf("insert video: %v", err)
	}
	return gameID, videoID
}

func TestMigrateNewDB(t *testing.T) {
	db := openTestDB(t)

	version, err := getSchemaVersion(db.conn)
	if err != nil {
		t.Fatalf("getSchemaVersion: %v", err)
	}
	if version != latestVersion() {
		t.Errorf("expected version %d, got %d", latestVersion(), version)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "idem.db")

	db1, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := db1.InsertGame("Game", "game", nil); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db1.Close()

	db2, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer db2.Close()

	games, err := db2.GetGames()
	if err != nil {
		t.Fatalf("GetGames: %v", err)
	}
	if len(games) != 1 {
		t.Errorf("expected data to survive reopen, got %d games", len(games))
	}
}

func TestOpenRefusesNewerSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "newer.db")

	db, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := db.conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", latestVersion()+1)); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := Open(dbPath, nil); err == nil {
		t.Fatal("expected an error opening a database from a newer build")
	}
}

func TestGameLookups(t *testing.T) {
	db := openTestDB(t)
	gid, err := db.InsertGame("エルデンリング", "elden-ring", ptr("褪せ人の旅"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g, err := db.GetGameBySlug("elden-ring")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g == nil || g.ID != gid {
		t.Fatalf("expected game %d by slug, got %+v", gid, g)
	}

	missing, err := db.GetGame(999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing game")
	}

	byIDs, _ := db.GetGamesByIDs([]int64{gid, 999})
	if len(byIDs) != 1 {
		t.Errorf("expected 1 game by IDs, got %d", len(byIDs))
	}
}

func TestUpsertVideo(t *testing.T) {
	db := openTestDB(t)
	gid, vid := seedGame(t, db)

	again, isNew, err := db.UpsertVideo(Video{VideoID: "abc123", Title: "改題", GameID: gid})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if isNew {
		t.Error("expected existing video to be updated, not inserted")
	}
	if again != vid {
		t.Errorf("expected same row id %d, got %d", vid, again)
	}

	v, _ := db.GetVideo(vid)
	if v == nil || v.Title != "改題" {
		t.Errorf("expected refreshed title, got %+v", v)
	}
}

func TestPublishedArticleQueries(t *testing.T) {
	db := openTestDB(t)
	gid, vid := seedGame(t, db)

	bossID, err := db.InsertTaxon(Taxon{Kind: KindBoss, GameID: gid, Name: "ゴドリック", Slug: "godrick"})
	if err != nil {
		t.Fatalf("insert boss: %v", err)
	}

	a1 := Article{Title: "ゴドリック攻略", Content: "本文", VideoID: vid, GameID: gid, Published: true,
		CreatedAt: "2024-03-01 10:00:00", RelatedBossID: id(bossID)}
	a2 := Article{Title: "序盤の進め方", Content: "本文", VideoID: vid, GameID: gid, Published: true,
		CreatedAt: "2024-03-02 09:00:00"}
	draft := Article{Title: "下書き", Content: "本文", VideoID: vid, GameID: gid, Published: false,
		CreatedAt: "2024-03-02 12:00:00"}
	for _, a := range []Article{a1, a2, draft} {
		if _, err := db.InsertArticle(a); err != nil {
			t.Fatalf("insert article: %v", err)
		}
	}

	all, err := db.GetPublishedArticles(ArticleQuery{GameID: gid})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 published articles, got %d", len(all))
	}
	if all[0].Title != "序盤の進め方" {
		t.Errorf("expected newest first, got %q", all[0].Title)
	}

	related, _ := db.GetPublishedArticles(ArticleQuery{Related: KindBoss})
	if len(related) != 1 || related[0].Title != "ゴドリック攻略" {
		t.Errorf("expected only the boss article for NOT NULL filter, got %d", len(related))
	}

	byBoss, _ := db.GetPublishedArticles(ArticleQuery{Related: KindBoss, RelatedID: bossID})
	if len(byBoss) != 1 {
		t.Errorf("expected 1 article for boss %d, got %d", bossID, len(byBoss))
	}

	from, to, _ := DayRange("2024-03-02")
	day, _ := db.GetPublishedArticles(ArticleQuery{CreatedFrom: from, CreatedTo: to})
	if len(day) != 1 {
		t.Errorf("expected 1 published article on 2024-03-02, got %d", len(day))
	}

	search, _ := db.GetPublishedArticles(ArticleQuery{Search: "ゴドリック"})
	if len(search) != 1 {
		t.Errorf("expected 1 search hit, got %d", len(search))
	}

	limited, _ := db.GetPublishedArticles(ArticleQuery{Limit: 1, OrderByID: true})
	if len(limited) != 1 || limited[0].Title != "ゴドリック攻略" {
		t.Errorf("expected first article by id, got %+v", limited)
	}
}

func TestDanglingReferencesAreStorable(t *testing.T) {
	db := openTestDB(t)
	aid, err := db.InsertArticle(Article{Title: "孤立", VideoID: 404, GameID: 404, Published: true,
		RelatedBossID: id(77)})
	if err != nil {
		t.Fatalf("expected dangling references to be accepted: %v", err)
	}
	if err := db.AttachCategory(aid, 555); err != nil {
		t.Fatalf("expected dangling category link to be accepted: %v", err)
	}
}

func TestCategories(t *testing.T) {
	db := openTestDB(t)
	gid, vid := seedGame(t, db)

	cat1, _ := db.InsertCategory(Category{Name: "ボス攻略", Slug: "boss", GameID: gid})
	cat2, _ := db.InsertCategory(Category{Name: "序盤", Slug: "early", GameID: gid})
	aid, _ := db.InsertArticle(Article{Title: "A", VideoID: vid, GameID: gid, Published: true})

	if err := db.AttachCategory(aid, cat1); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := db.AttachCategory(aid, cat1); err != nil {
		t.Fatalf("attach twice should be a no-op: %v", err)
	}
	db.AttachCategory(aid, cat2)

	links, err := db.GetArticleCategoryLinks([]int64{aid})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 2 {
		t.Errorf("expected 2 links, got %d", len(links))
	}

	articles, _ := db.GetArticlesByCategory(cat2, 0)
	if len(articles) != 1 {
		t.Errorf("expected 1 article in category, got %d", len(articles))
	}

	cats, _ := db.GetCategoriesForGame(gid)
	if len(cats) != 2 {
		t.Errorf("expected 2 categories, got %d", len(cats))
	}
}

func TestTaxonomyAndKeywords(t *testing.T) {
	db := openTestDB(t)
	gid, _ := seedGame(t, db)

	did, err := db.InsertTaxon(Taxon{Kind: KindDungeon, GameID: gid, Name: "王都ローデイル", Slug: "leyndell"})
	if err != nil {
		t.Fatalf("insert dungeon: %v", err)
	}
	db.InsertFilterKeyword(KindDungeon, did, "王都ローデイル", false)
	db.InsertFilterKeyword(KindDungeon, did, "灰都", true)
	db.InsertFilterKeyword(KindDungeon, did, "灰都", true)

	tx, err := db.GetTaxonBySlug(KindDungeon, gid, "leyndell")
	if err != nil || tx == nil {
		t.Fatalf("expected dungeon by slug, got %v, %v", tx, err)
	}
	if tx.Kind != KindDungeon {
		t.Errorf("expected kind dungeon, got %q", tx.Kind)
	}

	kws, err := db.GetFilterKeywords(KindDungeon, []int64{did})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kws) != 2 {
		t.Fatalf("expected 2 keywords after duplicate insert, got %d", len(kws))
	}
	if !kws[1].Exclude {
		t.Error("expected second keyword to be an exclusion")
	}

	if _, err := db.GetTaxa(TaxonKind("npc"), gid); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestTaxonSlugUniqueAcrossGames(t *testing.T) {
	db := openTestDB(t)
	gid, _ := seedGame(t, db)
	other, err := db.InsertGame("ダークソウル", "dark-souls", nil)
	if err != nil {
		t.Fatalf("insert game: %v", err)
	}

	if _, err := db.InsertTaxon(Taxon{Kind: KindBoss, GameID: gid, Name: "マルギット", Slug: "margit"}); err != nil {
		t.Fatalf("insert boss: %v", err)
	}
	if _, err := db.InsertTaxon(Taxon{Kind: KindBoss, GameID: other, Name: "別のマルギット", Slug: "margit"}); err == nil {
		t.Error("expected a second boss with the same slug to be rejected")
	}
	if _, err := db.InsertTaxon(Taxon{Kind: KindTip, GameID: other, Name: "マルギット対策", Slug: "margit"}); err != nil {
		t.Errorf("same slug in another table should be allowed: %v", err)
	}
}

func TestStoreLogsWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug})
	db, err := Open(filepath.Join(t.TempDir(), "log.db"), logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	gid, vid := seedGame(t, db)
	aid, _ := db.InsertArticle(Article{Title: "A", Content: "old", VideoID: vid, GameID: gid})
	if _, err := db.UpdateArticleContent(aid, "new", "2025-01-01 00:00:00"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := db.UpdateArticleContent(9999, "new", "2025-01-01 00:00:00"); err != nil {
		t.Fatalf("update missing: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"store: video inserted", "store: article content replaced", "store: article update matched no row"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log output:\n%s", want, out)
		}
	}
}

func TestUpdateArticleContent(t *testing.T) {
	db := openTestDB(t)
	gid, vid := seedGame(t, db)
	aid, _ := db.InsertArticle(Article{Title: "A", Content: "old", VideoID: vid, GameID: gid})

	updated, err := db.UpdateArticleContent(aid, "new", "2025-01-01 00:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated == nil || updated.Content != "new" || updated.UpdatedAt != "2025-01-01 00:00:00" {
		t.Errorf("expected updated row, got %+v", updated)
	}

	missing, err := db.UpdateArticleContent(999, "x", "2025-01-01 00:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing article")
	}
}

func TestCountPublishedByDay(t *testing.T) {
	db := openTestDB(t)
	gid, vid := seedGame(t, db)
	for _, ts := range []string{"2024-03-01 01:00:00", "2024-03-01 23:00:00", "2024-03-15 12:00:00", "2024-04-01 00:00:00"} {
		db.InsertArticle(Article{Title: "A", VideoID: vid, GameID: gid, Published: true, CreatedAt: ts})
	}

	from, to, _ := MonthRange("2024-03")
	counts, err := db.CountPublishedByDay(from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 days, got %d", len(counts))
	}
	if counts[0].Day != "2024-03-01" || counts[0].Count != 2 {
		t.Errorf("unexpected first day %+v", counts[0])
	}
}

func TestDayRange(t *testing.T) {
	from, to, err := DayRange("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from != "2024-02-29" || to != "2024-03-01" {
		t.Errorf("unexpected range %s..%s", from, to)
	}

	for _, bad := range []string{"2024-2-1", "20240201", "2024-13-01", "abcd-ef-gh", ""} {
		if _, _, err := DayRange(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestStats(t *testing.T) {
	db := openTestDB(t)
	gid, vid := seedGame(t, db)
	db.InsertArticle(Article{Title: "A", VideoID: vid, GameID: gid, Published: true})
	db.InsertArticle(Article{Title: "B", VideoID: vid, GameID: gid})
	db.InsertTaxon(Taxon{Kind: KindStory, GameID: gid, Name: "ラニ", Slug: "ranni"})

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Articles != 2 || stats.PublishedArticles != 1 {
		t.Errorf("unexpected article counts %+v", stats)
	}
	if stats.Taxa[KindStory] != 1 {
		t.Errorf("expected 1 story, got %d", stats.Taxa[KindStory])
	}
}

func TestFromConnSkipsMigrations(t *testing.T) {
	conn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "raw.db"))
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	defer conn.Close()

	db := FromConn(conn)
	if _, err := db.GetGames(); err == nil {
		t.Error("expected query against unmigrated connection to fail")
	}
}
