package database

import (
	"database/sql"
	"fmt"
)

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
//
// Content tables carry no REFERENCES clauses: rows are written out-of-band
// and a dangling video_id or related_*_id must still be storable so the page
// layer can decide what to do with it.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS games (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    slug TEXT UNIQUE NOT NULL,
    description TEXT,
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS videos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    video_id TEXT UNIQUE NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    channel_name TEXT,
    published_at TEXT,
    thumbnail_url TEXT,
    game_id INTEGER NOT NULL,
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS articles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    summary TEXT,
    video_id INTEGER NOT NULL,
    game_id INTEGER NOT NULL,
    published INTEGER DEFAULT 0,
    seo_title TEXT,
    meta_description TEXT,
    keywords TEXT,
    slug TEXT,
    related_boss_id INTEGER,
    related_strategy_id INTEGER,
    related_class_id INTEGER,
    related_tip_id INTEGER,
    related_dungeon_id INTEGER,
    related_story_id INTEGER,
    read_time INTEGER DEFAULT 0,
    created_at TEXT DEFAULT (datetime('now')),
    updated_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    description TEXT,
    game_id INTEGER NOT NULL,
    UNIQUE (game_id, slug)
);

CREATE TABLE IF NOT EXISTS article_categories (
    article_id INTEGER NOT NULL,
    category_id INTEGER NOT NULL,
    PRIMARY KEY (article_id, category_id)
);

CREATE TABLE IF NOT EXISTS bosses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    description TEXT,
    image_url TEXT,
    UNIQUE (game_id, slug)
);

CREATE TABLE IF NOT EXISTS classes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    description TEXT,
    image_url TEXT,
    UNIQUE (game_id, slug)
);

CREATE TABLE IF NOT EXISTS dungeons (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    description TEXT,
    image_url TEXT,
    UNIQUE (game_id, slug)
);

CREATE TABLE IF NOT EXISTS strategies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    description TEXT,
    image_url TEXT,
    UNIQUE (game_id, slug)
);

CREATE TABLE IF NOT EXISTS tips (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    description TEXT,
    image_url TEXT,
    UNIQUE (game_id, slug)
);

CREATE TABLE IF NOT EXISTS stories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    description TEXT,
    image_url TEXT,
    UNIQUE (game_id, slug)
);

CREATE INDEX IF NOT EXISTS idx_articles_game ON articles(game_id, published);
CREATE INDEX IF NOT EXISTS idx_articles_created ON articles(created_at);
CREATE INDEX IF NOT EXISTS idx_videos_game ON videos(game_id);
CREATE INDEX IF NOT EXISTS idx_article_categories_category ON article_categories(category_id);
`)
			return err
		},
	},
	{
		Version:     2,
		Description: "filter keywords",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS filter_keywords (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_type TEXT NOT NULL,
    entity_id INTEGER NOT NULL,
    keyword TEXT NOT NULL,
    exclude INTEGER DEFAULT 0,
    UNIQUE (entity_type, entity_id, keyword)
);

CREATE INDEX IF NOT EXISTS idx_filter_keywords_entity ON filter_keywords(entity_type, entity_id);
`)
			return err
		},
	},
	{
		// Taxonomy pages are addressed as /<table>/<slug>, so a slug may
		// only be used once per table across all games.
		Version:     3,
		Description: "taxonomy slugs unique per table",
		Up: func(tx *sql.Tx) error {
			for _, kind := range TaxonKinds {
				table := kind.Table()
				if _, err := tx.Exec(fmt.Sprintf(
					"CREATE UNIQUE INDEX IF NOT EXISTS idx_%s_slug ON %s(slug)", table, table,
				)); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
