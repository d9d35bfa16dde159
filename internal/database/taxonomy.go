package database

import (
	"database/sql"
	"fmt"
)

// TaxonKind names one of the taxonomy tables.
type TaxonKind string

const (
	KindBoss     TaxonKind = "boss"
	KindStrategy TaxonKind = "strategy"
	KindClass    TaxonKind = "class"
	KindTip      TaxonKind = "tip"
	KindDungeon  TaxonKind = "dungeon"
	KindStory    TaxonKind = "story"
)

// TaxonKinds lists every kind in related_*_id column order.
var TaxonKinds = []TaxonKind{KindBoss, KindStrategy, KindClass, KindTip, KindDungeon, KindStory}

var kindTables = map[TaxonKind]string{
	KindBoss:     "bosses",
	KindStrategy: "strategies",
	KindClass:    "classes",
	KindTip:      "tips",
	KindDungeon:  "dungeons",
	KindStory:    "stories",
}

// ParseTaxonKind accepts either a kind ("boss") or its table name ("bosses").
func ParseTaxonKind(s string) (TaxonKind, bool) {
	for kind, table := range kindTables {
		if s == string(kind) || s == table {
			return kind, true
		}
	}
	return "", false
}

// Table returns the table holding rows of this kind. It doubles as the URL
// segment for the listing pages.
func (k TaxonKind) Table() string {
	return kindTables[k]
}

// Column returns the articles column that references this kind.
func (k TaxonKind) Column() string {
	return "related_" + string(k) + "_id"
}

// Valid reports whether k is a known kind.
func (k TaxonKind) Valid() bool {
	_, ok := kindTables[k]
	return ok
}

const taxonColumns = "id, game_id, name, slug, description, image_url"

// InsertTaxon inserts a taxonomy row and returns its ID.
func (db *DB) InsertTaxon(t Taxon) (int64, error) {
	if !t.Kind.Valid() {
		return 0, fmt.Errorf("unknown taxonomy kind %q", t.Kind)
	}
	result, err := db.conn.Exec(
		fmt.Sprintf(`INSERT INTO %s (game_id, name, slug, description, image_url)
		VALUES (?, ?, ?, ?, ?)`, t.Kind.Table()),
		t.GameID, t.Name, t.Slug, t.Description, t.ImageURL,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting %s: %w", t.Kind, err)
	}
	return result.LastInsertId()
}

// GetTaxon returns a taxonomy row by ID, or nil if it does not exist.
func (db *DB) GetTaxon(kind TaxonKind, id int64) (*Taxon, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown taxonomy kind %q", kind)
	}
	row := db.conn.QueryRow(
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", taxonColumns, kind.Table()), id,
	)
	t, err := scanTaxon(row, kind)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTaxonBySlug returns a taxonomy row by slug. gameID 0 matches any game.
func (db *DB) GetTaxonBySlug(kind TaxonKind, gameID int64, slug string) (*Taxon, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown taxonomy kind %q", kind)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE slug = ?", taxonColumns, kind.Table())
	args := []any{slug}
	if gameID != 0 {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}
	query += " ORDER BY id LIMIT 1"

	t, err := scanTaxon(db.conn.QueryRow(query, args...), kind)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTaxa returns taxonomy rows ordered by ID. gameID 0 matches any game.
func (db *DB) GetTaxa(kind TaxonKind, gameID int64) ([]Taxon, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown taxonomy kind %q", kind)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", taxonColumns, kind.Table())
	var args []any
	if gameID != 0 {
		query += " WHERE game_id = ?"
		args = append(args, gameID)
	}
	query += " ORDER BY id"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTaxa(rows, kind)
}

// GetTaxaByIDs returns the taxonomy rows with the given IDs in ID order.
// Missing IDs are simply absent from the result.
func (db *DB) GetTaxaByIDs(kind TaxonKind, ids []int64) ([]Taxon, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown taxonomy kind %q", kind)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	in, args := inClause(ids)
	rows, err := db.conn.Query(
		fmt.Sprintf("SELECT %s FROM %s WHERE id IN (%s) ORDER BY id", taxonColumns, kind.Table(), in),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTaxa(rows, kind)
}

func scanTaxa(rows *sql.Rows, kind TaxonKind) ([]Taxon, error) {
	var taxa []Taxon
	for rows.Next() {
		var t Taxon
		if err := rows.Scan(&t.ID, &t.GameID, &t.Name, &t.Slug, &t.Description, &t.ImageURL); err != nil {
			return nil, err
		}
		t.Kind = kind
		taxa = append(taxa, t)
	}
	return taxa, rows.Err()
}

func scanTaxon(row *sql.Row, kind TaxonKind) (*Taxon, error) {
	var t Taxon
	if err := row.Scan(&t.ID, &t.GameID, &t.Name, &t.Slug, &t.Description, &t.ImageURL); err != nil {
		return nil, err
	}
	t.Kind = kind
	return &t, nil
}
