package database

import (
	"database/sql"
	"fmt"
)

const gameColumns = "id, name, slug, description, created_at"

// InsertGame inserts a game and returns its ID.
func (db *DB) InsertGame(name, slug string, description *string) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO games (name, slug, description) VALUES (?, ?, ?)",
		name, slug, description,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting game %s: %w", slug, err)
	}
	return result.LastInsertId()
}

// GetGame returns a game by ID, or nil if it does not exist.
func (db *DB) GetGame(id int64) (*Game, error) {
	row := db.conn.QueryRow("SELECT "+gameColumns+" FROM games WHERE id = ?", id)
	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGameBySlug returns a game by slug, or nil if it does not exist.
func (db *DB) GetGameBySlug(slug string) (*Game, error) {
	row := db.conn.QueryRow("SELECT "+gameColumns+" FROM games WHERE slug = ?", slug)
	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGames returns all games ordered by ID.
func (db *DB) GetGames() ([]Game, error) {
	rows, err := db.conn.Query("SELECT " + gameColumns + " FROM games ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGames(rows)
}

// GetGamesByIDs returns the games with the given IDs.
func (db *DB) GetGamesByIDs(ids []int64) ([]Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	in, args := inClause(ids)
	rows, err := db.conn.Query("SELECT "+gameColumns+" FROM games WHERE id IN ("+in+") ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGames(rows)
}

func scanGames(rows *sql.Rows) ([]Game, error) {
	var games []Game
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.Description, &g.CreatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func scanGame(row *sql.Row) (*Game, error) {
	var g Game
	if err := row.Scan(&g.ID, &g.Name, &g.Slug, &g.Description, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}
