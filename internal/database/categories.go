package database

import (
	"database/sql"
	"fmt"
)

const categoryColumns = "id, name, slug, description, game_id"

// InsertCategory inserts a category and returns its ID.
func (db *DB) InsertCategory(c Category) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO categories (name, slug, description, game_id) VALUES (?, ?, ?, ?)",
		c.Name, c.Slug, c.Description, c.GameID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting category %s: %w", c.Slug, err)
	}
	return result.LastInsertId()
}

// AttachCategory links an article to a category. Attaching twice is a no-op.
func (db *DB) AttachCategory(articleID, categoryID int64) error {
	_, err := db.conn.Exec(
		"INSERT OR IGNORE INTO article_categories (article_id, category_id) VALUES (?, ?)",
		articleID, categoryID,
	)
	return err
}

// GetCategory returns a category by ID, or nil if it does not exist.
func (db *DB) GetCategory(id int64) (*Category, error) {
	row := db.conn.QueryRow("SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.GameID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// GetCategoriesForGame returns a game's categories ordered by ID.
func (db *DB) GetCategoriesForGame(gameID int64) ([]Category, error) {
	rows, err := db.conn.Query(
		"SELECT "+categoryColumns+" FROM categories WHERE game_id = ? ORDER BY id", gameID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategories(rows)
}

// GetAllCategories returns every category ordered by ID.
func (db *DB) GetAllCategories() ([]Category, error) {
	rows, err := db.conn.Query("SELECT " + categoryColumns + " FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategories(rows)
}

// GetArticleCategoryLinks returns the join rows for the given articles.
func (db *DB) GetArticleCategoryLinks(articleIDs []int64) ([]ArticleCategory, error) {
	if len(articleIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(articleIDs)
	rows, err := db.conn.Query(
		"SELECT article_id, category_id FROM article_categories WHERE article_id IN ("+in+") ORDER BY article_id, category_id",
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []ArticleCategory
	for rows.Next() {
		var l ArticleCategory
		if err := rows.Scan(&l.ArticleID, &l.CategoryID); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// GetCategoriesByIDs returns the categories with the given IDs.
func (db *DB) GetCategoriesByIDs(ids []int64) ([]Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	in, args := inClause(ids)
	rows, err := db.conn.Query(
		"SELECT "+categoryColumns+" FROM categories WHERE id IN ("+in+") ORDER BY id", args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategories(rows)
}

func scanCategories(rows *sql.Rows) ([]Category, error) {
	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.GameID); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
