package database

import (
	"database/sql"
	"fmt"
	"strings"
)

const articleColumns = `id, title, content, summary, video_id, game_id, published,
	seo_title, meta_description, keywords, slug,
	related_boss_id, related_strategy_id, related_class_id, related_tip_id, related_dungeon_id, related_story_id,
	read_time, created_at, updated_at`

// InsertArticle inserts an article. Zero CreatedAt/UpdatedAt use the database clock.
func (db *DB) InsertArticle(a Article) (int64, error) {
	columns := `title, content, summary, video_id, game_id, published,
		seo_title, meta_description, keywords, slug,
		related_boss_id, related_strategy_id, related_class_id, related_tip_id, related_dungeon_id, related_story_id,
		read_time`
	args := []any{
		a.Title, a.Content, a.Summary, a.VideoID, a.GameID, boolToInt(a.Published),
		a.SEOTitle, a.MetaDescription, a.Keywords, a.Slug,
		a.RelatedBossID, a.RelatedStrategyID, a.RelatedClassID, a.RelatedTipID, a.RelatedDungeonID, a.RelatedStoryID,
		a.ReadTime,
	}
	if a.CreatedAt != "" {
		columns += ", created_at"
		args = append(args, a.CreatedAt)
	}
	if a.UpdatedAt != "" {
		columns += ", updated_at"
		args = append(args, a.UpdatedAt)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	result, err := db.conn.Exec(
		fmt.Sprintf("INSERT INTO articles (%s) VALUES (%s)", columns, placeholders), args...,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting article: %w", err)
	}
	return result.LastInsertId()
}

// GetArticle returns an article by ID regardless of its published flag.
func (db *DB) GetArticle(id int64) (*Article, error) {
	row := db.conn.QueryRow("SELECT "+articleColumns+" FROM articles WHERE id = ?", id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetPublishedArticle returns a published article by ID, or nil.
func (db *DB) GetPublishedArticle(id int64) (*Article, error) {
	row := db.conn.QueryRow("SELECT "+articleColumns+" FROM articles WHERE id = ? AND published = 1", id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetPublishedArticles returns published articles matching q.
func (db *DB) GetPublishedArticles(q ArticleQuery) ([]Article, error) {
	query := "SELECT " + articleColumns + " FROM articles WHERE published = 1"
	var args []any

	if q.GameID != 0 {
		query += " AND game_id = ?"
		args = append(args, q.GameID)
	}
	if q.Related != "" {
		if !q.Related.Valid() {
			return nil, fmt.Errorf("unknown taxonomy kind %q", q.Related)
		}
		if q.RelatedID != 0 {
			query += " AND " + q.Related.Column() + " = ?"
			args = append(args, q.RelatedID)
		} else {
			query += " AND " + q.Related.Column() + " IS NOT NULL"
		}
	}
	if q.CreatedFrom != "" {
		query += " AND created_at >= ?"
		args = append(args, q.CreatedFrom)
	}
	if q.CreatedTo != "" {
		query += " AND created_at < ?"
		args = append(args, q.CreatedTo)
	}
	if q.Search != "" {
		query += " AND (instr(title, ?) > 0 OR instr(COALESCE(summary, ''), ?) > 0)"
		args = append(args, q.Search, q.Search)
	}

	if q.OrderByID {
		query += " ORDER BY id"
	} else {
		query += " ORDER BY created_at DESC, id DESC"
	}
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// GetArticlesByCategory returns published articles attached to a category,
// newest first.
func (db *DB) GetArticlesByCategory(categoryID int64, limit int) ([]Article, error) {
	query := `SELECT ` + prefixed("a.", articleColumns) + `
		FROM articles a JOIN article_categories ac ON a.id = ac.article_id
		WHERE ac.category_id = ? AND a.published = 1
		ORDER BY a.created_at DESC, a.id DESC`
	args := []any{categoryID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// UpdateArticleContent replaces an article's body and stamps updated_at.
// Returns the updated row, or nil if no article has that ID.
func (db *DB) UpdateArticleContent(id int64, content, updatedAt string) (*Article, error) {
	result, err := db.conn.Exec(
		"UPDATE articles SET content = ?, updated_at = ? WHERE id = ?",
		content, updatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating article %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		db.logger.Warn("article update matched no row", "article", id)
		return nil, nil
	}
	db.logger.Info("article content replaced", "article", id, "bytes", len(content), "updated_at", updatedAt)
	return db.GetArticle(id)
}

// SetArticlePublished flips the published flag.
func (db *DB) SetArticlePublished(id int64, published bool) error {
	_, err := db.conn.Exec("UPDATE articles SET published = ? WHERE id = ?", boolToInt(published), id)
	return err
}

// CountPublishedByDay returns per-day counts of published articles created
// in [from, to).
func (db *DB) CountPublishedByDay(from, to string) ([]DayCount, error) {
	rows, err := db.conn.Query(
		`SELECT substr(created_at, 1, 10) AS day, COUNT(*)
		FROM articles WHERE published = 1 AND created_at >= ? AND created_at < ?
		GROUP BY day ORDER BY day`, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []DayCount
	for rows.Next() {
		var c DayCount
		if err := rows.Scan(&c.Day, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func prefixed(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticleRow(s rowScanner) (*Article, error) {
	var a Article
	var published int
	if err := s.Scan(&a.ID, &a.Title, &a.Content, &a.Summary, &a.VideoID, &a.GameID, &published,
		&a.SEOTitle, &a.MetaDescription, &a.Keywords, &a.Slug,
		&a.RelatedBossID, &a.RelatedStrategyID, &a.RelatedClassID, &a.RelatedTipID, &a.RelatedDungeonID, &a.RelatedStoryID,
		&a.ReadTime, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Published = published != 0
	return &a, nil
}

func scanArticles(rows *sql.Rows) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		a, err := scanArticleRow(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

func scanArticle(row *sql.Row) (*Article, error) {
	return scanArticleRow(row)
}
