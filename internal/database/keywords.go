package database

import (
	"fmt"
)

// InsertFilterKeyword stores a keyword for a taxonomy row. Duplicates are ignored.
func (db *DB) InsertFilterKeyword(kind TaxonKind, entityID int64, keyword string, exclude bool) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown taxonomy kind %q", kind)
	}
	_, err := db.conn.Exec(
		`INSERT OR IGNORE INTO filter_keywords (entity_type, entity_id, keyword, exclude)
		VALUES (?, ?, ?, ?)`,
		string(kind), entityID, keyword, boolToInt(exclude),
	)
	return err
}

// GetFilterKeywords returns the keywords of the given taxonomy rows, in
// insertion order.
func (db *DB) GetFilterKeywords(kind TaxonKind, entityIDs []int64) ([]FilterKeyword, error) {
	if len(entityIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(entityIDs)
	args = append([]any{string(kind)}, args...)
	rows, err := db.conn.Query(
		`SELECT id, entity_type, entity_id, keyword, exclude FROM filter_keywords
		WHERE entity_type = ? AND entity_id IN (`+in+`) ORDER BY id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []FilterKeyword
	for rows.Next() {
		var k FilterKeyword
		var entityType string
		var exclude int
		if err := rows.Scan(&k.ID, &entityType, &k.EntityID, &k.Keyword, &exclude); err != nil {
			return nil, err
		}
		k.EntityType = TaxonKind(entityType)
		k.Exclude = exclude != 0
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}
