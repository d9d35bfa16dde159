package database

// GetStats returns aggregate database statistics.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{Taxa: make(map[TaxonKind]int, len(TaxonKinds))}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM games", &s.Games},
		{"SELECT COUNT(*) FROM videos", &s.Videos},
		{"SELECT COUNT(*) FROM articles", &s.Articles},
		{"SELECT COUNT(*) FROM articles WHERE published = 1", &s.PublishedArticles},
		{"SELECT COUNT(*) FROM categories", &s.Categories},
		{"SELECT COUNT(*) FROM filter_keywords", &s.FilterKeywords},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	for _, kind := range TaxonKinds {
		var n int
		if err := db.conn.QueryRow("SELECT COUNT(*) FROM " + kind.Table()).Scan(&n); err != nil {
			return nil, err
		}
		s.Taxa[kind] = n
	}

	return s, nil
}
