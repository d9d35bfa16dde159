package database

import (
	"database/sql"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

func getSchemaVersion(conn *sql.DB) (int, error) {
	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// migrate applies every migration newer than the file's user_version. A
// file written by a newer build is refused rather than read with a schema
// this build does not know.
func migrate(conn *sql.DB, logger hclog.Logger) error {
	current, err := getSchemaVersion(conn)
	if err != nil {
		return err
	}

	latest := latestVersion()
	switch {
	case current > latest:
		return fmt.Errorf("schema version %d is newer than supported version %d", current, latest)
	case current == latest:
		logger.Debug("schema up to date", "version", current)
		return nil
	}

	pending := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := apply(conn, m, logger); err != nil {
			return err
		}
		pending++
	}
	logger.Info("schema migrated", "from", current, "to", latest, "applied", pending)
	return nil
}

func apply(conn *sql.DB, m Migration, logger hclog.Logger) error {
	logger.Debug("applying migration", "version", m.Version, "description", m.Description)

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("migration %d: begin: %w", m.Version, err)
	}
	if err := m.Up(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migration %d: commit: %w", m.Version, err)
	}

	// modernc/sqlite will not set user_version inside the transaction. The
	// DDL is idempotent, so a crash before this line only re-runs it.
	if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("migration %d: setting user_version: %w", m.Version, err)
	}
	return nil
}
