// Package lite opens the embedded sqlite database used when the engine runs
// on-device with no postgres nearby
package lite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Config configures the sqlite file. Path ":memory:" opens an in-memory
// database, used by tests
type Config struct {
	Path string
}

// Lite holds the open handle. modernc sqlite is an in-process library; a
// single connection avoids "database is locked" contention
type Lite struct {
	DB *sql.DB
}

// Open opens or creates the database and applies the pragmas the engine
// relies on
func Open(cfg Config) (*Lite, error) {
	dsn := cfg.Path
	if dsn == "" {
		return nil, fmt.Errorf("lite: empty path")
	}
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("lite: create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("lite: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("lite: ping: %w", err)
	}
	db.SetMaxOpenConns(1)

	// wait briefly under contention instead of failing immediately
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("lite: busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("lite: journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("lite: foreign keys: %w", err)
	}
	return &Lite{DB: db}, nil
}

// Close closes the handle
func (l *Lite) Close() error {
	if l == nil || l.DB == nil {
		return nil
	}
	return l.DB.Close()
}
