package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB provides SQLite-based storage for the search index.
// It manages connection pooling and exposes CRUD operations for sites,
// pages, lemmas and postings.
//
// Design decision: A single database file holds all sites rather than
// one file per site. Cross-site search and the statistics report need
// relationship queries, and a single file simplifies backup/restore.
type DB struct {
	// db is the underlying SQL database connection pool.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures DB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. WAL lets search queries
	// read while crawl workers write, so it is recommended.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the index database under dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned.
func Open(dbDir string, opts Options) (*DB, error) {
	dbPath := filepath.Join(dbDir, "sitesearch.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer at a time; a small pool lets search
	// reads proceed in WAL mode while crawl workers write. Writer
	// conflicts surface as SQLITE_BUSY and are handled by the indexing
	// engine's retry policy (see IsContention).
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &DB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *DB) Close() error {
	return sdb.db.Close()
}

// Ping verifies the database is reachable.
func (sdb *DB) Ping(ctx context.Context) error {
	return sdb.db.PingContext(ctx)
}

// createTables creates the database schema if it doesn't exist.
func (sdb *DB) createTables() error {
	schema := `
	-- One row per configured root URL; recreated on each crawl run.
	CREATE TABLE IF NOT EXISTS site (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		status_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_error TEXT NOT NULL DEFAULT ''
	);

	-- One row per unique (site, path) pair with the raw fetched HTML.
	CREATE TABLE IF NOT EXISTS page (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site_id INTEGER NOT NULL REFERENCES site(id),
		path TEXT NOT NULL,
		code INTEGER NOT NULL,
		content TEXT NOT NULL,
		UNIQUE(site_id, path)
	);

	CREATE INDEX IF NOT EXISTS idx_page_site ON page(site_id);
	CREATE INDEX IF NOT EXISTS idx_page_path ON page(path);

	-- One row per unique (site, token); frequency is the number of
	-- distinct pages of the site containing the token.
	CREATE TABLE IF NOT EXISTS lemma (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site_id INTEGER NOT NULL REFERENCES site(id),
		lemma TEXT NOT NULL,
		frequency INTEGER NOT NULL,
		UNIQUE(site_id, lemma)
	);

	CREATE INDEX IF NOT EXISTS idx_lemma_site ON lemma(site_id);

	-- Page-lemma edges; rank_value is the in-page occurrence count.
	CREATE TABLE IF NOT EXISTS posting (
		page_id INTEGER NOT NULL REFERENCES page(id),
		lemma_id INTEGER NOT NULL REFERENCES lemma(id),
		rank_value REAL NOT NULL,
		PRIMARY KEY(page_id, lemma_id)
	);

	CREATE INDEX IF NOT EXISTS idx_posting_lemma ON posting(lemma_id);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// timestampFormats contains the timestamp formats SQLite may return.
// The order matters: more specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending
// on configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// formatTimestamp renders a time in the SQLite default datetime format.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
