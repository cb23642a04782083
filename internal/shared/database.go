package shared

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const memoryPath = ":memory:"

// NewDatabase opens a connection to a SQLite database at the specified path with default settings.
// The path can be ":memory:" for an in-memory database.
func NewDatabase(path string) (*sqlx.DB, error) {
	return OpenDatabase(DatabaseConfig{Path: path})
}

// OpenDatabase opens the SQLite database described by cfg.
//
// Every transaction begins with BEGIN IMMEDIATE, so a writer holds the database lock from its first read
// until commit and overlapping reconciliations run one after another. Waiters block for the configured
// busy timeout before failing.
//
// An in-memory database lives on a single connection; it is pinned to one open connection so every
// caller sees the same data.
func OpenDatabase(cfg DatabaseConfig) (*sqlx.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: database path is empty", ErrInvalidConfig)
	}

	db, err := sqlx.Open("sqlite3", DSN(cfg.Path, cfg.BusyTimeout()))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if isMemory(cfg.Path) {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else {
		ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// DSN builds the go-sqlite3 connection string for path.
func DSN(path string, busyTimeout time.Duration) string {
	params := url.Values{}
	params.Set("_txlock", "immediate")
	params.Set("_busy_timeout", strconv.FormatInt(busyTimeout.Milliseconds(), 10))
	params.Set("_foreign_keys", "on")
	if !isMemory(path) {
		params.Set("_journal_mode", "WAL")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params.Encode()
}

// ConfigureDatabase sets connection pool settings for the database.
// Zero values leave the driver defaults in place.
func ConfigureDatabase(db *sqlx.DB, maxOpenConns, maxIdleConns int) {
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
}

func isMemory(path string) bool {
	return path == memoryPath || strings.Contains(path, "mode=memory")
}
