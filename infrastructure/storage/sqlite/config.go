// Package sqlite provides a SQLite-backed implementation of simulation.Store.
package sqlite

import (
	"database/sql"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Config configures the SQLite report store.
type Config struct {
	// DSN is the data source name (e.g., "file:reports.db?mode=rwc").
	DSN string

	// JournalMode is applied to every connection (e.g., "WAL").
	JournalMode string

	// BusyTimeout is how long a connection waits on a locked database.
	BusyTimeout time.Duration

	// MaxOpenConns caps the connection pool. Zero means no limit.
	MaxOpenConns int

	// AutoMigrate creates the reports table if it doesn't exist.
	AutoMigrate bool
}

// Option configures the SQLite report store.
type Option func(*Config)

// WithDSN sets the data source name.
func WithDSN(dsn string) Option {
	return func(c *Config) {
		c.DSN = dsn
	}
}

// WithJournalMode sets the journal mode.
func WithJournalMode(mode string) Option {
	return func(c *Config) {
		c.JournalMode = mode
	}
}

// WithBusyTimeout sets how long to wait on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.BusyTimeout = d
	}
}

// WithMaxOpenConns caps the connection pool.
func WithMaxOpenConns(n int) Option {
	return func(c *Config) {
		c.MaxOpenConns = n
	}
}

// DefaultConfig returns the configuration used by storage.Open.
func DefaultConfig() Config {
	return Config{
		DSN:         "file:iclean.db?mode=rwc",
		JournalMode: "WAL",
		BusyTimeout: 5 * time.Second,
		AutoMigrate: true,
	}
}

// Errors
var (
	ErrConnectionFailed = errors.New("sqlite: connection failed")
	ErrMigrationFailed  = errors.New("sqlite: migration failed")
)

// dataSourceName adds the journal mode and busy timeout to the DSN as
// go-sqlite3 connection parameters, so every pooled connection gets them.
// Parameters already present in the DSN win.
func (c Config) dataSourceName() (string, error) {
	base, rawQuery, _ := strings.Cut(c.DSN, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", err
	}

	if c.JournalMode != "" && query.Get("_journal_mode") == "" && query.Get("_journal") == "" {
		query.Set("_journal_mode", c.JournalMode)
	}
	if c.BusyTimeout > 0 && query.Get("_busy_timeout") == "" && query.Get("_timeout") == "" {
		query.Set("_busy_timeout", strconv.FormatInt(c.BusyTimeout.Milliseconds(), 10))
	}

	if len(query) == 0 {
		return base, nil
	}
	return base + "?" + query.Encode(), nil
}

// openDB opens a SQLite database with the given configuration.
func openDB(cfg Config) (*sql.DB, error) {
	dsn, err := cfg.dataSourceName()
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	return db, nil
}
