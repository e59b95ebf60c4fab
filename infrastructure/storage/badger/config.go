// Package badger provides a BadgerDB-backed implementation of simulation.Store.
package badger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/felixgeelhaar/iclean/infrastructure/logging"
)

// Config configures the Badger report store.
type Config struct {
	// Dir is the data directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps every report in memory.
	InMemory bool

	// SyncWrites flushes each Save to disk before returning.
	SyncWrites bool

	// KeyPrefix namespaces the report keys, so several stores can share one database.
	KeyPrefix string

	// GCInterval is how often value log GC runs. Zero disables GC.
	GCInterval time.Duration

	// GCDiscardRatio is the fraction of stale data a value log file must
	// hold before GC rewrites it.
	GCDiscardRatio float64
}

// Option configures the Badger report store.
type Option func(*Config)

// WithDir sets the data directory.
func WithDir(dir string) Option {
	return func(c *Config) {
		c.Dir = dir
	}
}

// WithInMemory keeps the database in memory.
func WithInMemory() Option {
	return func(c *Config) {
		c.InMemory = true
	}
}

// WithSyncWrites makes every write durable before Save returns.
func WithSyncWrites() Option {
	return func(c *Config) {
		c.SyncWrites = true
	}
}

// WithKeyPrefix namespaces report keys.
func WithKeyPrefix(prefix string) Option {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}

// WithGC runs value log GC every interval with the given discard ratio.
func WithGC(interval time.Duration, discardRatio float64) Option {
	return func(c *Config) {
		c.GCInterval = interval
		c.GCDiscardRatio = discardRatio
	}
}

// DefaultConfig returns the configuration used by storage.Open.
func DefaultConfig() Config {
	return Config{
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// ErrConnectionFailed is returned when the database cannot be opened.
var ErrConnectionFailed = errors.New("badger: connection failed")

// openDB opens a BadgerDB database with the given configuration.
func openDB(cfg Config) (*badger.DB, error) {
	opts := badger.DefaultOptions(cfg.Dir).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(logAdapter{})

	if cfg.InMemory {
		opts.Dir, opts.ValueDir = "", ""
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	return db, nil
}

// logAdapter sends Badger's internal log lines to the application logger.
// Badger's info output is routine compaction chatter, so it is logged at debug.
type logAdapter struct{}

func (logAdapter) Errorf(format string, args ...any) {
	logging.Error().Add(logging.Component("badger")).Msg(badgerLine(format, args))
}

func (logAdapter) Warningf(format string, args ...any) {
	logging.Warn().Add(logging.Component("badger")).Msg(badgerLine(format, args))
}

func (logAdapter) Infof(format string, args ...any) {
	logging.Debug().Add(logging.Component("badger")).Msg(badgerLine(format, args))
}

func (logAdapter) Debugf(format string, args ...any) {
	logging.Trace().Add(logging.Component("badger")).Msg(badgerLine(format, args))
}

func badgerLine(format string, args []any) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}

var _ badger.Logger = logAdapter{}
