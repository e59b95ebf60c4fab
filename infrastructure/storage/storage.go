// Package storage opens the configured simulation.Store backend.
package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/iclean/domain/config"
	"github.com/felixgeelhaar/iclean/domain/simulation"
	"github.com/felixgeelhaar/iclean/infrastructure/resilience"
	"github.com/felixgeelhaar/iclean/infrastructure/storage/badger"
	"github.com/felixgeelhaar/iclean/infrastructure/storage/memory"
	"github.com/felixgeelhaar/iclean/infrastructure/storage/sqlite"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// ErrUnknownBackend is returned for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is an opened report store together with its cleanup.
type Store struct {
	simulation.Store
	close func() error
}

// Close releases the backend's resources.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open opens the backend named by cfg.Storage and wraps it with retries
// configured by cfg.Persistence.
func Open(cfg *config.SimulationConfig) (*Store, error) {
	var (
		backend simulation.Store
		closeFn func() error
	)

	switch cfg.Storage.Backend {
	case BackendMemory, "":
		backend = memory.NewReportStore()

	case BackendSQLite:
		s, err := sqlite.NewReportStore(sqliteConfig(cfg.Storage))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", simulation.ErrConnectionFailed, err)
		}
		backend, closeFn = s, s.Close

	case BackendBadger:
		s, err := badger.NewReportStore(badgerConfig(cfg.Storage))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", simulation.ErrConnectionFailed, err)
		}
		backend, closeFn = s, s.Close

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Storage.Backend)
	}

	rcfg := resilience.DefaultConfig()
	rcfg.MaxAttempts = cfg.Persistence.MaxAttempts
	rcfg.InitialDelay = time.Duration(cfg.Persistence.InitialDelay)
	rcfg.Multiplier = cfg.Persistence.Multiplier

	return &Store{
		Store: resilience.NewStore(backend, rcfg),
		close: closeFn,
	}, nil
}

// sqliteConfig overlays the configured settings on the sqlite defaults.
func sqliteConfig(sc config.StorageConfig) sqlite.Config {
	cfg := sqlite.DefaultConfig()
	if sc.DSN != "" {
		cfg.DSN = sc.DSN
	}
	if sc.SQLite.JournalMode != "" {
		cfg.JournalMode = strings.ToUpper(sc.SQLite.JournalMode)
	}
	if sc.SQLite.BusyTimeout > 0 {
		cfg.BusyTimeout = time.Duration(sc.SQLite.BusyTimeout)
	}
	if sc.SQLite.MaxOpenConns > 0 {
		cfg.MaxOpenConns = sc.SQLite.MaxOpenConns
	}
	return cfg
}

// badgerConfig overlays the configured settings on the badger defaults.
func badgerConfig(sc config.StorageConfig) badger.Config {
	cfg := badger.DefaultConfig()
	cfg.Dir = sc.Dir
	cfg.SyncWrites = sc.Badger.SyncWrites
	cfg.KeyPrefix = sc.Badger.KeyPrefix
	if sc.Badger.GCInterval > 0 {
		cfg.GCInterval = time.Duration(sc.Badger.GCInterval)
	}
	if sc.Badger.GCDiscardRatio > 0 {
		cfg.GCDiscardRatio = sc.Badger.GCDiscardRatio
	}
	return cfg
}
