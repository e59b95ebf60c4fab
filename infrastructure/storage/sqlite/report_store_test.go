package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/iclean/domain/simulation"
	"github.com/felixgeelhaar/iclean/infrastructure/storage/sqlite"
	"github.com/felixgeelhaar/iclean/infrastructure/storage/storetest"
)

func newTestReportStore(t *testing.T) *sqlite.ReportStore {
	t.Helper()

	cfg := sqlite.DefaultConfig()
	cfg.DSN = "file:" + filepath.Join(t.TempDir(), "test.db") + "?mode=rwc"

	store, err := sqlite.NewReportStore(cfg)
	if err != nil {
		t.Fatalf("NewReportStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestReportStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) simulation.Store {
		return newTestReportStore(t)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := sqlite.DefaultConfig()

	if !cfg.AutoMigrate {
		t.Error("AutoMigrate should be enabled by default")
	}
	if cfg.JournalMode != "WAL" {
		t.Errorf("JournalMode = %q, want WAL", cfg.JournalMode)
	}
	if cfg.BusyTimeout != 5*time.Second {
		t.Errorf("BusyTimeout = %v, want 5s", cfg.BusyTimeout)
	}
}

func TestNewReportStore_AppliesConnectionSettings(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "tuned.db") + "?mode=rwc"

	store, err := sqlite.NewReportStore(sqlite.DefaultConfig(),
		sqlite.WithDSN(dsn),
		sqlite.WithJournalMode("WAL"),
		sqlite.WithBusyTimeout(2500*time.Millisecond),
		sqlite.WithMaxOpenConns(2),
	)
	if err != nil {
		t.Fatalf("NewReportStore failed: %v", err)
	}
	defer store.Close()

	db := store.DB()
	if got := db.Stats().MaxOpenConnections; got != 2 {
		t.Errorf("MaxOpenConnections = %d, want 2", got)
	}

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode query failed: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int
	if err := db.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout query failed: %v", err)
	}
	if timeout != 2500 {
		t.Errorf("busy_timeout = %d, want 2500", timeout)
	}
}

func TestReportStore_PersistsAcrossReopen(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "reopen.db") + "?mode=rwc"
	ctx := context.Background()

	store, err := sqlite.NewReportStore(sqlite.DefaultConfig(), sqlite.WithDSN(dsn))
	if err != nil {
		t.Fatalf("NewReportStore failed: %v", err)
	}
	if err := store.Save(ctx, storetest.NewReport("sim-1", time.Now(), simulation.StopAgentOff)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := sqlite.NewReportStore(sqlite.DefaultConfig(), sqlite.WithDSN(dsn))
	if err != nil {
		t.Fatalf("NewReportStore failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "sim-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.HasStopReason(simulation.StopAgentOff) {
		t.Errorf("StopReasons = %v, want agent_off", got.StopReasons)
	}
}

func TestNewReportStoreFromDB(t *testing.T) {
	store := newTestReportStore(t)

	again, err := sqlite.NewReportStoreFromDB(store.DB())
	if err != nil {
		t.Fatalf("NewReportStoreFromDB failed: %v", err)
	}

	n, err := again.Count(context.Background(), simulation.ListFilter{})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}
