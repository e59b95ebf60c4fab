package badger_test

import (
	"context"
	"testing"
	"time"

	dgbadger "github.com/dgraph-io/badger/v4"

	"github.com/felixgeelhaar/iclean/domain/simulation"
	"github.com/felixgeelhaar/iclean/infrastructure/storage/badger"
	"github.com/felixgeelhaar/iclean/infrastructure/storage/storetest"
)

func newTestReportStore(t *testing.T) *badger.ReportStore {
	t.Helper()

	store, err := badger.NewReportStore(badger.Config{InMemory: true})
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
	cfg := badger.DefaultConfig()

	if cfg.InMemory {
		t.Error("InMemory should be disabled by default")
	}
	if cfg.SyncWrites {
		t.Error("SyncWrites should be disabled by default")
	}
	if cfg.GCInterval != 5*time.Minute || cfg.GCDiscardRatio != 0.5 {
		t.Errorf("GC = %v/%v, want 5m/0.5", cfg.GCInterval, cfg.GCDiscardRatio)
	}
}

func TestNewReportStore_Options(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := badger.NewReportStore(badger.DefaultConfig(),
		badger.WithDir(dir),
		badger.WithSyncWrites(),
		badger.WithKeyPrefix("lab:"),
		badger.WithGC(time.Hour, 0.7),
	)
	if err != nil {
		t.Fatalf("NewReportStore failed: %v", err)
	}
	if err := store.Save(ctx, storetest.NewReport("sim-1", time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db, err := dgbadger.Open(dgbadger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	err = db.View(func(txn *dgbadger.Txn) error {
		_, err := txn.Get([]byte("lab:reports:sim-1"))
		return err
	})
	if err != nil {
		t.Errorf("report not stored under the key prefix: %v", err)
	}
}

func TestNewReportStore_InMemoryIgnoresDir(t *testing.T) {
	store, err := badger.NewReportStore(badger.DefaultConfig(), badger.WithDir(t.TempDir()), badger.WithInMemory())
	if err != nil {
		t.Fatalf("NewReportStore failed: %v", err)
	}
	defer store.Close()

	if err := store.Save(context.Background(), storetest.NewReport("sim-1", time.Now())); err != nil {
		t.Errorf("Save failed: %v", err)
	}
}

func TestReportStore_PersistsOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := badger.NewReportStore(badger.DefaultConfig(), badger.WithDir(dir))
	if err != nil {
		t.Fatalf("NewReportStore failed: %v", err)
	}
	if err := store.Save(ctx, storetest.NewReport("sim-1", time.Now(), simulation.StopMaxSteps)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := badger.NewReportStore(badger.DefaultConfig(), badger.WithDir(dir))
	if err != nil {
		t.Fatalf("NewReportStore failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "sim-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.HasStopReason(simulation.StopMaxSteps) {
		t.Errorf("StopReasons = %v, want max_steps", got.StopReasons)
	}
}

func TestReportStore_KeyPrefixIsolates(t *testing.T) {
	ctx := context.Background()

	db, err := dgbadger.Open(dgbadger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	a := badger.NewReportStoreFromDB(db, "a:")
	b := badger.NewReportStoreFromDB(db, "b:")

	if err := a.Save(ctx, storetest.NewReport("sim-1", time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	n, err := b.Count(ctx, simulation.ListFilter{})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count under other prefix = %d, want 0", n)
	}
	if err := b.Save(ctx, storetest.NewReport("sim-1", time.Now())); err != nil {
		t.Errorf("Save under other prefix failed: %v", err)
	}

	// Closing a store built on a shared DB leaves the DB open.
	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := b.Get(ctx, "sim-1"); err != nil {
		t.Errorf("Get after sibling Close failed: %v", err)
	}
}

func TestReportStore_CloseIsIdempotent(t *testing.T) {
	store, err := badger.NewReportStore(badger.Config{InMemory: true})
	if err != nil {
		t.Fatalf("NewReportStore failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
