package badger

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/felixgeelhaar/iclean/domain/simulation"
)

// ReportStore is a BadgerDB-backed implementation of simulation.Store.
type ReportStore struct {
	db        *badger.DB
	keyPrefix string
	ownsDB    bool
	gcStop    chan struct{}
	gcWg      sync.WaitGroup
	closeOnce sync.Once
}

// NewReportStore creates a new BadgerDB report store with the given configuration.
func NewReportStore(cfg Config, opts ...Option) (*ReportStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &ReportStore{
		db:        db,
		keyPrefix: cfg.KeyPrefix,
		ownsDB:    true,
		gcStop:    make(chan struct{}),
	}

	// Value log GC is not supported for in-memory databases.
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.startGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}

	return s, nil
}

// NewReportStoreFromDB creates a report store from an existing BadgerDB
// database. Close does not close db.
func NewReportStoreFromDB(db *badger.DB, keyPrefix string) *ReportStore {
	return &ReportStore{
		db:        db,
		keyPrefix: keyPrefix,
		gcStop:    make(chan struct{}),
	}
}

// startGC starts the garbage collection goroutine.
func (s *ReportStore) startGC(interval time.Duration, discardRatio float64) {
	s.gcWg.Add(1)
	go func() {
		defer s.gcWg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.gcStop:
				return
			case <-ticker.C:
				for {
					if err := s.db.RunValueLogGC(discardRatio); err != nil {
						break
					}
				}
			}
		}
	}()
}

// Key format: prefix:reports:id
func (s *ReportStore) reportKey(id string) []byte {
	return []byte(s.keyPrefix + "reports:" + id)
}

func (s *ReportStore) reportPrefix() []byte {
	return []byte(s.keyPrefix + "reports:")
}

// Save persists a new report.
func (s *ReportStore) Save(ctx context.Context, r *simulation.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := r.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	key := s.reportKey(r.ID)
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return simulation.ErrReportExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
	if errors.Is(err, badger.ErrConflict) {
		return simulation.ErrReportExists
	}
	return err
}

// Get retrieves a report by ID.
func (s *ReportStore) Get(ctx context.Context, id string) (*simulation.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, simulation.ErrInvalidReportID
	}

	var r simulation.Report
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.reportKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, simulation.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// Delete removes a report by ID.
func (s *ReportStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if id == "" {
		return simulation.ErrInvalidReportID
	}

	key := s.reportKey(id)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return simulation.ErrReportNotFound
	}
	return err
}

// List returns reports matching the filter, most recent first.
func (s *ReportStore) List(ctx context.Context, filter simulation.ListFilter) ([]*simulation.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reports, err := s.scan(filter)
	if err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].StartedAt.Equal(reports[j].StartedAt) {
			return reports[i].StartedAt.After(reports[j].StartedAt)
		}
		return reports[i].ID < reports[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(reports) {
			return []*simulation.Report{}, nil
		}
		reports = reports[filter.Offset:]
	}

	if filter.Limit > 0 && len(reports) > filter.Limit {
		reports = reports[:filter.Limit]
	}

	return reports, nil
}

// Count returns the number of reports matching the filter.
func (s *ReportStore) Count(ctx context.Context, filter simulation.ListFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	reports, err := s.scan(filter)
	if err != nil {
		return 0, err
	}
	return int64(len(reports)), nil
}

// scan iterates every stored report and keeps those matching filter.
func (s *ReportStore) scan(filter simulation.ListFilter) ([]*simulation.Report, error) {
	reports := []*simulation.Report{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = s.reportPrefix()

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var r simulation.Report
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				return err
			}

			if filter.Matches(&r) {
				reports = append(reports, &r)
			}
		}

		return nil
	})

	return reports, err
}

// Close stops garbage collection and closes the database if the store opened it.
func (s *ReportStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.gcStop)
		s.gcWg.Wait()
		if s.ownsDB {
			err = s.db.Close()
		}
	})
	return err
}

var _ simulation.Store = (*ReportStore)(nil)
