// Package memory provides an in-memory implementation of simulation.Store.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/felixgeelhaar/iclean/domain/simulation"
)

// ReportStore is an in-memory implementation of simulation.Store. Reports are
// kept serialized so callers never share memory with the store.
type ReportStore struct {
	reports map[string][]byte
	mu      sync.RWMutex
}

// NewReportStore creates a new in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[string][]byte),
	}
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

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[r.ID]; exists {
		return simulation.ErrReportExists
	}

	s.reports[r.ID] = data
	return nil
}

// Get retrieves a report by ID.
func (s *ReportStore) Get(ctx context.Context, id string) (*simulation.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, simulation.ErrInvalidReportID
	}

	s.mu.RLock()
	data, ok := s.reports[id]
	s.mu.RUnlock()

	if !ok {
		return nil, simulation.ErrReportNotFound
	}

	var r simulation.Report
	if err := json.Unmarshal(data, &r); err != nil {
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

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[id]; !exists {
		return simulation.ErrReportNotFound
	}

	delete(s.reports, id)
	return nil
}

// List returns reports matching the filter, most recent first.
func (s *ReportStore) List(ctx context.Context, filter simulation.ListFilter) ([]*simulation.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched, err := s.matching(filter)
	if err != nil {
		return nil, err
	}

	sortRecentFirst(matched)

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*simulation.Report{}, nil
		}
		matched = matched[filter.Offset:]
	}

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched, nil
}

// Count returns the number of reports matching the filter.
func (s *ReportStore) Count(ctx context.Context, filter simulation.ListFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	matched, err := s.matching(filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (s *ReportStore) matching(filter simulation.ListFilter) ([]*simulation.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*simulation.Report, 0, len(s.reports))
	for _, data := range s.reports {
		var r simulation.Report
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		if filter.Matches(&r) {
			result = append(result, &r)
		}
	}
	return result, nil
}

// sortRecentFirst orders reports by start time, newest first, then by ID.
func sortRecentFirst(reports []*simulation.Report) {
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].StartedAt.Equal(reports[j].StartedAt) {
			return reports[i].StartedAt.After(reports[j].StartedAt)
		}
		return reports[i].ID < reports[j].ID
	})
}

// Clear removes all reports from the store.
func (s *ReportStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = make(map[string][]byte)
}

// Len returns the number of stored reports.
func (s *ReportStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

var _ simulation.Store = (*ReportStore)(nil)
