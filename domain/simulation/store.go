package simulation

import "context"

// Store defines the interface for report persistence.
// Implementations may be in-memory, SQLite, Badger, or any other backend.
type Store interface {
	// Save persists a new report.
	Save(ctx context.Context, report *Report) error

	// Get retrieves a report by ID.
	Get(ctx context.Context, id string) (*Report, error)

	// Delete removes a report by ID.
	Delete(ctx context.Context, id string) error

	// List returns reports matching the filter, most recent first.
	List(ctx context.Context, filter ListFilter) ([]*Report, error)

	// Count returns the number of reports matching the filter.
	Count(ctx context.Context, filter ListFilter) (int64, error)
}

// ListFilter specifies criteria for listing reports.
type ListFilter struct {
	// StopReason keeps only reports that stopped for this reason (empty means all).
	StopReason StopReason

	// Limit is the maximum number of reports to return (0 = no limit).
	Limit int

	// Offset is the number of reports to skip for pagination.
	Offset int
}

// Matches reports whether r passes the filter's predicates. Pagination is
// not considered.
func (f ListFilter) Matches(r *Report) bool {
	if f.StopReason != "" && !r.HasStopReason(f.StopReason) {
		return false
	}
	return true
}
