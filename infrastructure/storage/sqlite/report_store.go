package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/felixgeelhaar/iclean/domain/simulation"
)

// ReportStore is a SQLite-backed implementation of simulation.Store.
type ReportStore struct {
	db *sql.DB
}

// NewReportStore creates a new SQLite report store with the given configuration.
func NewReportStore(cfg Config, opts ...Option) (*ReportStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &ReportStore{db: db}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewReportStoreFromDB creates a report store from an existing database connection.
func NewReportStoreFromDB(db *sql.DB) (*ReportStore, error) {
	s := &ReportStore{db: db}

	if err := s.migrate(); err != nil {
		return nil, err
	}

	return s, nil
}

// migrate creates the reports table if it doesn't exist.
func (s *ReportStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			rooms INTEGER NOT NULL,
			steps_executed INTEGER NOT NULL,
			rooms_cleaned INTEGER NOT NULL,
			remaining_energy REAL NOT NULL,
			final_state TEXT NOT NULL,
			stop_reasons TEXT NOT NULL,
			data BLOB NOT NULL,
			started_at INTEGER NOT NULL,
			ended_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_reports_started_at ON reports(started_at);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	return nil
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

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, rooms, steps_executed, rooms_cleaned, remaining_energy, final_state, stop_reasons, data, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Rooms, r.StepsExecuted, r.RoomsCleaned, r.RemainingEnergy,
		string(r.FinalState), encodeStopReasons(r.StopReasons), data,
		r.StartedAt.UnixNano(), r.EndedAt.UnixNano(),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return simulation.ErrReportExists
		}
		return err
	}

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

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM reports WHERE id = ?",
		id,
	).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, simulation.ErrReportNotFound
	}
	if err != nil {
		return nil, err
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

	result, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return simulation.ErrReportNotFound
	}

	return nil
}

// List returns reports matching the filter, most recent first.
func (s *ReportStore) List(ctx context.Context, filter simulation.ListFilter) ([]*simulation.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query, args := buildListQuery(filter, false)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	reports := []*simulation.Report{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		var r simulation.Report
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}

		reports = append(reports, &r)
	}

	return reports, rows.Err()
}

// Count returns the number of reports matching the filter.
func (s *ReportStore) Count(ctx context.Context, filter simulation.ListFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	query, args := buildListQuery(filter, true)

	var count int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// buildListQuery builds the SQL query for listing or counting reports.
func buildListQuery(filter simulation.ListFilter, countOnly bool) (string, []any) {
	var query string
	if countOnly {
		query = "SELECT COUNT(*) FROM reports"
	} else {
		query = "SELECT data FROM reports"
	}

	var args []any
	if filter.StopReason != "" {
		// stop_reasons is stored as ",a,b," so a LIKE matches whole values.
		query += " WHERE stop_reasons LIKE ?"
		args = append(args, "%,"+string(filter.StopReason)+",%")
	}

	if countOnly {
		return query, args
	}

	query += " ORDER BY started_at DESC, id ASC"

	// SQLite needs a LIMIT to accept an OFFSET; -1 means unbounded.
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := -1
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, filter.Offset)
	}

	return query, args
}

func encodeStopReasons(reasons []simulation.StopReason) string {
	if len(reasons) == 0 {
		return ""
	}
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = string(r)
	}
	return "," + strings.Join(parts, ",") + ","
}

// Close closes the database connection.
func (s *ReportStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *ReportStore) DB() *sql.DB {
	return s.db
}

// isUniqueViolation checks if the error is a primary key or unique constraint violation.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

var _ simulation.Store = (*ReportStore)(nil)
