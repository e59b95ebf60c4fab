// Package resilience provides resilient persistence using fortify.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/iclean/domain/simulation"
)

// Store wraps a simulation.Store with circuit breaker, retry, and timeout
// patterns. Errors that describe the request rather than the backend are
// never retried and do not count against the breaker.
type Store struct {
	next    simulation.Store
	breaker circuitbreaker.CircuitBreaker[struct{}]
	retry   retry.Retry[struct{}]
	timeout time.Duration
}

// Config configures the resilient store.
type Config struct {
	// MaxAttempts is the maximum number of attempts per operation.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	Multiplier float64

	// CircuitBreakerThreshold is the number of consecutive failures before opening.
	CircuitBreakerThreshold int

	// CircuitBreakerTimeout is how long the circuit stays open.
	CircuitBreakerTimeout time.Duration

	// Timeout bounds each operation including its retries.
	Timeout time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:             3,
		InitialDelay:            100 * time.Millisecond,
		Multiplier:              2.0,
		CircuitBreakerThreshold: 5,
		CircuitBreakerTimeout:   30 * time.Second,
		Timeout:                 10 * time.Second,
	}
}

// nonRetryable are store errors that a retry cannot fix.
var nonRetryable = []error{
	simulation.ErrReportExists,
	simulation.ErrReportNotFound,
	simulation.ErrInvalidReportID,
	context.Canceled,
	context.DeadlineExceeded,
}

func isNonRetryable(err error) bool {
	for _, target := range nonRetryable {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// NewStore wraps next with the given configuration.
func NewStore(next simulation.Store, config Config) *Store {
	defaults := DefaultConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = defaults.InitialDelay
	}
	if config.Multiplier < 1 {
		config.Multiplier = defaults.Multiplier
	}
	if config.CircuitBreakerThreshold <= 0 {
		config.CircuitBreakerThreshold = defaults.CircuitBreakerThreshold
	}
	if config.CircuitBreakerTimeout <= 0 {
		config.CircuitBreakerTimeout = defaults.CircuitBreakerTimeout
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	threshold := config.CircuitBreakerThreshold

	return &Store{
		next: next,
		breaker: circuitbreaker.New[struct{}](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    config.CircuitBreakerTimeout,
			Timeout:     config.CircuitBreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold) // #nosec G115 -- threshold is validated
			},
		}),
		retry: retry.New[struct{}](retry.Config{
			MaxAttempts:        config.MaxAttempts,
			InitialDelay:       config.InitialDelay,
			BackoffPolicy:      retry.BackoffExponential,
			Multiplier:         config.Multiplier,
			NonRetryableErrors: nonRetryable,
		}),
		timeout: config.Timeout,
	}
}

// execute runs fn behind the breaker and the retrier. Request errors are
// smuggled past the breaker so they are reported as-is without tripping it.
func (s *Store) execute(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var requestErr error
	_, err := s.breaker.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		return s.retry.Do(ctx, func(ctx context.Context) (struct{}, error) {
			err := fn(ctx)
			if err != nil && isNonRetryable(err) {
				requestErr = err
				return struct{}{}, nil
			}
			return struct{}{}, err
		})
	})
	if requestErr != nil {
		return requestErr
	}
	return err
}

// Save persists a new report.
func (s *Store) Save(ctx context.Context, report *simulation.Report) error {
	return s.execute(ctx, func(ctx context.Context) error {
		return s.next.Save(ctx, report)
	})
}

// Get retrieves a report by ID.
func (s *Store) Get(ctx context.Context, id string) (*simulation.Report, error) {
	var report *simulation.Report
	err := s.execute(ctx, func(ctx context.Context) error {
		r, err := s.next.Get(ctx, id)
		if err != nil {
			return err
		}
		report = r
		return nil
	})
	return report, err
}

// Delete removes a report by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.execute(ctx, func(ctx context.Context) error {
		return s.next.Delete(ctx, id)
	})
}

// List returns reports matching the filter, most recent first.
func (s *Store) List(ctx context.Context, filter simulation.ListFilter) ([]*simulation.Report, error) {
	var reports []*simulation.Report
	err := s.execute(ctx, func(ctx context.Context) error {
		r, err := s.next.List(ctx, filter)
		if err != nil {
			return err
		}
		reports = r
		return nil
	})
	return reports, err
}

// Count returns the number of reports matching the filter.
func (s *Store) Count(ctx context.Context, filter simulation.ListFilter) (int64, error) {
	var n int64
	err := s.execute(ctx, func(ctx context.Context) error {
		c, err := s.next.Count(ctx, filter)
		if err != nil {
			return err
		}
		n = c
		return nil
	})
	return n, err
}

// CircuitBreakerState returns the current state of the circuit breaker.
func (s *Store) CircuitBreakerState() circuitbreaker.State {
	return s.breaker.State()
}

var _ simulation.Store = (*Store)(nil)
