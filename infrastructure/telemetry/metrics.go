// Package telemetry provides OpenTelemetry metrics for the cleaning agent and
// the simulator.
package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/felixgeelhaar/iclean/domain/agent"
	"github.com/felixgeelhaar/iclean/domain/environment"
)

// Recorder defines the interface for metrics recording.
type Recorder interface {
	RecordAction(ctx context.Context, action agent.Action)
	RecordEnergyConsumed(ctx context.Context, amount, remaining float64)
	RecordRoomCleaned(ctx context.Context, level environment.DirtinessLevel)
	RecordShutdown(ctx context.Context, reason string)
	RecordRedirtied(ctx context.Context, rooms int)
	RecordSimulation(ctx context.Context, steps int, duration time.Duration, stopReasons []string)
	RecordError(ctx context.Context, stage string)
}

// MetricsProvider records metrics through OpenTelemetry instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	actions        metric.Int64Counter
	energyConsumed metric.Float64Counter
	roomsCleaned   metric.Int64Counter
	shutdowns      metric.Int64Counter
	redirtied      metric.Int64Counter
	errors         metric.Int64Counter

	// Gauges
	energyRemaining metric.Float64Gauge

	// Histograms
	steps    metric.Int64Histogram
	duration metric.Float64Histogram

	initErr error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter (default: "github.com/felixgeelhaar/iclean").
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
	// MeterProvider overrides the global provider.
	MeterProvider metric.MeterProvider
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/iclean",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider. Instrument creation
// errors are reported by Error.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config.MeterName = DefaultMetricsConfig().MeterName
	}

	provider := config.MeterProvider
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	mp := &MetricsProvider{
		meter: provider.Meter(
			config.MeterName,
			metric.WithInstrumentationVersion(config.MeterVersion),
		),
	}
	mp.initErr = mp.initInstruments()
	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err, e error

	mp.actions, e = mp.meter.Int64Counter(
		"iclean.agent.actions",
		metric.WithDescription("Number of actions the agent completed"),
		metric.WithUnit("{action}"),
	)
	err = errors.Join(err, e)

	mp.energyConsumed, e = mp.meter.Float64Counter(
		"iclean.agent.energy.consumed",
		metric.WithDescription("Energy spent by the agent"),
		metric.WithUnit("{energy}"),
	)
	err = errors.Join(err, e)

	mp.energyRemaining, e = mp.meter.Float64Gauge(
		"iclean.agent.energy.remaining",
		metric.WithDescription("Energy left after the last debit"),
		metric.WithUnit("{energy}"),
	)
	err = errors.Join(err, e)

	mp.roomsCleaned, e = mp.meter.Int64Counter(
		"iclean.agent.rooms.cleaned",
		metric.WithDescription("Number of rooms cleaned"),
		metric.WithUnit("{room}"),
	)
	err = errors.Join(err, e)

	mp.shutdowns, e = mp.meter.Int64Counter(
		"iclean.agent.shutdowns",
		metric.WithDescription("Number of times an agent turned off"),
		metric.WithUnit("{shutdown}"),
	)
	err = errors.Join(err, e)

	mp.redirtied, e = mp.meter.Int64Counter(
		"iclean.environment.redirtied",
		metric.WithDescription("Number of rooms that got dirty again"),
		metric.WithUnit("{room}"),
	)
	err = errors.Join(err, e)

	mp.errors, e = mp.meter.Int64Counter(
		"iclean.errors",
		metric.WithDescription("Number of fatal simulation errors"),
		metric.WithUnit("{error}"),
	)
	err = errors.Join(err, e)

	mp.steps, e = mp.meter.Int64Histogram(
		"iclean.simulation.steps",
		metric.WithDescription("Timestamps executed per simulation"),
		metric.WithUnit("{step}"),
	)
	err = errors.Join(err, e)

	mp.duration, e = mp.meter.Float64Histogram(
		"iclean.simulation.duration",
		metric.WithDescription("Duration of simulations"),
		metric.WithUnit("ms"),
	)
	err = errors.Join(err, e)

	return err
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordAction records a completed action.
func (mp *MetricsProvider) RecordAction(ctx context.Context, action agent.Action) {
	mp.actions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", string(action)),
	))
}

// RecordEnergyConsumed records an energy debit and the level it left.
func (mp *MetricsProvider) RecordEnergyConsumed(ctx context.Context, amount, remaining float64) {
	mp.energyConsumed.Add(ctx, amount)
	mp.energyRemaining.Record(ctx, remaining)
}

// RecordRoomCleaned records a cleaned room.
func (mp *MetricsProvider) RecordRoomCleaned(ctx context.Context, level environment.DirtinessLevel) {
	mp.roomsCleaned.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dirtiness", level.String()),
	))
}

// RecordShutdown records the agent turning off.
func (mp *MetricsProvider) RecordShutdown(ctx context.Context, reason string) {
	mp.shutdowns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordRedirtied records rooms dirtied by the environment.
func (mp *MetricsProvider) RecordRedirtied(ctx context.Context, rooms int) {
	if rooms == 0 {
		return
	}
	mp.redirtied.Add(ctx, int64(rooms))
}

// RecordSimulation records a finished simulation.
func (mp *MetricsProvider) RecordSimulation(ctx context.Context, steps int, duration time.Duration, stopReasons []string) {
	attrs := metric.WithAttributes(
		attribute.StringSlice("stop_reasons", stopReasons),
	)
	mp.steps.Record(ctx, int64(steps), attrs)
	mp.duration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordError records a fatal error at the given stage.
func (mp *MetricsProvider) RecordError(ctx context.Context, stage string) {
	mp.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
	))
}

// NoopRecorder is a no-op recorder for tests or when metrics are disabled.
type NoopRecorder struct{}

// RecordAction is a no-op.
func (NoopRecorder) RecordAction(context.Context, agent.Action) {}

// RecordEnergyConsumed is a no-op.
func (NoopRecorder) RecordEnergyConsumed(context.Context, float64, float64) {}

// RecordRoomCleaned is a no-op.
func (NoopRecorder) RecordRoomCleaned(context.Context, environment.DirtinessLevel) {}

// RecordShutdown is a no-op.
func (NoopRecorder) RecordShutdown(context.Context, string) {}

// RecordRedirtied is a no-op.
func (NoopRecorder) RecordRedirtied(context.Context, int) {}

// RecordSimulation is a no-op.
func (NoopRecorder) RecordSimulation(context.Context, int, time.Duration, []string) {}

// RecordError is a no-op.
func (NoopRecorder) RecordError(context.Context, string) {}

// Ensure implementations satisfy the interface.
var (
	_ Recorder = (*MetricsProvider)(nil)
	_ Recorder = NoopRecorder{}
)
