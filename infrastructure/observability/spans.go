package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for simulation spans.
const TracerName = "github.com/felixgeelhaar/iclean"

// StartSimulationSpan starts the root span of a simulation.
func StartSimulationSpan(ctx context.Context, tracer trace.Tracer, simulationID string, rooms, maxSteps int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "simulation",
		trace.WithAttributes(
			attribute.String("simulation.id", simulationID),
			attribute.Int("simulation.rooms", rooms),
			attribute.Int("simulation.max_steps", maxSteps),
		),
	)
}

// StartStepSpan starts a span for one timestamp of a simulation.
func StartStepSpan(ctx context.Context, tracer trace.Tracer, step int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "step",
		trace.WithAttributes(
			attribute.Int("simulation.step", step),
		),
	)
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
