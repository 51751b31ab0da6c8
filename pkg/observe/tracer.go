package observe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer records each event as a finished OpenTelemetry span.
func Tracer(tracer trace.Tracer) Observer {
	return Func(func(ctx context.Context, e Event) {
		_, span := tracer.Start(ctx, "Agent.Transition",
			trace.WithTimestamp(e.Timestamp),
			trace.WithAttributes(
				attribute.String("agent.name", e.Agent),
				attribute.String("agent.event", string(e.Type)),
				attribute.String("agent.event_id", e.ID),
				attribute.String("agent.input", fmt.Sprintf("%v", e.Input)),
			),
		)
		if e.Err != nil {
			span.RecordError(e.Err)
			span.SetStatus(codes.Error, e.Err.Error())
		} else {
			span.SetAttributes(attribute.String("agent.output", fmt.Sprintf("%v", e.Output)))
		}
		span.End(trace.WithTimestamp(e.Timestamp.Add(e.Duration)))
	})
}
