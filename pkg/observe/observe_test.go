package observe_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/weave/pkg/observe"
	"github.com/aretw0/weave/pkg/poly"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func events() []observe.Event {
	now := time.Now()
	violation := &poly.DirectionViolation{Agent: "halve", Input: 3}
	return []observe.Event{
		{ID: "1", Timestamp: now, Type: observe.EventTransition, Agent: "halve", Input: 4, Output: 2, Duration: time.Millisecond},
		{ID: "2", Timestamp: now, Type: observe.Classify(violation), Agent: "halve", Input: 3, Err: violation},
		{ID: "3", Timestamp: now, Type: observe.Classify(errors.New("boom")), Agent: "fetch", Input: "x", Err: errors.New("boom")},
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, observe.EventTransition, observe.Classify(nil))
	wrapped := fmt.Errorf("step 2: %w", &poly.DirectionViolation{Agent: "a"})
	assert.Equal(t, observe.EventViolation, observe.Classify(wrapped))
	assert.Equal(t, observe.EventFailure, observe.Classify(errors.New("boom")))
}

func TestChannel_DropsWhenFull(t *testing.T) {
	ch := observe.NewChannel(1)
	for _, e := range events() {
		ch.Observe(context.Background(), e)
	}
	assert.Equal(t, uint64(2), ch.Dropped())
	assert.Equal(t, "1", (<-ch.Events()).ID)

	ch.Close()
	ch.Close()
	ch.Observe(context.Background(), events()[0])
	assert.Equal(t, uint64(3), ch.Dropped())
}

func TestMulti(t *testing.T) {
	var a, b []string
	obs := observe.Multi(
		observe.Func(func(_ context.Context, e observe.Event) { a = append(a, e.ID) }),
		observe.Func(func(_ context.Context, e observe.Event) { b = append(b, e.ID) }),
		observe.Nop(),
	)
	for _, e := range events() {
		obs.Observe(context.Background(), e)
	}
	assert.Equal(t, []string{"1", "2", "3"}, a)
	assert.Equal(t, a, b)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := observe.Logger(logger)
	for _, e := range events() {
		obs.Observe(context.Background(), e)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "level=DEBUG")
	assert.Contains(t, lines[0], "output=2")
	assert.Contains(t, lines[1], "level=WARN")
	assert.Contains(t, lines[1], `msg="agent violation"`)
	assert.Contains(t, lines[2], `msg="agent failure"`)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observe.NewMetrics(reg, "weave")
	require.NoError(t, err)
	for _, e := range events() {
		m.Observe(context.Background(), e)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions().WithLabelValues("halve", "transition")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions().WithLabelValues("halve", "violation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions().WithLabelValues("fetch", "failure")))

	_, err = observe.NewMetrics(reg, "weave")
	assert.Error(t, err, "collectors register once per registry")
}

func TestTracer(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	obs := observe.Tracer(provider.Tracer("weave-test"))
	for _, e := range events() {
		obs.Observe(context.Background(), e)
	}

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, "Agent.Transition", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Equal(t, codes.Error, spans[2].Status.Code)
}
