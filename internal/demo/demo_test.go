package demo_test

import (
	"context"
	"testing"

	"github.com/aretw0/weave/internal/demo"
	"github.com/aretw0/weave/pkg/observe"
	"github.com/aretw0/weave/pkg/poly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline(t *testing.T) {
	ctx := context.Background()

	a, err := demo.Pipeline(nil, 10)
	require.NoError(t, err)
	assert.Equal(t, "pipeline", a.Name())

	_, out, err := poly.Invoke(ctx, a, a.Initial(), 1)
	require.NoError(t, err)
	assert.Equal(t, 127, out)
}

func TestPipeline_Traced(t *testing.T) {
	ch := observe.NewChannel(32)
	defer ch.Close()

	a, err := demo.Pipeline(ch, 10)
	require.NoError(t, err)

	_, out, err := poly.Invoke(context.Background(), a, a.Initial(), 1)
	require.NoError(t, err)
	assert.Equal(t, 127, out)

	// 1 -> 3 -> 7 -> 15 -> 31 -> 63 -> 127: six rounds of two leaves.
	var agents []string
	for len(agents) < 12 {
		agents = append(agents, (<-ch.Events()).Agent)
	}
	assert.Equal(t, "double", agents[0])
	assert.Equal(t, "increment", agents[11])
	assert.Zero(t, ch.Dropped())
}

func TestOdometer(t *testing.T) {
	ctx := context.Background()
	odo := demo.Odometer("odo", "m", "km")

	_, outs, err := poly.Run(ctx, odo, odo.Initial(), demo.Move{Meters: 1500}, demo.Report{Unit: "km"})
	require.NoError(t, err)
	assert.Equal(t, []any{1500.0, 1.5}, outs)

	_, _, err = poly.Invoke(ctx, odo, odo.Initial(), demo.Report{Unit: "mi"})
	assert.ErrorIs(t, err, poly.ErrDirectionViolation)
}

func TestArith_Halve(t *testing.T) {
	h := demo.Halve()
	_, out, err := poly.Invoke(context.Background(), h, h.Initial(), 8)
	require.NoError(t, err)
	assert.Equal(t, 4, out)
}
