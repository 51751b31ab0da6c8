package weave_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/weave"
	"github.com/aretw0/weave/internal/demo"
	"github.com/aretw0/weave/pkg/adapters/memory"
	"github.com/aretw0/weave/pkg/equal"
	"github.com/aretw0/weave/pkg/observe"
	"github.com/aretw0/weave/pkg/operad"
	"github.com/aretw0/weave/pkg/poly"
	"github.com/aretw0/weave/pkg/sheaf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MergesDomains(t *testing.T) {
	arith, err := demo.Arith()
	require.NoError(t, err)

	engine, err := weave.New(weave.WithDomain(arith))
	require.NoError(t, err)

	op, ok := engine.Registry().Lookup("twice")
	require.True(t, ok)
	assert.Equal(t, "arith", op.Domain)
	assert.Equal(t, []string{"branch", "fix", "id", "par", "seq", "trace", "twice"}, engine.Registry().Names())

	a, err := engine.Compose("twice", []operad.Operand{operad.Of(demo.Double())})
	require.NoError(t, err)
	_, out, err := engine.Invoke(context.Background(), a, a.Initial(), 3)
	require.NoError(t, err)
	assert.Equal(t, 12, out)
}

func TestNew_Errors(t *testing.T) {
	_, err := weave.New(weave.WithFixCap(0))
	assert.Error(t, err)

	d := operad.NewDomain("a")
	require.NoError(t, d.Register("same", 1, func([]operad.Operand, operad.Config) (*poly.Agent, error) { return nil, nil }))
	e := operad.NewDomain("b")
	require.NoError(t, e.Register("same", 1, func([]operad.Operand, operad.Config) (*poly.Agent, error) { return nil, nil }))

	_, err = weave.New(weave.WithDomain(d), weave.WithDomain(e))
	assert.ErrorIs(t, err, operad.ErrOperatorExists)
}

func TestCompose_FixCapDefaults(t *testing.T) {
	ctx := context.Background()
	engine, err := weave.New(weave.WithFixCap(3))
	require.NoError(t, err)

	operands := []operad.Operand{operad.When(demo.AtLeast(100)), operad.Of(demo.Double())}

	capped, err := engine.Compose("fix", operands)
	require.NoError(t, err)
	_, _, err = engine.Invoke(ctx, capped, capped.Initial(), 1)
	var nc *operad.FixNotConverged
	require.True(t, errors.As(err, &nc))
	assert.Equal(t, 3, nc.Cap)
	assert.Equal(t, 8, nc.Last)

	// A per-call cap overrides the engine default.
	wide, err := engine.Compose("fix", operands, operad.WithCap(10))
	require.NoError(t, err)
	_, out, err := engine.Invoke(ctx, wide, wide.Initial(), 1)
	require.NoError(t, err)
	assert.Equal(t, 128, out)
}

func TestCompose_DefaultObserver(t *testing.T) {
	ch := observe.NewChannel(4)
	defer ch.Close()

	engine, err := weave.New(weave.WithObserver(ch))
	require.NoError(t, err)

	a, err := engine.Compose("trace", []operad.Operand{operad.Of(demo.Increment())})
	require.NoError(t, err)

	_, out, err := engine.Invoke(context.Background(), a, a.Initial(), 41)
	require.NoError(t, err)
	assert.Equal(t, 42, out)

	e := <-ch.Events()
	assert.Equal(t, observe.EventTransition, e.Type)
	assert.Equal(t, "increment", e.Agent)
	assert.Equal(t, 41, e.Input)
	assert.Equal(t, 42, e.Output)
}

func TestCompose_ConcurrentPar(t *testing.T) {
	engine, err := weave.New(weave.WithConcurrentPar(true))
	require.NoError(t, err)

	a, err := engine.Compose("par", []operad.Operand{operad.Of(demo.Double()), operad.Of(demo.Increment())})
	require.NoError(t, err)
	_, out, err := engine.Invoke(context.Background(), a, a.Initial(), 5)
	require.NoError(t, err)
	assert.Equal(t, []any{10, 6}, poly.Flatten(out))
}

func TestInvoke_ViolationKeepsPosition(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	engine, err := weave.New(weave.WithLogger(logger))
	require.NoError(t, err)

	halve := demo.Halve()
	pos := halve.Initial()
	next, out, err := engine.Invoke(context.Background(), halve, pos, 3)
	assert.ErrorIs(t, err, poly.ErrDirectionViolation)
	assert.Nil(t, out)
	assert.Equal(t, pos, next)
	assert.Contains(t, buf.String(), "direction violation")
}

func TestSheaf_GluesDistance(t *testing.T) {
	ctx := context.Background()
	engine, err := weave.New()
	require.NoError(t, err)

	site, err := demo.DistanceSite()
	require.NoError(t, err)
	sh := engine.Sheaf(site, demo.DistanceSamples())

	global, err := sh.Glue(ctx, demo.DistanceFamily(), sheaf.FirstMatch(), equal.Approx(1e-9, 1e-9))
	require.NoError(t, err)

	_, outs, err := poly.Run(ctx, global, global.Initial(),
		demo.Move{Meters: 1609.344}, demo.Report{Unit: "mi"}, demo.Report{Unit: "km"})
	require.NoError(t, err)
	require.Len(t, outs, 3)
	assert.InDelta(t, 1609.344, outs[0], 1e-9)
	assert.InDelta(t, 1.0, outs[1], 1e-9)
	assert.InDelta(t, 1.609344, outs[2], 1e-9)
}

func TestSessions_Step(t *testing.T) {
	ctx := context.Background()
	engine, err := weave.New()
	require.NoError(t, err)

	store := memory.NewStore()
	mgr := engine.Sessions(demo.Accumulator(), store)

	for _, x := range []int{1, 2, 3} {
		_, err := mgr.Step(ctx, "s1", x)
		require.NoError(t, err)
	}
	snap, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Steps)
	assert.Equal(t, "accumulate", snap.Agent)

	out, err := mgr.Step(ctx, "s1", 4)
	require.NoError(t, err)
	assert.Equal(t, 10, out)
}
