package poly_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/weave/pkg/poly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type light string

const (
	red    light = "red"
	green  light = "green"
	broken light = "broken"
)

// trafficLight only accepts "go" when red and "stop" when green; broken is stuck.
func trafficLight(t *testing.T) *poly.Agent {
	t.Helper()
	a, err := poly.New("light", red, poly.Finite(red, green, broken),
		func(s light) poly.Directions {
			switch s {
			case red:
				return poly.OneOf("go", "break")
			case green:
				return poly.OneOf("stop")
			}
			return poly.None()
		},
		func(_ context.Context, s light, cmd string) (light, string, error) {
			switch cmd {
			case "go":
				return green, "went", nil
			case "stop":
				return red, "stopped", nil
			}
			return broken, "broke", nil
		})
	require.NoError(t, err)
	return a
}

func TestLift(t *testing.T) {
	double := poly.Lift("double", func(x int) int { return 2 * x })

	pos, out, err := poly.Invoke(context.Background(), double, double.Initial(), 3)
	require.NoError(t, err)
	assert.Equal(t, 6, out)
	assert.Equal(t, 1, double.Size())
	assert.True(t, double.Contains(pos))

	_, _, err = poly.Invoke(context.Background(), double, double.Initial(), "three")
	assert.ErrorIs(t, err, poly.ErrDirectionViolation)
}

func TestNew_Errors(t *testing.T) {
	step := func(_ context.Context, s int, in int) (int, int, error) { return s, in, nil }

	_, err := poly.New("empty", 0, poly.Interval(1, 0), nil, step)
	assert.ErrorIs(t, err, poly.ErrEmptyPositions)

	_, err = poly.New("outside", 5, poly.Interval(0, 3), nil, step)
	assert.ErrorIs(t, err, poly.ErrInitialOutsidePositions)

	_, err = poly.New[int, int, int]("nil", 0, poly.Interval(0, 3), nil, nil)
	assert.ErrorIs(t, err, poly.ErrNilTransition)
}

func TestInvoke_Directions(t *testing.T) {
	ctx := context.Background()
	a := trafficLight(t)

	pos, out, err := poly.Invoke(ctx, a, a.Initial(), "go")
	require.NoError(t, err)
	assert.Equal(t, "went", out)

	_, _, err = poly.Invoke(ctx, a, pos, "go")
	var dv *poly.DirectionViolation
	require.True(t, errors.As(err, &dv))
	assert.Equal(t, "light", dv.Agent)
	assert.Equal(t, "go", dv.Input)
	assert.Equal(t, green, dv.Position.Slot(0))

	// Invoke never mutates the caller's position.
	initial := a.Initial()
	_, _, err = poly.Invoke(ctx, a, initial, "go")
	require.NoError(t, err)
	assert.Equal(t, red, initial.Slot(0))
}

func TestInvoke_StuckPosition(t *testing.T) {
	ctx := context.Background()
	a := trafficLight(t)

	pos, _, err := poly.Invoke(ctx, a, a.Initial(), "break")
	require.NoError(t, err)
	for _, in := range []any{"go", "stop", "break", 1} {
		assert.False(t, a.Directions(pos).Accepts(in))
		_, _, err := poly.Invoke(ctx, a, pos, in)
		assert.ErrorIs(t, err, poly.ErrDirectionViolation)
	}
}

func TestInvoke_ForeignPosition(t *testing.T) {
	a := trafficLight(t)
	double := poly.Lift("double", func(x int) int { return 2 * x })

	_, _, err := poly.Invoke(context.Background(), a, double.Initial(), "go")
	assert.ErrorIs(t, err, poly.ErrForeignPosition)
	assert.False(t, a.Directions(double.Initial()).Accepts("go"))
}

func TestInvoke_TransitionLeavingPositions(t *testing.T) {
	a := poly.MustNew("counter", 0, poly.Interval(0, 1), nil,
		func(_ context.Context, s int, _ struct{}) (int, int, error) { return s + 1, s, nil })

	pos, _, err := poly.Invoke(context.Background(), a, a.Initial(), struct{}{})
	require.NoError(t, err)
	_, _, err = poly.Invoke(context.Background(), a, pos, struct{}{})
	assert.ErrorIs(t, err, poly.ErrForeignPosition)
}

func TestInvoke_TransitionError(t *testing.T) {
	boom := errors.New("boom")
	a := poly.LiftE("fails", func(context.Context, int) (int, error) { return 0, boom })

	_, _, err := poly.Invoke(context.Background(), a, a.Initial(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestCall(t *testing.T) {
	inc := poly.Lift("inc", func(x int) int { return x + 1 })

	_, n, err := poly.Call[int](context.Background(), inc, inc.Initial(), 41)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, _, err = poly.Call[string](context.Background(), inc, inc.Initial(), 41)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	sum := poly.MustNew("sum", 0, poly.Unconstrained[int](), nil,
		func(_ context.Context, s, x int) (int, int, error) { return s + x, s + x, nil })

	pos, outs, err := poly.Run(context.Background(), sum, sum.Initial(), 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 3, 6}, outs)
	assert.Equal(t, 6, pos.Slot(0))

	_, outs, err = poly.Run(context.Background(), sum, sum.Initial(), 1, "x", 3)
	assert.ErrorIs(t, err, poly.ErrDirectionViolation)
	assert.Equal(t, []any{1}, outs)
}

func TestIdentity(t *testing.T) {
	id := poly.Identity()
	for _, in := range []any{1, "a", nil, poly.Pair{First: 1, Second: 2}} {
		_, out, err := poly.Invoke(context.Background(), id, id.Initial(), in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
	assert.Nil(t, id.In())
	assert.Nil(t, id.Out())
}

func TestDirections(t *testing.T) {
	even := poly.Accept(func(x int) bool { return x%2 == 0 })
	small := poly.Accept(func(x int) bool { return x < 10 })

	assert.True(t, poly.Intersect(even, small).Accepts(4))
	assert.False(t, poly.Intersect(even, small).Accepts(12))
	assert.True(t, poly.Union(even, small).Accepts(12))
	assert.False(t, poly.Union(even, small).Accepts(13))
	assert.False(t, poly.All[int]().Accepts("x"))
	assert.True(t, poly.Anything().Accepts(nil))
}

func TestFlatten(t *testing.T) {
	nested := poly.Pair{First: poly.Pair{First: 1, Second: 2}, Second: 3}
	assert.Equal(t, []any{1, 2, 3}, poly.Flatten(nested))
	assert.Equal(t, []any{"x"}, poly.Flatten("x"))
}
