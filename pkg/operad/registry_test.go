package operad_test

import (
	"errors"
	"testing"

	"github.com/aretw0/weave/internal/demo"
	"github.com/aretw0/weave/pkg/operad"
	"github.com/aretw0/weave/pkg/poly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase(t *testing.T) {
	reg := operad.Base()
	assert.Equal(t, []string{"branch", "fix", "id", "par", "seq", "trace"}, reg.Names())

	arity := map[string]int{"id": 0, "seq": 2, "par": 2, "branch": 3, "fix": 2, "trace": 1}
	for name, want := range arity {
		op, ok := reg.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, want, op.Arity, name)
		assert.Empty(t, op.Domain)
	}
	seq, _ := reg.Lookup("seq")
	assert.Contains(t, seq.Laws, operad.LawInterchange)
}

func TestApply_Errors(t *testing.T) {
	reg := operad.Base()

	_, err := reg.Apply("zip", nil)
	assert.ErrorIs(t, err, operad.ErrUnknownOperator)

	_, err = reg.Apply("seq", []operad.Operand{operad.Of(demo.Double())})
	var am *operad.ArityMismatch
	require.True(t, errors.As(err, &am))
	assert.Equal(t, 2, am.Want)
	assert.Equal(t, 1, am.Got)
	assert.ErrorIs(t, err, operad.ErrArityMismatch)

	_, err = reg.Apply("branch", []operad.Operand{operad.Of(demo.Double()), operad.Of(demo.Double()), operad.Of(demo.Double())})
	assert.ErrorIs(t, err, operad.ErrInvalidOperand)

	_, err = reg.Apply("seq", []operad.Operand{operad.When(demo.Even()), operad.Of(demo.Double())})
	assert.ErrorIs(t, err, operad.ErrInvalidOperand)
}

func TestMerge_Domain(t *testing.T) {
	arith, err := demo.Arith()
	require.NoError(t, err)

	reg, err := operad.Merge(operad.Base(), arith)
	require.NoError(t, err)

	op, ok := reg.Lookup("twice")
	require.True(t, ok)
	assert.Equal(t, operad.KindDomain, op.Kind)
	assert.Equal(t, "arith", op.Domain)

	ops := reg.Operations()
	assert.Equal(t, "id", ops[0].Name)
	assert.Equal(t, "twice", ops[len(ops)-1].Name)

	a, err := reg.Apply("twice", []operad.Operand{operad.Of(demo.Increment())})
	require.NoError(t, err)
	assert.Equal(t, "twice(increment)", a.Name())
	assert.Equal(t, 5, invoke(t, a, 3))

	// The base registry is untouched.
	_, ok = operad.Base().Lookup("twice")
	assert.False(t, ok)
}

func TestDomain_CannotOverrideBase(t *testing.T) {
	d := operad.NewDomain("rogue")
	impl := func([]operad.Operand, operad.Config) (*poly.Agent, error) { return poly.Identity(), nil }

	assert.ErrorIs(t, d.Register("seq", 2, impl), operad.ErrBaseOverride)
	require.NoError(t, d.Register("noop", 0, impl))
	assert.ErrorIs(t, d.Register("noop", 0, impl), operad.ErrOperatorExists)
	assert.Error(t, d.Register("broken", 1, nil))
	assert.Error(t, d.Register("negative", -1, impl))
}

func TestMerge_Conflicts(t *testing.T) {
	impl := func([]operad.Operand, operad.Config) (*poly.Agent, error) { return poly.Identity(), nil }
	a := operad.NewDomain("a")
	b := operad.NewDomain("b")
	require.NoError(t, a.Register("noop", 0, impl))
	require.NoError(t, b.Register("noop", 0, impl))

	_, err := operad.Merge(operad.Base(), a, b)
	assert.ErrorIs(t, err, operad.ErrOperatorExists)

	reg, err := operad.Merge(operad.Base(), a)
	require.NoError(t, err)
	_, err = operad.Merge(reg, a)
	assert.ErrorIs(t, err, operad.ErrOperatorExists)
}
