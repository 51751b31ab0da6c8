// Package demo holds the sample agents the CLI verifies and glues.
package demo

import (
	"context"

	"github.com/aretw0/weave/pkg/operad"
	"github.com/aretw0/weave/pkg/poly"
)

// Double multiplies by two.
func Double() *poly.Agent {
	return poly.Lift("double", func(x int) int { return 2 * x })
}

// Increment adds one.
func Increment() *poly.Agent {
	return poly.Lift("increment", func(x int) int { return x + 1 })
}

// Halve divides even numbers by two. Odd inputs are outside its directions.
func Halve() *poly.Agent {
	return poly.MustNew("halve", struct{}{}, poly.Unit(),
		func(struct{}) poly.Directions {
			return poly.Accept(func(x int) bool { return x%2 == 0 })
		},
		func(_ context.Context, u struct{}, x int) (struct{}, int, error) {
			return u, x / 2, nil
		})
}

// Accumulator outputs the running sum of its inputs.
func Accumulator() *poly.Agent {
	return poly.MustNew("accumulate", 0, poly.Unconstrained[int](), nil,
		func(_ context.Context, sum, x int) (int, int, error) {
			return sum + x, sum + x, nil
		})
}

// AtLeast holds for ints >= n.
func AtLeast(n int) operad.Predicate {
	return operad.Is(func(x int) bool { return x >= n })
}

// Even holds for even ints.
func Even() operad.Predicate {
	return operad.Is(func(x int) bool { return x%2 == 0 })
}

// Arith is a domain catalog adding "twice", which runs its operand two times
// in sequence.
func Arith() (*operad.Domain, error) {
	d := operad.NewDomain("arith")
	err := d.Register("twice", 1, func(operands []operad.Operand, cfg operad.Config) (*poly.Agent, error) {
		a, err := operad.AgentAt("twice", operands, 0)
		if err != nil {
			return nil, err
		}
		name := cfg.Name
		if name == "" {
			name = "twice(" + a.Name() + ")"
		}
		return operad.Seq(a, a, operad.WithName(name))
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}
