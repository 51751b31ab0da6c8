package operad

import (
	"fmt"

	"github.com/aretw0/weave/internal/kernel"
	"github.com/aretw0/weave/pkg/poly"
)

// Predicate decides on an input (branch) or an output (fix).
type Predicate func(v any) bool

// Is adapts a typed predicate. Values of another type never satisfy it.
func Is[T any](pred func(T) bool) Predicate {
	return func(v any) bool {
		t, ok := kernel.As[T](v)
		return ok && pred(t)
	}
}

// Operand is one argument of an operator: an agent or a predicate.
type Operand struct {
	agent *poly.Agent
	pred  Predicate
}

// Of wraps an agent operand.
func Of(a *poly.Agent) Operand { return Operand{agent: a} }

// When wraps a predicate operand.
func When(p Predicate) Operand { return Operand{pred: p} }

// Agent returns the agent operand, or nil.
func (o Operand) Agent() *poly.Agent { return o.agent }

// Predicate returns the predicate operand, or nil.
func (o Operand) Predicate() Predicate { return o.pred }

func (o Operand) String() string {
	switch {
	case o.agent != nil:
		return "agent " + o.agent.Name()
	case o.pred != nil:
		return "predicate"
	}
	return "empty operand"
}

// AgentAt returns operand i as an agent.
func AgentAt(op string, operands []Operand, i int) (*poly.Agent, error) {
	if a := operands[i].agent; a != nil {
		return a, nil
	}
	return nil, fmt.Errorf("%s: %w: operand %d is %s, want agent", op, ErrInvalidOperand, i, operands[i])
}

// PredicateAt returns operand i as a predicate.
func PredicateAt(op string, operands []Operand, i int) (Predicate, error) {
	if p := operands[i].pred; p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%s: %w: operand %d is %s, want predicate", op, ErrInvalidOperand, i, operands[i])
}
