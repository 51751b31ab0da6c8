package poly

import (
	"context"
	"fmt"
	"reflect"

	"github.com/aretw0/weave/internal/kernel"
)

// Agent is an immutable polynomial agent.
type Agent = kernel.Agent

// Position is an opaque agent position. Only composition machinery looks inside.
type Position = kernel.State

// Unbounded is the Size of an agent whose position set is not finite.
const Unbounded = kernel.Unbounded

// Transition is the typed transition function of a leaf agent.
type Transition[S, A, B any] func(ctx context.Context, pos S, in A) (S, B, error)

// New builds an agent from a (positions, directions, transition) triple.
//
// initial is the position a fresh run starts from and must belong to positions.
// A nil directions function accepts every value of type A.
func New[S, A, B any](name string, initial S, positions Positions[S], directions func(S) Directions, transition Transition[S, A, B]) (*Agent, error) {
	if positions == nil || positions.Len() == 0 {
		return nil, fmt.Errorf("agent %q: %w", name, ErrEmptyPositions)
	}
	if !positions.Contains(initial) {
		return nil, fmt.Errorf("agent %q: %w: %v", name, ErrInitialOutsidePositions, initial)
	}
	if transition == nil {
		return nil, fmt.Errorf("agent %q: %w", name, ErrNilTransition)
	}
	if directions == nil {
		all := All[A]()
		directions = func(S) Directions { return all }
	}

	return kernel.Build(kernel.Spec{
		Name:      name,
		Tag:       kernel.TagLeaf,
		In:        kernel.TypeOf[A](),
		Out:       kernel.TypeOf[B](),
		Width:     1,
		Size:      positions.Len(),
		SlotTypes: []reflect.Type{kernel.TypeOf[S]()},
		Init: func(slots []any) {
			slots[0] = initial
		},
		Valid: func(slots []any) bool {
			s, ok := kernel.As[S](slots[0])
			return ok && positions.Contains(s)
		},
		Directions: func(slots []any) Directions {
			s, _ := kernel.As[S](slots[0])
			return directions(s)
		},
		Step: func(ctx context.Context, slots []any, in any) (any, error) {
			s, _ := kernel.As[S](slots[0])
			a, _ := kernel.As[A](in)
			next, out, err := transition(ctx, s, a)
			if err != nil {
				return nil, err
			}
			if !positions.Contains(next) {
				return nil, &kernel.ForeignPosition{Agent: name, Position: kernel.FromSlots([]any{next})}
			}
			slots[0] = next
			return out, nil
		},
	}), nil
}

// MustNew is New for agents known to be valid; it panics on error.
func MustNew[S, A, B any](name string, initial S, positions Positions[S], directions func(S) Directions, transition Transition[S, A, B]) *Agent {
	a, err := New(name, initial, positions, directions, transition)
	if err != nil {
		panic(err)
	}
	return a
}

// Lift turns f into a one-position agent whose directions are f's domain.
func Lift[A, B any](name string, f func(A) B) *Agent {
	return MustNew(name, struct{}{}, Unit(), nil,
		func(_ context.Context, u struct{}, in A) (struct{}, B, error) {
			return u, f(in), nil
		})
}

// LiftE lifts a fallible, context-aware function.
func LiftE[A, B any](name string, f func(context.Context, A) (B, error)) *Agent {
	return MustNew(name, struct{}{}, Unit(), nil,
		func(ctx context.Context, u struct{}, in A) (struct{}, B, error) {
			out, err := f(ctx, in)
			return u, out, err
		})
}

// Identity returns the pass-through agent: one position, any input, output = input.
func Identity() *Agent {
	return kernel.Build(kernel.Spec{
		Name:       "id",
		Tag:        kernel.TagIdentity,
		Width:      1,
		Size:       1,
		SlotTypes:  []reflect.Type{kernel.TypeOf[struct{}]()},
		Init:       func(slots []any) { slots[0] = struct{}{} },
		Valid:      func(slots []any) bool { _, ok := slots[0].(struct{}); return ok },
		Directions: func([]any) Directions { return Anything() },
		Step:       func(_ context.Context, _ []any, in any) (any, error) { return in, nil },
	})
}

// Invoke runs one transition of a from pos and returns the next position and
// the output. pos is left untouched; on error no next position is returned.
func Invoke(ctx context.Context, a *Agent, pos Position, in any) (Position, any, error) {
	return kernel.Invoke(ctx, a, pos, in)
}

// Call is Invoke with a typed output.
func Call[B any](ctx context.Context, a *Agent, pos Position, in any) (Position, B, error) {
	next, out, err := kernel.Invoke(ctx, a, pos, in)
	if err != nil {
		var zero B
		return Position{}, zero, err
	}
	b, ok := kernel.As[B](out)
	if !ok {
		var zero B
		return Position{}, zero, fmt.Errorf("agent %q: output %T is not %s", a.Name(), out, kernel.TypeOf[B]())
	}
	return next, b, nil
}

// Run feeds inputs one by one starting at pos and returns the final position
// and every output. It stops at the first error, returning the outputs so far.
func Run(ctx context.Context, a *Agent, pos Position, inputs ...any) (Position, []any, error) {
	outs := make([]any, 0, len(inputs))
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return pos, outs, err
		}
		next, out, err := kernel.Invoke(ctx, a, pos, in)
		if err != nil {
			return pos, outs, fmt.Errorf("step %d: %w", i, err)
		}
		pos = next
		outs = append(outs, out)
	}
	return pos, outs, nil
}
