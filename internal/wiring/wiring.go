// Package wiring connects agents into product composites.
//
// A Diagram routes Left's output, through an adapter when the types differ, into
// Right's input. Composite positions are the product of the constituents'
// positions, laid out as adjacent windows of one arena: Left at [0, wl), Right at
// [wl, wl+wr).
package wiring

import (
	"context"
	"fmt"
	"reflect"

	"github.com/aretw0/weave/internal/kernel"
	"github.com/aretw0/weave/pkg/poly"
	"golang.org/x/sync/errgroup"
)

// Diagram is a connection from Left's output to Right's input.
type Diagram struct {
	Left    *poly.Agent
	Right   *poly.Agent
	Adapter *poly.Adapter
}

// Connect resolves how left feeds right, in order:
//
//  1. the explicit adapter, when given;
//  2. direct assignment, when left's output type fits right's input;
//  3. componentwise routing, when both are parallel stages and each right
//     constituent accepts the matching left constituent's output;
//
// and fails with a *poly.TypeMismatch otherwise.
func Connect(op string, left, right *poly.Agent, adapter *poly.Adapter) (*Diagram, error) {
	mismatch := func(out, in reflect.Type) error {
		return &poly.TypeMismatch{Operator: op, Left: left.Name(), Right: right.Name(), Out: out, In: in}
	}

	if adapter != nil {
		if !kernel.Assignable(left.Out(), adapter.In()) {
			return nil, mismatch(left.Out(), adapter.In())
		}
		if !kernel.Assignable(adapter.Out(), right.In()) {
			return nil, mismatch(adapter.Out(), right.In())
		}
		return &Diagram{Left: left, Right: right, Adapter: adapter}, nil
	}

	if kernel.Assignable(left.Out(), right.In()) {
		return &Diagram{Left: left, Right: right}, nil
	}

	if routed, ok := componentwise(left, right); ok {
		return &Diagram{Left: left, Right: routed}, nil
	}

	return nil, mismatch(left.Out(), right.In())
}

// componentwise rebuilds a fan-out right stage as a tensor so that each of its
// constituents receives one component of left's pair.
func componentwise(left, right *poly.Agent) (*poly.Agent, bool) {
	if !isParallel(left) || kernel.TagOf(right) != kernel.TagFanout {
		return nil, false
	}
	l, r := kernel.Children(left), kernel.Children(right)
	if !kernel.Assignable(l[0].Out(), r[0].In()) || !kernel.Assignable(l[1].Out(), r[1].In()) {
		return nil, false
	}
	return Tensor(right.Name(), r[0], r[1], kernel.Concurrent(right)), true
}

func isParallel(a *poly.Agent) bool {
	t := kernel.TagOf(a)
	return t == kernel.TagFanout || t == kernel.TagTensor
}

// Composite runs Left, then feeds the adapted output into Right.
func (d *Diagram) Composite(name string) *poly.Agent {
	left, right, adapter := d.Left, d.Right, d.Adapter
	wl, wr := left.Width(), right.Width()

	out := right.Out()
	return kernel.Build(kernel.Spec{
		Name:      name,
		Tag:       kernel.TagSeq,
		Children:  []*kernel.Agent{left, right},
		In:        left.In(),
		Out:       out,
		Width:     wl + wr,
		Size:      kernel.MulSize(left.Size(), right.Size()),
		SlotTypes: concatTypes(left, right),
		Init: func(slots []any) {
			kernel.Init(left, slots[:wl])
			kernel.Init(right, slots[wl:])
		},
		Valid: func(slots []any) bool {
			return kernel.Valid(left, slots[:wl]) && kernel.Valid(right, slots[wl:wl+wr])
		},
		Directions: func(slots []any) kernel.Directions {
			return kernel.DirectionsAt(left, slots[:wl])
		},
		Step: func(ctx context.Context, slots []any, in any) (any, error) {
			mid, err := kernel.Advance(ctx, left, slots[:wl], in)
			if err != nil {
				return nil, err
			}
			if adapter != nil {
				if mid, err = adapter.Apply(mid); err != nil {
					return nil, fmt.Errorf("%s: %w", name, err)
				}
			}
			return kernel.Advance(ctx, right, slots[wl:wl+wr], mid)
		},
	})
}

// Fanout feeds the same input to left and right and pairs their outputs.
func Fanout(name string, left, right *poly.Agent, concurrent bool) (*poly.Agent, error) {
	in, ok := kernel.Common(left.In(), right.In())
	if !ok {
		return nil, &poly.TypeMismatch{Operator: name, Left: left.Name(), Right: right.Name(), Out: left.In(), In: right.In()}
	}
	wl, wr := left.Width(), right.Width()

	return kernel.Build(kernel.Spec{
		Name:      name,
		Tag:       kernel.TagFanout,
		Children:  []*kernel.Agent{left, right},
		In:        in,
		Out:       poly.PairType,
		Width:     wl + wr,
		Size:      kernel.MulSize(left.Size(), right.Size()),
		SlotTypes: concatTypes(left, right),
		Init: func(slots []any) {
			kernel.Init(left, slots[:wl])
			kernel.Init(right, slots[wl:])
		},
		Valid: func(slots []any) bool {
			return kernel.Valid(left, slots[:wl]) && kernel.Valid(right, slots[wl:wl+wr])
		},
		Directions: func(slots []any) kernel.Directions {
			return poly.Intersect(
				acceptsAt(left, slots[:wl]),
				acceptsAt(right, slots[wl:wl+wr]),
			)
		},
		Step: func(ctx context.Context, slots []any, x any) (any, error) {
			return both(ctx, left, right, slots, x, x, concurrent)
		},
		Concurrent: concurrent,
	}), nil
}

// Tensor routes First of an input pair to left and Second to right,
// concurrently when asked to, like Fanout.
func Tensor(name string, left, right *poly.Agent, concurrent bool) *poly.Agent {
	wl, wr := left.Width(), right.Width()
	return kernel.Build(kernel.Spec{
		Name:      name,
		Tag:       kernel.TagTensor,
		Children:  []*kernel.Agent{left, right},
		In:        poly.PairType,
		Out:       poly.PairType,
		Width:     wl + wr,
		Size:      kernel.MulSize(left.Size(), right.Size()),
		SlotTypes: concatTypes(left, right),
		Init: func(slots []any) {
			kernel.Init(left, slots[:wl])
			kernel.Init(right, slots[wl:])
		},
		Valid: func(slots []any) bool {
			return kernel.Valid(left, slots[:wl]) && kernel.Valid(right, slots[wl:wl+wr])
		},
		Directions: func(slots []any) kernel.Directions {
			return poly.Accept(func(p poly.Pair) bool {
				return kernel.Accepts(left, slots[:wl], p.First) &&
					kernel.Accepts(right, slots[wl:wl+wr], p.Second)
			})
		},
		Step: func(ctx context.Context, slots []any, in any) (any, error) {
			p := in.(poly.Pair)
			return both(ctx, left, right, slots, p.First, p.Second, concurrent)
		},
		Concurrent: concurrent,
	})
}

// both advances left on x and right on y. With concurrent set each side runs
// in its own goroutine; they only touch their own window of the arena.
func both(ctx context.Context, left, right *poly.Agent, slots []any, x, y any, concurrent bool) (any, error) {
	wl, wr := left.Width(), right.Width()
	if !concurrent {
		a, err := kernel.Advance(ctx, left, slots[:wl], x)
		if err != nil {
			return nil, err
		}
		b, err := kernel.Advance(ctx, right, slots[wl:wl+wr], y)
		if err != nil {
			return nil, err
		}
		return poly.Pair{First: a, Second: b}, nil
	}

	var a, b any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		a, err = kernel.Advance(gctx, left, slots[:wl], x)
		return err
	})
	g.Go(func() (err error) {
		b, err = kernel.Advance(gctx, right, slots[wl:wl+wr], y)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return poly.Pair{First: a, Second: b}, nil
}

func acceptsAt(a *poly.Agent, slots []any) kernel.Directions {
	return poly.DirectionFunc(func(in any) bool { return kernel.Accepts(a, slots, in) })
}

func concatTypes(agents ...*poly.Agent) []reflect.Type {
	var types []reflect.Type
	for _, a := range agents {
		types = append(types, kernel.SlotTypes(a)...)
	}
	return types
}
