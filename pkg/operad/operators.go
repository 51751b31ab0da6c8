package operad

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/aretw0/weave/internal/kernel"
	"github.com/aretw0/weave/internal/wiring"
	"github.com/aretw0/weave/pkg/observe"
	"github.com/aretw0/weave/pkg/poly"
	"github.com/google/uuid"
)

// Identity returns the unit of seq.
func Identity(opts ...Option) *poly.Agent {
	a, _ := Base().Apply("id", nil, opts...)
	return a
}

// Seq runs a, then b on a's output.
func Seq(a, b *poly.Agent, opts ...Option) (*poly.Agent, error) {
	return Base().Apply("seq", []Operand{Of(a), Of(b)}, opts...)
}

// Par runs a and b on the same input and pairs their outputs.
func Par(a, b *poly.Agent, opts ...Option) (*poly.Agent, error) {
	return Base().Apply("par", []Operand{Of(a), Of(b)}, opts...)
}

// Branch runs a on inputs satisfying pred and b on the others.
func Branch(pred Predicate, a, b *poly.Agent, opts ...Option) (*poly.Agent, error) {
	return Base().Apply("branch", []Operand{When(pred), Of(a), Of(b)}, opts...)
}

// Fix applies a repeatedly, feeding each output back in, until pred holds on
// the output or limit iterations ran.
func Fix(pred Predicate, a *poly.Agent, limit int, opts ...Option) (*poly.Agent, error) {
	return Base().Apply("fix", []Operand{When(pred), Of(a)}, append(opts, WithCap(limit))...)
}

// Trace reports every transition of a to obs.
func Trace(a *poly.Agent, obs observe.Observer, opts ...Option) (*poly.Agent, error) {
	return Base().Apply("trace", []Operand{Of(a)}, append(opts, WithObserver(obs))...)
}

func nameOr(cfg Config, format string, args ...any) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return fmt.Sprintf(format, args...)
}

func identity(cfg Config) *poly.Agent {
	id := poly.Identity()
	if cfg.Name == "" {
		return id
	}
	return relabel(id, cfg.Name)
}

func seq(op string, operands []Operand, cfg Config) (*poly.Agent, error) {
	a, err := AgentAt(op, operands, 0)
	if err != nil {
		return nil, err
	}
	b, err := AgentAt(op, operands, 1)
	if err != nil {
		return nil, err
	}
	d, err := wiring.Connect(op, a, b, cfg.Adapter)
	if err != nil {
		return nil, err
	}
	return d.Composite(nameOr(cfg, "seq(%s, %s)", a.Name(), b.Name())), nil
}

func par(op string, operands []Operand, cfg Config) (*poly.Agent, error) {
	a, err := AgentAt(op, operands, 0)
	if err != nil {
		return nil, err
	}
	b, err := AgentAt(op, operands, 1)
	if err != nil {
		return nil, err
	}
	return wiring.Fanout(nameOr(cfg, "par(%s, %s)", a.Name(), b.Name()), a, b, cfg.Concurrent)
}

// Branch positions are a tagged union laid out as
//
//	[tag | a's window | b's window]
//
// where only the live side's window is populated; the other side's slots are
// empty. Switching sides restarts the newly live side from its initial position.
const (
	liveA = 0
	liveB = 1
)

func branch(op string, operands []Operand, cfg Config) (*poly.Agent, error) {
	pred, err := PredicateAt(op, operands, 0)
	if err != nil {
		return nil, err
	}
	a, err := AgentAt(op, operands, 1)
	if err != nil {
		return nil, err
	}
	b, err := AgentAt(op, operands, 2)
	if err != nil {
		return nil, err
	}
	in, ok := kernel.Common(a.In(), b.In())
	if !ok {
		return nil, &poly.TypeMismatch{Operator: op, Left: a.Name(), Right: b.Name(), Out: a.In(), In: b.In()}
	}
	var out reflect.Type
	if a.Out() == b.Out() {
		out = a.Out()
	}

	name := nameOr(cfg, "branch(%s, %s)", a.Name(), b.Name())
	wa, wb := a.Width(), b.Width()
	windowA := func(slots []any) []any { return slots[1 : 1+wa] }
	windowB := func(slots []any) []any { return slots[1+wa : 1+wa+wb] }
	pick := func(x any) int {
		if pred(x) {
			return liveA
		}
		return liveB
	}
	initA, initB := kernel.Slots(a.Initial()), kernel.Slots(b.Initial())

	slotTypes := append([]reflect.Type{kernel.TypeOf[int]()}, kernel.SlotTypes(a)...)
	slotTypes = append(slotTypes, kernel.SlotTypes(b)...)

	return kernel.Build(kernel.Spec{
		Name:      name,
		Tag:       kernel.TagBranch,
		Children:  []*kernel.Agent{a, b},
		In:        in,
		Out:       out,
		Width:     1 + wa + wb,
		Size:      kernel.AddSize(a.Size(), b.Size()),
		SlotTypes: slotTypes,
		Init: func(slots []any) {
			slots[0] = liveA
			kernel.Init(a, windowA(slots))
		},
		Valid: func(slots []any) bool {
			switch slots[0] {
			case liveA:
				return kernel.Valid(a, windowA(slots)) && kernel.Vacant(windowB(slots))
			case liveB:
				return kernel.Valid(b, windowB(slots)) && kernel.Vacant(windowA(slots))
			}
			return false
		},
		Directions: func(slots []any) kernel.Directions {
			live := slots[0]
			return poly.DirectionFunc(func(x any) bool {
				if pick(x) == liveA {
					if live == liveA {
						return kernel.Accepts(a, windowA(slots), x)
					}
					return kernel.Accepts(a, initA, x)
				}
				if live == liveB {
					return kernel.Accepts(b, windowB(slots), x)
				}
				return kernel.Accepts(b, initB, x)
			})
		},
		Step: func(ctx context.Context, slots []any, x any) (any, error) {
			side := pick(x)
			if side != slots[0] {
				if side == liveA {
					kernel.Clear(windowB(slots))
					kernel.Init(a, windowA(slots))
				} else {
					kernel.Clear(windowA(slots))
					kernel.Init(b, windowB(slots))
				}
				slots[0] = side
			}
			if side == liveA {
				return kernel.Advance(ctx, a, windowA(slots), x)
			}
			return kernel.Advance(ctx, b, windowB(slots), x)
		},
	}), nil
}

func fix(op string, operands []Operand, cfg Config) (*poly.Agent, error) {
	pred, err := PredicateAt(op, operands, 0)
	if err != nil {
		return nil, err
	}
	a, err := AgentAt(op, operands, 1)
	if err != nil {
		return nil, err
	}
	if cfg.Cap <= 0 {
		return nil, fmt.Errorf("%s(%s): %w", op, a.Name(), ErrUncappedFix)
	}
	if !kernel.Assignable(a.Out(), a.In()) {
		return nil, &poly.TypeMismatch{Operator: op, Left: a.Name(), Right: a.Name(), Out: a.Out(), In: a.In()}
	}

	name := nameOr(cfg, "fix(%s)", a.Name())
	limit := cfg.Cap
	return kernel.Build(kernel.Spec{
		Name:       name,
		Tag:        kernel.TagFix,
		Children:   []*kernel.Agent{a},
		In:         a.In(),
		Out:        a.Out(),
		Width:      a.Width(),
		Size:       a.Size(),
		SlotTypes:  kernel.SlotTypes(a),
		Init:       func(slots []any) { kernel.Init(a, slots) },
		Valid:      func(slots []any) bool { return kernel.Valid(a, slots) },
		Directions: func(slots []any) kernel.Directions { return kernel.DirectionsAt(a, slots) },
		Step: func(ctx context.Context, slots []any, in any) (any, error) {
			x := in
			for i := 0; i < limit; i++ {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				out, err := kernel.Advance(ctx, a, slots, x)
				if err != nil {
					return nil, err
				}
				if pred(out) {
					return out, nil
				}
				x = out
			}
			return nil, &FixNotConverged{Agent: name, Cap: limit, Input: in, Last: x}
		},
	}), nil
}

func traced(op string, operands []Operand, cfg Config) (*poly.Agent, error) {
	a, err := AgentAt(op, operands, 0)
	if err != nil {
		return nil, err
	}
	if cfg.Observer == nil {
		return nil, fmt.Errorf("%s(%s): %w", op, a.Name(), ErrNoObserver)
	}
	obs := cfg.Observer
	agentName := a.Name()

	return kernel.Build(kernel.Spec{
		Name:       nameOr(cfg, "trace(%s)", a.Name()),
		Tag:        kernel.TagTrace,
		Children:   []*kernel.Agent{a},
		In:         a.In(),
		Out:        a.Out(),
		Width:      a.Width(),
		Size:       a.Size(),
		SlotTypes:  kernel.SlotTypes(a),
		Init:       func(slots []any) { kernel.Init(a, slots) },
		Valid:      func(slots []any) bool { return kernel.Valid(a, slots) },
		Directions: func(slots []any) kernel.Directions { return kernel.DirectionsAt(a, slots) },
		Reject: func(ctx context.Context, slots []any, in any, err error) {
			obs.Observe(ctx, observe.Event{
				ID:        uuid.NewString(),
				Timestamp: time.Now(),
				Type:      observe.EventViolation,
				Agent:     agentName,
				Before:    kernel.FromSlots(slots).Clone(),
				Input:     in,
				Err:       err,
			})
		},
		Step: func(ctx context.Context, slots []any, in any) (any, error) {
			before := kernel.FromSlots(slots).Clone()
			start := time.Now()
			out, err := kernel.Advance(ctx, a, slots, in)
			e := observe.Event{
				ID:        uuid.NewString(),
				Timestamp: start,
				Type:      observe.Classify(err),
				Agent:     agentName,
				Before:    before,
				Input:     in,
				Err:       err,
				Duration:  time.Since(start),
			}
			if err == nil {
				e.After = kernel.FromSlots(slots).Clone()
				e.Output = out
			}
			obs.Observe(ctx, e)
			return out, err
		},
	}), nil
}

// relabel returns a copy of a under a new name.
func relabel(a *poly.Agent, name string) *poly.Agent {
	return kernel.Build(kernel.Spec{
		Name:       name,
		Tag:        kernel.TagOf(a),
		Children:   kernel.Children(a),
		In:         a.In(),
		Out:        a.Out(),
		Width:      a.Width(),
		Size:       a.Size(),
		SlotTypes:  kernel.SlotTypes(a),
		Init:       func(slots []any) { kernel.Init(a, slots) },
		Valid:      func(slots []any) bool { return kernel.Valid(a, slots) },
		Directions: func(slots []any) kernel.Directions { return kernel.DirectionsAt(a, slots) },
		Step: func(ctx context.Context, slots []any, in any) (any, error) {
			return kernel.Advance(ctx, a, slots, in)
		},
	})
}
