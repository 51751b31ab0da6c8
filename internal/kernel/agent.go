// Package kernel holds the slot-arena machinery every agent is made of.
//
// An agent owns a contiguous window of slots in a flat arena. Leaf agents use a
// single slot; composites lay their constituents out side by side and address
// them through (offset, width) windows, so composite positions never nest.
// Only packages inside this module can build agents from raw parts; callers see
// the read-only surface re-exported by pkg/poly.
package kernel

import (
	"context"
	"reflect"
)

// Unbounded marks an agent whose position set is not finite.
const Unbounded = -1

// Tag labels the construction an agent came from.
type Tag uint8

const (
	TagLeaf Tag = iota
	TagIdentity
	TagSeq
	TagFanout
	TagTensor
	TagBranch
	TagFix
	TagTrace
	TagDomain
	TagRestrict
	TagGlue
)

// Directions is the set of inputs accepted at one position.
type Directions interface {
	Accepts(in any) bool
}

// Spec is the raw description an Agent is built from.
type Spec struct {
	Name     string
	Tag      Tag
	Children []*Agent

	// In and Out are nil when the agent does not constrain the type.
	In  reflect.Type
	Out reflect.Type

	Width     int
	Size      int
	SlotTypes []reflect.Type

	Init       func(slots []any)
	Valid      func(slots []any) bool
	Directions func(slots []any) Directions
	Step       func(ctx context.Context, slots []any, in any) (any, error)

	// Reject, when set, sees every input refused at this agent's boundary.
	Reject func(ctx context.Context, slots []any, in any, err error)

	// Restriction is the context this agent was restricted to, if any.
	Restriction string

	// Concurrent is set on parallel composites whose constituents step in
	// their own goroutines.
	Concurrent bool
}

// Agent is an immutable polynomial agent.
type Agent struct {
	spec    Spec
	initial State
}

// Build freezes spec into an Agent.
func Build(spec Spec) *Agent {
	init := NewState(spec.Width)
	spec.Init(init.slots)
	return &Agent{spec: spec, initial: init}
}

// Name returns the agent's label.
func (a *Agent) Name() string { return a.spec.Name }

// In returns the input type, or nil when any input type is allowed.
func (a *Agent) In() reflect.Type { return a.spec.In }

// Out returns the output type, or nil when unconstrained.
func (a *Agent) Out() reflect.Type { return a.spec.Out }

// Width returns the number of arena slots the agent's position occupies.
func (a *Agent) Width() int { return a.spec.Width }

// Size returns the number of positions, or Unbounded.
func (a *Agent) Size() int { return a.spec.Size }

// Initial returns the position a fresh run starts from.
func (a *Agent) Initial() State { return a.initial.Clone() }

// Directions returns the inputs accepted at pos.
// A position that does not belong to the agent accepts nothing.
func (a *Agent) Directions(pos State) Directions {
	if !a.Contains(pos) {
		return none{}
	}
	return DirectionsAt(a, pos.slots)
}

// Contains reports whether pos is a position of the agent.
func (a *Agent) Contains(pos State) bool {
	return len(pos.slots) == a.spec.Width && a.spec.Valid(pos.slots)
}

func (a *Agent) String() string { return a.spec.Name }

// TagOf reports how a was constructed.
func TagOf(a *Agent) Tag { return a.spec.Tag }

// Children returns the agents a was composed from.
func Children(a *Agent) []*Agent { return a.spec.Children }

// Concurrent reports whether a parallel composite steps its constituents concurrently.
func Concurrent(a *Agent) bool { return a.spec.Concurrent }

// RestrictionOf returns the context a was restricted to, or "".
func RestrictionOf(a *Agent) string { return a.spec.Restriction }

// SlotTypes returns the Go type stored in each slot (nil = any).
func SlotTypes(a *Agent) []reflect.Type { return a.spec.SlotTypes }

// Init writes a's initial position into slots.
func Init(a *Agent, slots []any) { copy(slots, a.initial.slots) }

// Valid reports whether slots hold a position of a.
func Valid(a *Agent, slots []any) bool {
	return len(slots) == a.spec.Width && a.spec.Valid(slots)
}

// DirectionsAt returns a's directions for the position held in slots.
func DirectionsAt(a *Agent, slots []any) Directions {
	d := a.spec.Directions(slots)
	if d == nil {
		return none{}
	}
	return d
}

// Accepts reports whether in is a valid input of a at slots.
func Accepts(a *Agent, slots []any, in any) bool {
	return AcceptsType(a.spec.In, in) && DirectionsAt(a, slots).Accepts(in)
}

// Advance checks the direction and runs a's transition in place on slots.
// Composites use it for every constituent so violations surface from the
// constituent that rejected the input.
func Advance(ctx context.Context, a *Agent, slots []any, in any) (any, error) {
	if !Accepts(a, slots, in) {
		err := &DirectionViolation{
			Agent:    a.spec.Name,
			Position: State{slots: cloneSlots(slots)},
			Input:    in,
		}
		if a.spec.Reject != nil {
			a.spec.Reject(ctx, slots, in, err)
		}
		return nil, err
	}
	return a.spec.Step(ctx, slots, in)
}

// Invoke runs one transition of a from pos. pos itself is never modified.
func Invoke(ctx context.Context, a *Agent, pos State, in any) (State, any, error) {
	if !a.Contains(pos) {
		return State{}, nil, &ForeignPosition{Agent: a.spec.Name, Position: pos}
	}
	next := pos.Clone()
	out, err := Advance(ctx, a, next.slots, in)
	if err != nil {
		return State{}, nil, err
	}
	return next, out, nil
}

type none struct{}

func (none) Accepts(any) bool { return false }
