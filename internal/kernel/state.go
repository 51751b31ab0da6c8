package kernel

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// State is an agent position: a flat arena with one slot per leaf.
// The zero State has width 0 and belongs to no agent.
type State struct {
	slots []any
}

// NewState allocates an empty arena of the given width.
func NewState(width int) State {
	return State{slots: make([]any, width)}
}

// FromSlots wraps slots without copying.
func FromSlots(slots []any) State {
	return State{slots: slots}
}

// Width returns the number of slots.
func (s State) Width() int { return len(s.slots) }

// Slot returns the value held in slot i.
func (s State) Slot(i int) any { return s.slots[i] }

// Slots exposes the underlying arena. Callers must not retain or mutate it
// unless they own the State.
func Slots(s State) []any { return s.slots }

// Clone copies the arena.
func (s State) Clone() State {
	return State{slots: cloneSlots(s.slots)}
}

// Window returns the sub-state held in [off, off+width).
func (s State) Window(off, width int) State {
	return State{slots: cloneSlots(s.slots[off : off+width])}
}

func (s State) String() string {
	parts := make([]string, len(s.slots))
	for i, v := range s.slots {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "⟨" + strings.Join(parts, ", ") + "⟩"
}

func cloneSlots(src []any) []any {
	if src == nil {
		return nil
	}
	dst := make([]any, len(src))
	copy(dst, src)
	return dst
}

// Clear empties a window, marking its owner as not live.
func Clear(slots []any) {
	for i := range slots {
		slots[i] = nil
	}
}

// Vacant reports whether every slot is empty.
func Vacant(slots []any) bool {
	for _, v := range slots {
		if v != nil {
			return false
		}
	}
	return true
}

// MulSize multiplies position counts, saturating at Unbounded.
func MulSize(sizes ...int) int {
	total := 1
	for _, s := range sizes {
		if s == Unbounded {
			return Unbounded
		}
		if s != 0 && total > math.MaxInt/s {
			return Unbounded
		}
		total *= s
	}
	return total
}

// AddSize adds position counts, saturating at Unbounded.
func AddSize(sizes ...int) int {
	total := 0
	for _, s := range sizes {
		if s == Unbounded || total > math.MaxInt-s {
			return Unbounded
		}
		total += s
	}
	return total
}

// TypeOf returns the reflect type of T, or nil when T is the empty interface.
func TypeOf[T any]() reflect.Type {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		return nil
	}
	return t
}

// Assignable reports whether values of type from may flow into to.
// nil on either side defers the check to invocation time.
func Assignable(from, to reflect.Type) bool {
	if from == nil || to == nil {
		return true
	}
	return from.AssignableTo(to)
}

// AcceptsType reports whether v is a value of type t.
func AcceptsType(t reflect.Type, v any) bool {
	if t == nil {
		return true
	}
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	return reflect.TypeOf(v).AssignableTo(t)
}

// Common returns the narrowest type both a and b accept, or false when the
// types are incompatible.
func Common(a, b reflect.Type) (reflect.Type, bool) {
	switch {
	case a == nil:
		return b, true
	case b == nil:
		return a, true
	case a == b:
		return a, true
	case a.AssignableTo(b):
		return a, true
	case b.AssignableTo(a):
		return b, true
	}
	return nil, false
}

// As converts v to T, treating a nil v as T's zero value.
func As[T any](v any) (T, bool) {
	t, ok := v.(T)
	if !ok && v == nil {
		var zero T
		return zero, AcceptsType(TypeOf[T](), nil)
	}
	return t, ok
}
