package poly

import "github.com/aretw0/weave/internal/kernel"

// Directions is the set of inputs valid at one position.
type Directions = kernel.Directions

// DirectionFunc adapts a membership test to Directions.
type DirectionFunc func(in any) bool

// Accepts implements Directions.
func (f DirectionFunc) Accepts(in any) bool { return f(in) }

// All accepts every value of type A.
func All[A any]() Directions {
	return DirectionFunc(func(in any) bool {
		_, ok := kernel.As[A](in)
		return ok
	})
}

// Anything accepts every input.
func Anything() Directions {
	return DirectionFunc(func(any) bool { return true })
}

// None accepts nothing. A position whose directions are None is stuck.
func None() Directions {
	return DirectionFunc(func(any) bool { return false })
}

// OneOf accepts exactly the listed values.
func OneOf[A comparable](values ...A) Directions {
	set := make(map[A]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return DirectionFunc(func(in any) bool {
		a, ok := in.(A)
		if !ok {
			return false
		}
		_, ok = set[a]
		return ok
	})
}

// Accept accepts values of type A satisfying pred.
func Accept[A any](pred func(A) bool) Directions {
	return DirectionFunc(func(in any) bool {
		a, ok := kernel.As[A](in)
		return ok && pred(a)
	})
}

// Union accepts what any of ds accepts.
func Union(ds ...Directions) Directions {
	return DirectionFunc(func(in any) bool {
		for _, d := range ds {
			if d.Accepts(in) {
				return true
			}
		}
		return false
	})
}

// Intersect accepts what all of ds accept.
func Intersect(ds ...Directions) Directions {
	return DirectionFunc(func(in any) bool {
		for _, d := range ds {
			if !d.Accepts(in) {
				return false
			}
		}
		return true
	})
}
