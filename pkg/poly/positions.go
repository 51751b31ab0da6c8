package poly

// Positions is a possibly intensional set of positions.
type Positions[S any] interface {
	Contains(pos S) bool
	// Len returns the number of positions, or Unbounded.
	Len() int
}

type finite[S comparable] map[S]struct{}

// Finite is the set holding exactly ps.
func Finite[S comparable](ps ...S) Positions[S] {
	set := make(finite[S], len(ps))
	for _, p := range ps {
		set[p] = struct{}{}
	}
	return set
}

func (f finite[S]) Contains(pos S) bool {
	_, ok := f[pos]
	return ok
}

func (f finite[S]) Len() int { return len(f) }

type unit struct{}

// Unit is the one-position set used by lifted functions.
func Unit() Positions[struct{}] { return unit{} }

func (unit) Contains(struct{}) bool { return true }
func (unit) Len() int               { return 1 }

type where[S any] func(S) bool

// Where describes an unbounded set by membership.
func Where[S any](member func(S) bool) Positions[S] { return where[S](member) }

func (w where[S]) Contains(pos S) bool { return w(pos) }
func (w where[S]) Len() int            { return Unbounded }

type interval struct{ lo, hi int }

// Interval is the integer range [lo, hi]; it is empty when hi < lo.
func Interval(lo, hi int) Positions[int] { return interval{lo: lo, hi: hi} }

func (r interval) Contains(pos int) bool { return pos >= r.lo && pos <= r.hi }

func (r interval) Len() int {
	if r.hi < r.lo {
		return 0
	}
	return r.hi - r.lo + 1
}

// Unconstrained accepts every value of S.
func Unconstrained[S any]() Positions[S] {
	return Where(func(S) bool { return true })
}
