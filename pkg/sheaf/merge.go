package sheaf

import (
	"github.com/aretw0/weave/pkg/equal"
)

// Contribution is one member's output for a dispatched input.
type Contribution struct {
	Context Context
	Output  any
}

// Merge combines the outputs of every member that accepted an input.
// Contributions arrive in sorted context order and are never empty.
type Merge struct {
	name string
	// keepsType is set when the merged output has the members' output type.
	keepsType bool
	fn        func(agent string, in any, cs []Contribution, eq equal.Func) (any, error)
}

// Name returns the strategy's label.
func (m *Merge) Name() string { return m.name }

// FirstMatch returns the output of the first accepting context.
func FirstMatch() *Merge {
	return &Merge{
		name:      "first-match",
		keepsType: true,
		fn: func(_ string, _ any, cs []Contribution, _ equal.Func) (any, error) {
			return cs[0].Output, nil
		},
	}
}

// Unanimous requires every accepting context to produce an equal output and
// fails with a *MergeConflict otherwise. A nil eq uses the gluing comparator.
func Unanimous(eq equal.Func) *Merge {
	return &Merge{
		name:      "unanimous",
		keepsType: true,
		fn: func(agent string, in any, cs []Contribution, glueEq equal.Func) (any, error) {
			cmp := eq
			if cmp == nil {
				cmp = glueEq
			}
			for _, c := range cs[1:] {
				if !cmp(cs[0].Output, c.Output) {
					return nil, &MergeConflict{Agent: agent, Input: in, Contributions: cs}
				}
			}
			return cs[0].Output, nil
		},
	}
}

// Collect returns every output keyed by context, as map[Context]any.
func Collect() *Merge {
	return &Merge{
		name: "collect",
		fn: func(_ string, _ any, cs []Contribution, _ equal.Func) (any, error) {
			out := make(map[Context]any, len(cs))
			for _, c := range cs {
				out[c.Context] = c.Output
			}
			return out, nil
		},
	}
}

// MergeFunc wraps a custom strategy. Its output type is left unconstrained.
func MergeFunc(name string, fn func(in any, cs []Contribution) (any, error)) *Merge {
	if fn == nil {
		return nil
	}
	return &Merge{
		name: name,
		fn: func(_ string, in any, cs []Contribution, _ equal.Func) (any, error) {
			return fn(in, cs)
		},
	}
}
