package sheaf

import (
	"context"
	"fmt"

	"github.com/aretw0/weave/internal/kernel"
	"github.com/aretw0/weave/pkg/poly"
)

// Restrict projects a onto ctx: the result accepts only inputs that are both
// directions of a and in ctx's domain, and otherwise behaves exactly as a.
// Restricting an agent that is already restricted to ctx returns it unchanged.
func Restrict(s Site, a *poly.Agent, ctx Context) (*poly.Agent, error) {
	domain, ok := s.Domain(ctx)
	if !ok {
		return nil, fmt.Errorf("restrict %s: %w: %q", a.Name(), ErrUnknownContext, ctx)
	}
	if kernel.RestrictionOf(a) == string(ctx) {
		return a, nil
	}
	return kernel.Build(kernel.Spec{
		Name:      fmt.Sprintf("%s|%s", a.Name(), ctx),
		Tag:       kernel.TagRestrict,
		Children:  []*kernel.Agent{a},
		In:        a.In(),
		Out:       a.Out(),
		Width:     a.Width(),
		Size:      a.Size(),
		SlotTypes: kernel.SlotTypes(a),
		Init:      func(slots []any) { kernel.Init(a, slots) },
		Valid:     func(slots []any) bool { return kernel.Valid(a, slots) },
		Directions: func(slots []any) kernel.Directions {
			return poly.Intersect(kernel.DirectionsAt(a, slots), domain)
		},
		Step: func(ctx context.Context, slots []any, in any) (any, error) {
			return kernel.Advance(ctx, a, slots, in)
		},
		Restriction: string(ctx),
	}), nil
}
