package sheaf

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"

	"github.com/aretw0/weave/internal/kernel"
	"github.com/aretw0/weave/internal/logging"
	"github.com/aretw0/weave/pkg/equal"
	"github.com/aretw0/weave/pkg/poly"
)

// Family assigns a local agent to each context.
type Family map[Context]*poly.Agent

// Contexts returns the family's contexts, sorted.
func (f Family) Contexts() []Context {
	cs := make([]Context, 0, len(f))
	for c := range f {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i] < cs[j] })
	return cs
}

// Sheaf checks and glues families over a site. Restrictions are compared by
// replaying its sample traces.
type Sheaf struct {
	site    Site
	samples [][]any
	logger  *slog.Logger
}

// Option configures a Sheaf.
type Option func(*Sheaf)

// WithLogger configures a logger for gluing decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sheaf) {
		s.logger = logger
	}
}

// New creates a sheaf over site. samples are the input traces that decide
// whether two restrictions are equal.
func New(site Site, samples [][]any, opts ...Option) *Sheaf {
	s := &Sheaf{
		site:    site,
		samples: samples,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Site returns the sheaf's site.
func (s *Sheaf) Site() Site { return s.site }

// Restrict projects a onto ctx over the sheaf's site.
func (s *Sheaf) Restrict(a *poly.Agent, ctx Context) (*poly.Agent, error) {
	return Restrict(s.site, a, ctx)
}

// Agrees compares a and b restricted to on. It returns the first
// disagreement, or nil when both behave identically on every sample input in
// on's domain. Steps where both restrictions fail count as agreement.
func (s *Sheaf) Agrees(ctx context.Context, a, b *poly.Agent, on Context, eq equal.Func) (*Conflict, error) {
	if eq == nil {
		return nil, ErrNoComparator
	}
	domain, ok := s.site.Domain(on)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContext, on)
	}
	ra, err := Restrict(s.site, a, on)
	if err != nil {
		return nil, err
	}
	rb, err := Restrict(s.site, b, on)
	if err != nil {
		return nil, err
	}

	for si, trace := range s.samples {
		pa, pb := ra.Initial(), rb.Initial()
		for step, in := range trace {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !domain.Accepts(in) {
				continue
			}
			na, oa, ea := poly.Invoke(ctx, ra, pa, in)
			nb, ob, eb := poly.Invoke(ctx, rb, pb, in)
			switch {
			case ea != nil && eb != nil:
				continue
			case ea != nil || eb != nil || !eq(oa, ob):
				return &Conflict{
					Overlap: on, Sample: si, Step: step, Input: in,
					Left: oa, Right: ob, LeftErr: ea, RightErr: eb,
				}, nil
			}
			pa, pb = na, nb
		}
	}
	return nil, nil
}

// Compatible checks every pair of contexts with an overlap, in sorted order,
// and stops at the first pair that disagrees. A nil Conflict means the family
// is compatible.
func (s *Sheaf) Compatible(ctx context.Context, family Family, eq equal.Func) (*Conflict, error) {
	if eq == nil {
		return nil, ErrNoComparator
	}
	cs := family.Contexts()
	for _, c := range cs {
		if _, ok := s.site.Domain(c); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownContext, c)
		}
	}
	for i, a := range cs {
		for _, b := range cs[i+1:] {
			on, ok := s.site.Overlap(a, b)
			if !ok {
				continue
			}
			conflict, err := s.Agrees(ctx, family[a], family[b], on, eq)
			if err != nil {
				return nil, err
			}
			if conflict != nil {
				conflict.A, conflict.B = a, b
				s.logger.Debug("family incompatible", "conflict", conflict.String())
				return conflict, nil
			}
		}
	}
	return nil, nil
}

// Glue builds the global agent of a compatible family.
//
// An incompatible family fails with *IncoherentFamily. A one-context family
// glues to its agent unchanged. Members whose context is entirely covered by
// another member's (their overlap is the member's own context) add no
// behaviour and are left out, so the glued agent carries the fewest positions.
//
// Before returning, the glued agent restricted to each context of the family
// is replayed against that context's local agent over the samples, with every
// accepting member required to agree. Members can drift apart on inputs only
// one of them sees; when that shows up on a later shared input, Glue fails
// with *GluingFailure.
func (s *Sheaf) Glue(ctx context.Context, family Family, merge *Merge, eq equal.Func) (*poly.Agent, error) {
	if len(family) == 0 {
		return nil, ErrEmptyFamily
	}
	if eq == nil {
		return nil, ErrNoComparator
	}
	if merge == nil || merge.fn == nil {
		return nil, ErrNoMergeStrategy
	}
	conflict, err := s.Compatible(ctx, family, eq)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, &IncoherentFamily{Conflict: conflict}
	}
	if len(family) == 1 {
		for _, a := range family {
			return a, nil
		}
	}

	members := s.minimal(family)
	if len(members) == 1 {
		g, err := Restrict(s.site, family[members[0]], members[0])
		if err != nil {
			return nil, err
		}
		if err := s.verify(ctx, family, g, eq); err != nil {
			return nil, err
		}
		return g, nil
	}
	locals := make([]*poly.Agent, len(members))
	for i, c := range members {
		r, err := Restrict(s.site, family[c], c)
		if err != nil {
			return nil, err
		}
		locals[i] = r
	}
	s.logger.Debug("gluing family", "members", members, "merge", merge.Name())
	if err := s.verify(ctx, family, glued(members, locals, Unanimous(nil), eq), eq); err != nil {
		return nil, err
	}
	return glued(members, locals, merge, eq), nil
}

// verify checks restrict(g, c) against family[c] for every context.
func (s *Sheaf) verify(ctx context.Context, family Family, g *poly.Agent, eq equal.Func) error {
	for _, c := range family.Contexts() {
		conflict, err := s.Agrees(ctx, g, family[c], c, eq)
		if err != nil {
			return err
		}
		if conflict != nil {
			conflict.A, conflict.B = Context(g.Name()), c
			s.logger.Debug("gluing law fails", "context", c, "conflict", conflict.String())
			return &GluingFailure{Context: c, Conflict: conflict}
		}
	}
	return nil
}

func (s *Sheaf) minimal(family Family) []Context {
	cs := family.Contexts()
	var keep []Context
	for _, c := range cs {
		redundant := false
		for _, d := range cs {
			if m, ok := s.site.Overlap(c, d); ok && d != c && m == c {
				redundant = true
				break
			}
		}
		if redundant {
			s.logger.Debug("dropping covered context", "context", c)
			continue
		}
		keep = append(keep, c)
	}
	if len(keep) == 0 {
		// Cyclic covering declarations: keep everyone.
		return cs
	}
	return keep
}

// glued lays the members' positions side by side in sorted context order.
func glued(members []Context, locals []*poly.Agent, merge *Merge, eq equal.Func) *poly.Agent {
	names := make([]string, len(members))
	offsets := make([]int, len(members))
	var (
		width     int
		sizes     []int
		slotTypes []reflect.Type
	)
	for i, a := range locals {
		names[i] = string(members[i])
		offsets[i] = width
		width += a.Width()
		sizes = append(sizes, a.Size())
		slotTypes = append(slotTypes, kernel.SlotTypes(a)...)
	}
	window := func(slots []any, i int) []any {
		return slots[offsets[i] : offsets[i]+locals[i].Width()]
	}

	in := locals[0].In()
	for _, a := range locals[1:] {
		t, ok := kernel.Common(in, a.In())
		if !ok {
			in = nil
			break
		}
		in = t
	}
	var out reflect.Type
	if merge.keepsType {
		out = locals[0].Out()
		for _, a := range locals[1:] {
			if a.Out() != out {
				out = nil
				break
			}
		}
	}

	name := "glue(" + strings.Join(names, ", ") + ")"
	return kernel.Build(kernel.Spec{
		Name:      name,
		Tag:       kernel.TagGlue,
		Children:  locals,
		In:        in,
		Out:       out,
		Width:     width,
		Size:      kernel.MulSize(sizes...),
		SlotTypes: slotTypes,
		Init: func(slots []any) {
			for i, a := range locals {
				kernel.Init(a, window(slots, i))
			}
		},
		Valid: func(slots []any) bool {
			for i, a := range locals {
				if !kernel.Valid(a, window(slots, i)) {
					return false
				}
			}
			return true
		},
		Directions: func(slots []any) kernel.Directions {
			return poly.DirectionFunc(func(x any) bool {
				for i, a := range locals {
					if kernel.Accepts(a, window(slots, i), x) {
						return true
					}
				}
				return false
			})
		},
		Step: func(ctx context.Context, slots []any, x any) (any, error) {
			var cs []Contribution
			for i, a := range locals {
				w := window(slots, i)
				if !kernel.Accepts(a, w, x) {
					continue
				}
				out, err := kernel.Advance(ctx, a, w, x)
				if err != nil {
					return nil, fmt.Errorf("%s: context %q: %w", name, members[i], err)
				}
				cs = append(cs, Contribution{Context: members[i], Output: out})
			}
			return merge.fn(name, x, cs, eq)
		},
	})
}
