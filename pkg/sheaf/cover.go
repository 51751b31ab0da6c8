package sheaf

import (
	"fmt"
	"sort"

	"github.com/aretw0/weave/pkg/poly"
)

// Context labels an observation viewpoint.
type Context string

// Site is the context structure a sheaf lives on.
type Site interface {
	// Domain returns the inputs observable from c.
	Domain(c Context) (poly.Directions, bool)
	// Overlap returns the context where a and b intersect, if any.
	Overlap(a, b Context) (Context, bool)
}

// Cover builds a Site from declared contexts and their meets.
type Cover struct {
	domains map[Context]poly.Directions
	meets   []meet
}

type meet struct{ a, b, m Context }

// NewCover starts an empty cover.
func NewCover() *Cover {
	return &Cover{domains: make(map[Context]poly.Directions)}
}

// Add declares context c with the given input domain.
func (c *Cover) Add(ctx Context, domain poly.Directions) *Cover {
	c.domains[ctx] = domain
	return c
}

// Meet declares that a and b intersect at m. The domain of m is expected to be
// contained in both a's and b's; m is also the overlap of m with either side.
func (c *Cover) Meet(a, b, m Context) *Cover {
	c.meets = append(c.meets, meet{a: a, b: b, m: m})
	return c
}

// Build validates the cover and freezes it.
func (c *Cover) Build() (Site, error) {
	s := &site{
		domains:  make(map[Context]poly.Directions, len(c.domains)),
		overlaps: make(map[[2]Context]Context),
	}
	for ctx, d := range c.domains {
		if d == nil {
			return nil, fmt.Errorf("context %q: nil domain", ctx)
		}
		s.domains[ctx] = d
		s.contexts = append(s.contexts, ctx)
	}
	sort.Slice(s.contexts, func(i, j int) bool { return s.contexts[i] < s.contexts[j] })

	for _, m := range c.meets {
		for _, ctx := range []Context{m.a, m.b, m.m} {
			if _, ok := s.domains[ctx]; !ok {
				return nil, fmt.Errorf("meet %s∧%s=%s: %w: %q", m.a, m.b, m.m, ErrUnknownContext, ctx)
			}
		}
		s.set(m.a, m.b, m.m)
		s.set(m.a, m.m, m.m)
		s.set(m.b, m.m, m.m)
	}
	return s, nil
}

type site struct {
	domains  map[Context]poly.Directions
	overlaps map[[2]Context]Context
	contexts []Context
}

func key(a, b Context) [2]Context {
	if b < a {
		a, b = b, a
	}
	return [2]Context{a, b}
}

func (s *site) set(a, b, m Context) {
	if a != b {
		s.overlaps[key(a, b)] = m
	}
}

func (s *site) Domain(c Context) (poly.Directions, bool) {
	d, ok := s.domains[c]
	return d, ok
}

func (s *site) Overlap(a, b Context) (Context, bool) {
	if a == b {
		_, ok := s.domains[a]
		return a, ok
	}
	m, ok := s.overlaps[key(a, b)]
	return m, ok
}

// Contexts lists the contexts of a site built by Cover, sorted.
func Contexts(s Site) []Context {
	if cs, ok := s.(*site); ok {
		return append([]Context(nil), cs.contexts...)
	}
	return nil
}
