package operad

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/weave/pkg/poly"
)

// Impl builds the agent of a domain operator from its operands.
type Impl func(operands []Operand, cfg Config) (*poly.Agent, error)

// Operation is a named operator of fixed arity.
type Operation struct {
	Name   string
	Kind   Kind
	Arity  int
	Laws   []Law
	Domain string // empty for base operators
	impl   Impl
}

// Registry is an immutable operator catalog.
type Registry struct {
	ops   map[string]Operation
	order []string
}

var (
	baseOnce sync.Once
	base     *Registry
)

// Base returns the catalog of the six base operators.
func Base() *Registry {
	baseOnce.Do(func() {
		base = newRegistry([]Operation{
			{Name: "id", Kind: KindIdentity, Arity: 0, Laws: []Law{LawIdentity}},
			{Name: "seq", Kind: KindSeq, Arity: 2, Laws: []Law{LawAssociativity, LawIdentity, LawInterchange}},
			{Name: "par", Kind: KindPar, Arity: 2, Laws: []Law{LawAssociativity, LawProjection, LawInterchange}},
			{Name: "branch", Kind: KindBranch, Arity: 3},
			{Name: "fix", Kind: KindFix, Arity: 2},
			{Name: "trace", Kind: KindTrace, Arity: 1, Laws: []Law{LawObservation}},
		})
	})
	return base
}

func newRegistry(ops []Operation) *Registry {
	r := &Registry{ops: make(map[string]Operation, len(ops))}
	for _, op := range ops {
		r.ops[op.Name] = op
		r.order = append(r.order, op.Name)
	}
	return r
}

// Merge returns a registry holding base plus every domain's operators.
// A domain operator may not reuse a base name or another domain's name.
func Merge(base *Registry, domains ...*Domain) (*Registry, error) {
	ops := base.Operations()
	seen := make(map[string]string, len(ops))
	for _, op := range ops {
		seen[op.Name] = op.Domain
	}

	for _, d := range domains {
		for _, op := range d.operations() {
			if owner, ok := seen[op.Name]; ok {
				if owner == "" {
					return nil, fmt.Errorf("domain %q operator %q: %w", d.name, op.Name, ErrBaseOverride)
				}
				return nil, fmt.Errorf("domain %q operator %q (from %q): %w", d.name, op.Name, owner, ErrOperatorExists)
			}
			seen[op.Name] = d.name
			ops = append(ops, op)
		}
	}
	return newRegistry(ops), nil
}

// Lookup finds an operator by name.
func (r *Registry) Lookup(name string) (Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Operations lists the catalog: base operators first, then domain operators
// in registration order.
func (r *Registry) Operations() []Operation {
	out := make([]Operation, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.ops[name])
	}
	return out
}

// Apply builds the agent of operator name over operands.
func (r *Registry) Apply(name string, operands []Operand, opts ...Option) (*poly.Agent, error) {
	op, ok := r.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, name)
	}
	if len(operands) != op.Arity {
		return nil, &ArityMismatch{Operator: name, Want: op.Arity, Got: len(operands)}
	}
	cfg := newConfig(opts)

	switch op.Kind {
	case KindIdentity:
		return identity(cfg), nil
	case KindSeq:
		return seq(name, operands, cfg)
	case KindPar:
		return par(name, operands, cfg)
	case KindBranch:
		return branch(name, operands, cfg)
	case KindFix:
		return fix(name, operands, cfg)
	case KindTrace:
		return traced(name, operands, cfg)
	case KindDomain:
		return op.impl(operands, cfg)
	}
	return nil, fmt.Errorf("operator %q: unhandled kind %s", name, op.Kind)
}

// Domain is a catalog of extra operators contributed by one domain.
type Domain struct {
	name string
	mu   sync.RWMutex
	ops  map[string]Operation
	seq  []string
}

// NewDomain creates an empty domain catalog.
func NewDomain(name string) *Domain {
	return &Domain{
		name: name,
		ops:  make(map[string]Operation),
	}
}

// Name returns the domain's name.
func (d *Domain) Name() string { return d.name }

// Register adds an operator. Base names are rejected here already so
// mistakes surface where the operator is defined.
func (d *Domain) Register(name string, arity int, impl Impl) error {
	if impl == nil {
		return fmt.Errorf("domain %q operator %q: nil implementation", d.name, name)
	}
	if arity < 0 {
		return fmt.Errorf("domain %q operator %q: negative arity %d", d.name, name, arity)
	}
	if _, ok := Base().Lookup(name); ok {
		return fmt.Errorf("domain %q operator %q: %w", d.name, name, ErrBaseOverride)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.ops[name]; ok {
		return fmt.Errorf("domain %q operator %q: %w", d.name, name, ErrOperatorExists)
	}
	d.ops[name] = Operation{Name: name, Kind: KindDomain, Arity: arity, Domain: d.name, impl: impl}
	d.seq = append(d.seq, name)
	return nil
}

func (d *Domain) operations() []Operation {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Operation, 0, len(d.seq))
	for _, name := range d.seq {
		out = append(out, d.ops[name])
	}
	return out
}

// Names returns the operator names of the catalog, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
