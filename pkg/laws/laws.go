package laws

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/weave/pkg/equal"
	"github.com/aretw0/weave/pkg/operad"
	"github.com/aretw0/weave/pkg/poly"
)

// Associativity checks op(op(x, y), z) ≡ op(x, op(y, z)). Outputs are compared
// after flattening nested pairs, so par is checked up to reassociation.
func Associativity(ctx context.Context, reg *operad.Registry, op string, x, y, z *poly.Agent, samples Samples, eq equal.Func) (*Report, error) {
	xy, err := reg.Apply(op, []operad.Operand{operad.Of(x), operad.Of(y)})
	if err != nil {
		return nil, err
	}
	lhs, err := reg.Apply(op, []operad.Operand{operad.Of(xy), operad.Of(z)})
	if err != nil {
		return nil, err
	}
	yz, err := reg.Apply(op, []operad.Operand{operad.Of(y), operad.Of(z)})
	if err != nil {
		return nil, err
	}
	rhs, err := reg.Apply(op, []operad.Operand{operad.Of(x), operad.Of(yz)})
	if err != nil {
		return nil, err
	}
	rep := &Report{Law: operad.LawAssociativity, Subject: fmt.Sprintf("%s(%s, %s, %s)", op, x.Name(), y.Name(), z.Name())}
	return rep, equivalent(ctx, rep, lhs, rhs, samples, flattened(eq))
}

// Identity checks that the identity agent is a unit of op on a.
//
// For seq both op(id, a) and op(a, id) must behave as a. par has no unit in the
// strict sense: op(id, a) must instead pass the input through on the first
// component and behave as a on the second.
func Identity(ctx context.Context, reg *operad.Registry, op string, a *poly.Agent, samples Samples, eq equal.Func) (*Report, error) {
	operation, ok := reg.Lookup(op)
	if !ok {
		return nil, fmt.Errorf("%w: %q", operad.ErrUnknownOperator, op)
	}
	id, err := reg.Apply("id", nil)
	if err != nil {
		return nil, err
	}
	rep := &Report{Law: operad.LawIdentity, Subject: fmt.Sprintf("%s(id, %s)", op, a.Name())}

	if operation.Kind == operad.KindPar {
		p, err := reg.Apply(op, []operad.Operand{operad.Of(id), operad.Of(a)})
		if err != nil {
			return nil, err
		}
		return rep, projects(ctx, rep, p, id, a, samples, eq)
	}

	left, err := reg.Apply(op, []operad.Operand{operad.Of(id), operad.Of(a)})
	if err != nil {
		return nil, err
	}
	if err := equivalent(ctx, rep, left, a, samples, eq); err != nil || !rep.OK() {
		return rep, err
	}
	right, err := reg.Apply(op, []operad.Operand{operad.Of(a), operad.Of(id)})
	if err != nil {
		return nil, err
	}
	rep.Subject = fmt.Sprintf("%s(%s, id)", op, a.Name())
	return rep, equivalent(ctx, rep, right, a, samples, eq)
}

// Interchange checks seq(par(a1, b1), par(a2, b2)) ≡ par(seq(a1, a2), seq(b1, b2)).
func Interchange(ctx context.Context, reg *operad.Registry, a1, b1, a2, b2 *poly.Agent, samples Samples, eq equal.Func) (*Report, error) {
	apply := func(op string, l, r *poly.Agent) (*poly.Agent, error) {
		return reg.Apply(op, []operad.Operand{operad.Of(l), operad.Of(r)})
	}
	p1, err := apply("par", a1, b1)
	if err != nil {
		return nil, err
	}
	p2, err := apply("par", a2, b2)
	if err != nil {
		return nil, err
	}
	lhs, err := apply("seq", p1, p2)
	if err != nil {
		return nil, err
	}
	s1, err := apply("seq", a1, a2)
	if err != nil {
		return nil, err
	}
	s2, err := apply("seq", b1, b2)
	if err != nil {
		return nil, err
	}
	rhs, err := apply("par", s1, s2)
	if err != nil {
		return nil, err
	}
	rep := &Report{Law: operad.LawInterchange, Subject: fmt.Sprintf("(%s|%s);(%s|%s)", a1.Name(), b1.Name(), a2.Name(), b2.Name())}
	return rep, equivalent(ctx, rep, lhs, rhs, samples, flattened(eq))
}

// Projection checks that the components of par(a, b) equal a and b run alone.
func Projection(ctx context.Context, reg *operad.Registry, a, b *poly.Agent, samples Samples, eq equal.Func) (*Report, error) {
	p, err := reg.Apply("par", []operad.Operand{operad.Of(a), operad.Of(b)})
	if err != nil {
		return nil, err
	}
	rep := &Report{Law: operad.LawProjection, Subject: fmt.Sprintf("par(%s, %s)", a.Name(), b.Name())}
	return rep, projects(ctx, rep, p, a, b, samples, eq)
}

func flattened(eq equal.Func) equal.Func {
	return func(a, b any) bool {
		return slices.EqualFunc(poly.Flatten(a), poly.Flatten(b), eq)
	}
}

func equivalent(ctx context.Context, rep *Report, lhs, rhs *poly.Agent, samples Samples, eq equal.Func) error {
	return replay(ctx, rep, []*poly.Agent{lhs, rhs}, samples,
		func(in any, outs []any, errs []error) bool {
			if errs[0] != nil || errs[1] != nil {
				return errs[0] != nil && errs[1] != nil
			}
			return eq(outs[0], outs[1])
		},
		func(outs []any, errs []error) (any, any, error, error) {
			return outs[0], outs[1], errs[0], errs[1]
		})
}

// projects runs p = par(a, b) next to a and b.
func projects(ctx context.Context, rep *Report, p, a, b *poly.Agent, samples Samples, eq equal.Func) error {
	return replay(ctx, rep, []*poly.Agent{p, a, b}, samples,
		func(in any, outs []any, errs []error) bool {
			alone := errs[1] != nil || errs[2] != nil
			if errs[0] != nil || alone {
				return errs[0] != nil && alone
			}
			pair, ok := outs[0].(poly.Pair)
			return ok && eq(pair.First, outs[1]) && eq(pair.Second, outs[2])
		},
		func(outs []any, errs []error) (any, any, error, error) {
			return outs[0], poly.Pair{First: outs[1], Second: outs[2]}, errs[0], firstErr(errs[1:])
		})
}

// replay runs agents in lockstep over every sample. When any agent fails a
// step, no agent advances, so all of them stay on comparable positions.
func replay(
	ctx context.Context,
	rep *Report,
	agents []*poly.Agent,
	samples Samples,
	agree func(in any, outs []any, errs []error) bool,
	sides func(outs []any, errs []error) (any, any, error, error),
) error {
	rep.Samples = len(samples)
	for si, trace := range samples {
		pos := make([]poly.Position, len(agents))
		for i, a := range agents {
			pos[i] = a.Initial()
		}
		for step, in := range trace {
			if err := ctx.Err(); err != nil {
				return err
			}
			next := make([]poly.Position, len(agents))
			outs := make([]any, len(agents))
			errs := make([]error, len(agents))
			failed := false
			for i, a := range agents {
				next[i], outs[i], errs[i] = poly.Invoke(ctx, a, pos[i], in)
				failed = failed || errs[i] != nil
			}
			rep.Steps++
			if !agree(in, outs, errs) {
				l, r, lerr, rerr := sides(outs, errs)
				rep.Failure = &Failure{Sample: si, Step: step, Input: in, Left: l, Right: r, LeftErr: lerr, RightErr: rerr}
				return nil
			}
			if !failed {
				pos = next
			}
		}
	}
	return nil
}

func firstErr(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
