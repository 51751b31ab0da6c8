package demo

import (
	"github.com/aretw0/weave/pkg/observe"
	"github.com/aretw0/weave/pkg/operad"
	"github.com/aretw0/weave/pkg/poly"
)

// Pipeline repeats double-then-increment until the value reaches 100.
// With obs set both leaves report their transitions to it.
func Pipeline(obs observe.Observer, limit int) (*poly.Agent, error) {
	double, inc := Double(), Increment()
	if obs != nil {
		var err error
		if double, err = operad.Trace(double, obs); err != nil {
			return nil, err
		}
		if inc, err = operad.Trace(inc, obs); err != nil {
			return nil, err
		}
	}
	step, err := operad.Seq(double, inc)
	if err != nil {
		return nil, err
	}
	return operad.Fix(AtLeast(100), step, limit, operad.WithName("pipeline"))
}
