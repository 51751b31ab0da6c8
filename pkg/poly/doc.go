/*
Package poly is the polynomial agent core.

A polynomial agent is a state machine whose valid inputs depend on where it is:

  - positions: the set of internal states the agent can be in;
  - directions(position): the inputs it accepts while in that position;
  - transition(position, input) -> (next position, output).

Agents are immutable once built. The only thing that changes between invocations
is the Position value held by the caller, which Invoke never mutates in place.

# Construction

	double := poly.Lift("double", func(x int) int { return x * 2 })

	counter, err := poly.New("counter", 0, poly.Interval(0, 10),
		func(n int) poly.Directions {
			if n == 10 {
				return poly.None() // stuck: nothing is accepted at the top
			}
			return poly.All[int]()
		},
		func(ctx context.Context, n, step int) (int, int, error) {
			return min(n+step, 10), n, nil
		})

# Invocation

	pos, out, err := poly.Invoke(ctx, double, double.Initial(), 3)

Invoke fails with a *DirectionViolation when the input is not in
directions(position). Composite agents are built through package operad.
*/
package poly
