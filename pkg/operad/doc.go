/*
Package operad is the composition grammar for polynomial agents.

The base catalog holds six operators, each with a fixed arity:

	id      0  pass-through agent, unit of seq
	seq     2  run a, feed its output into b
	par     2  run a and b on the same input, pair the outputs
	branch  3  a predicate on the input picks a or b for each step
	fix     2  apply a until a predicate holds on the output, up to a cap
	trace   1  run a and report every transition to an observer

Base operators satisfy associativity (seq, par, up to position-space
isomorphism), identity (seq) and interchange between seq and par. Domain
catalogs add operators through a Domain and are merged with the base catalog
once, at startup:

	units := operad.NewDomain("units")
	_ = units.Register("convert", 1, convertImpl)

	reg, err := operad.Merge(operad.Base(), units)

Base operators can never be redefined. Registry is immutable and safe for
concurrent use.
*/
package operad
