// Package laws checks the algebraic laws of operad operators on sample traces.
//
// It is offline tooling: nothing in the composition path calls it. Each check
// builds the two sides of a law from the same operands, replays every sample
// trace through both from their initial positions, and compares outputs step by
// step with a caller-supplied equal.Func.
//
//	rep, err := laws.Associativity(ctx, operad.Base(), "seq", double, inc, double,
//		laws.Samples{{1, 2, 3}}, equal.Deep())
//	if err != nil {
//		return err // the sides could not be built
//	}
//	if !rep.OK() {
//		fmt.Println(rep.Failure)
//	}
//
// A step where both sides fail counts as agreement; a step where only one side
// fails is reported as a failure.
package laws
