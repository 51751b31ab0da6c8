package poly

import "reflect"

// Pair is the output of a parallel composite: First from the left agent,
// Second from the right one.
type Pair struct {
	First  any
	Second any
}

// PairType is the reflect type of Pair.
var PairType = reflect.TypeOf(Pair{})

// Flatten reassociates nested pairs into a flat tuple, left to right.
// Non-pair values flatten to a one-element tuple.
func Flatten(v any) []any {
	p, ok := v.(Pair)
	if !ok {
		return []any{v}
	}
	return append(Flatten(p.First), Flatten(p.Second)...)
}
