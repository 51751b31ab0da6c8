// Package equal provides the comparison functions law checks and sheaf gluing
// take explicitly. No comparison is ever assumed.
package equal

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Func reports whether two outputs are equal.
type Func func(a, b any) bool

// exportAll lets cmp read unexported fields, which it otherwise panics on.
// Agent outputs are often values of unexported types from other packages.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// Deep compares with cmp.Equal under opts. Unexported struct fields are
// compared like exported ones; pass cmpopts.IgnoreUnexported to skip them.
func Deep(opts ...cmp.Option) Func {
	opts = append([]cmp.Option{exportAll}, opts...)
	return func(a, b any) bool {
		return cmp.Equal(a, b, opts...)
	}
}

// Approx treats floats within the relative fraction or absolute margin as equal.
func Approx(fraction, margin float64) Func {
	return Deep(cmpopts.EquateApprox(fraction, margin), cmpopts.EquateNaNs())
}

// Diff returns a human readable difference, empty when a and b are equal
// under opts.
func Diff(a, b any, opts ...cmp.Option) string {
	return cmp.Diff(a, b, append([]cmp.Option{exportAll}, opts...)...)
}
