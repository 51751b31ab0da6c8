package laws

import (
	"fmt"

	"github.com/aretw0/weave/pkg/operad"
)

// Samples are input traces. Each trace starts from the initial positions.
type Samples [][]any

// Report is the outcome of one law check.
type Report struct {
	Law     operad.Law
	Subject string
	Samples int
	Steps   int
	Failure *Failure
}

// OK reports whether the law held on every sample.
func (r *Report) OK() bool { return r.Failure == nil }

func (r *Report) String() string {
	if r.OK() {
		return fmt.Sprintf("%s %s: ok (%d samples, %d steps)", r.Law, r.Subject, r.Samples, r.Steps)
	}
	return fmt.Sprintf("%s %s: %s", r.Law, r.Subject, r.Failure)
}

// Failure pins the first step where the two sides of a law disagreed.
type Failure struct {
	Sample   int
	Step     int
	Input    any
	Left     any
	Right    any
	LeftErr  error
	RightErr error
}

func (f *Failure) String() string {
	return fmt.Sprintf("sample %d step %d input %v: %s != %s",
		f.Sample, f.Step, f.Input, side(f.Left, f.LeftErr), side(f.Right, f.RightErr))
}

func side(v any, err error) string {
	if err != nil {
		return "error(" + err.Error() + ")"
	}
	return fmt.Sprintf("%v", v)
}
