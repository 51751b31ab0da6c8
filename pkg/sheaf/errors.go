package sheaf

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownContext is returned when a context is not part of the site.
	ErrUnknownContext = errors.New("unknown context")

	// ErrNoComparator is returned when a check or gluing lacks an equal.Func.
	ErrNoComparator = errors.New("an explicit comparator is required")

	// ErrNoMergeStrategy is returned when Glue is called without a Merge.
	ErrNoMergeStrategy = errors.New("an explicit merge strategy is required")

	// ErrEmptyFamily is returned when Glue receives no local agents.
	ErrEmptyFamily = errors.New("empty family")

	// ErrIncoherentFamily matches every *IncoherentFamily.
	ErrIncoherentFamily = errors.New("incoherent family")

	// ErrMergeConflict matches every *MergeConflict.
	ErrMergeConflict = errors.New("merge conflict")
)

// Conflict describes the first observed disagreement between two local agents
// on their overlap.
type Conflict struct {
	A, B     Context
	Overlap  Context
	Sample   int
	Step     int
	Input    any
	Left     any
	Right    any
	LeftErr  error
	RightErr error
}

func (c *Conflict) String() string {
	return fmt.Sprintf("%q and %q disagree on %q at sample %d step %d, input %v: %s vs %s",
		c.A, c.B, c.Overlap, c.Sample, c.Step, c.Input,
		outcome(c.Left, c.LeftErr), outcome(c.Right, c.RightErr))
}

func outcome(v any, err error) string {
	if err != nil {
		return "error(" + err.Error() + ")"
	}
	return fmt.Sprintf("%v", v)
}

// IncoherentFamily is returned when Glue is asked to glue an incompatible family.
type IncoherentFamily struct {
	Conflict *Conflict
}

func (e *IncoherentFamily) Error() string {
	return "incoherent family: " + e.Conflict.String()
}

func (e *IncoherentFamily) Is(target error) bool { return target == ErrIncoherentFamily }

// GluingFailure is returned when a pairwise compatible family still cannot be
// glued: the glued agent, restricted to Context, behaves differently from the
// family's local agent there.
type GluingFailure struct {
	Context  Context
	Conflict *Conflict
}

func (e *GluingFailure) Error() string {
	c := e.Conflict
	return fmt.Sprintf("gluing fails on %q at sample %d step %d, input %v: %s vs %s",
		e.Context, c.Sample, c.Step, c.Input, outcome(c.Left, c.LeftErr), outcome(c.Right, c.RightErr))
}

// Is matches ErrIncoherentFamily.
func (e *GluingFailure) Is(target error) bool { return target == ErrIncoherentFamily }

// MergeConflict is returned by a glued agent when its merge strategy rejects
// the members' outputs.
type MergeConflict struct {
	Agent         string
	Input         any
	Contributions []Contribution
}

func (e *MergeConflict) Error() string {
	parts := make([]string, len(e.Contributions))
	for i, c := range e.Contributions {
		parts[i] = fmt.Sprintf("%s=%v", c.Context, c.Output)
	}
	return fmt.Sprintf("%s: outputs disagree on input %v: %s", e.Agent, e.Input, strings.Join(parts, ", "))
}

func (e *MergeConflict) Is(target error) bool { return target == ErrMergeConflict }
