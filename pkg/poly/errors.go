package poly

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/aretw0/weave/internal/kernel"
)

var (
	// ErrEmptyPositions is returned when an agent is built over an empty position set.
	ErrEmptyPositions = errors.New("empty position set")

	// ErrInitialOutsidePositions is returned when the initial position is not a position.
	ErrInitialOutsidePositions = errors.New("initial position outside position set")

	// ErrNilTransition is returned when an agent is built without a transition.
	ErrNilTransition = errors.New("nil transition")

	// ErrDirectionViolation matches every *DirectionViolation.
	ErrDirectionViolation = kernel.ErrDirectionViolation

	// ErrForeignPosition matches every *ForeignPosition.
	ErrForeignPosition = kernel.ErrForeignPosition

	// ErrTypeMismatch matches every *TypeMismatch.
	ErrTypeMismatch = errors.New("type mismatch")
)

// DirectionViolation carries the agent, position and input that was rejected.
type DirectionViolation = kernel.DirectionViolation

// ForeignPosition carries the agent and the position it did not recognize.
type ForeignPosition = kernel.ForeignPosition

// TypeMismatch is returned at construction time when an output cannot feed an input.
type TypeMismatch struct {
	Operator string
	Left     string
	Right    string
	Out      reflect.Type
	In       reflect.Type
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("%s: type mismatch: %s produces %v but %s accepts %v",
		e.Operator, e.Left, e.Out, e.Right, e.In)
}

func (e *TypeMismatch) Is(target error) bool { return target == ErrTypeMismatch }
