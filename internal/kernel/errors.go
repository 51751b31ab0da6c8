package kernel

import (
	"errors"
	"fmt"
)

// ErrDirectionViolation is the category of every DirectionViolation.
var ErrDirectionViolation = errors.New("direction violation")

// ErrForeignPosition is the category of every ForeignPosition.
var ErrForeignPosition = errors.New("position does not belong to agent")

// DirectionViolation is returned when an input is outside directions(position).
type DirectionViolation struct {
	Agent    string
	Position State
	Input    any
}

func (e *DirectionViolation) Error() string {
	return fmt.Sprintf("direction violation: agent %q does not accept %v (%T) at position %s",
		e.Agent, e.Input, e.Input, e.Position)
}

func (e *DirectionViolation) Is(target error) bool { return target == ErrDirectionViolation }

// ForeignPosition is returned when a position was not produced by the agent
// it is presented to, or a transition leaves the position set.
type ForeignPosition struct {
	Agent    string
	Position State
}

func (e *ForeignPosition) Error() string {
	return fmt.Sprintf("agent %q: position %s is not one of its positions", e.Agent, e.Position)
}

func (e *ForeignPosition) Is(target error) bool { return target == ErrForeignPosition }
