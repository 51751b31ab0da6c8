package operad

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOperator is returned when Apply names an operator the registry lacks.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrOperatorExists is returned when a name is registered twice.
	ErrOperatorExists = errors.New("operator already registered")

	// ErrBaseOverride is returned when a domain tries to redefine a base operator.
	ErrBaseOverride = errors.New("base operators cannot be redefined")

	// ErrInvalidOperand is returned when an operand has the wrong role.
	ErrInvalidOperand = errors.New("invalid operand")

	// ErrUncappedFix is returned when fix is built without a positive cap.
	ErrUncappedFix = errors.New("fix requires a positive iteration cap")

	// ErrNoObserver is returned when trace is built without an observer.
	ErrNoObserver = errors.New("trace requires an observer")

	// ErrArityMismatch matches every *ArityMismatch.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrFixNotConverged matches every *FixNotConverged.
	ErrFixNotConverged = errors.New("fix did not converge")
)

// ArityMismatch is returned when an operator receives the wrong operand count.
type ArityMismatch struct {
	Operator string
	Want     int
	Got      int
}

func (e *ArityMismatch) Error() string {
	return fmt.Sprintf("operator %q takes %d operands, got %d", e.Operator, e.Want, e.Got)
}

func (e *ArityMismatch) Is(target error) bool { return target == ErrArityMismatch }

// FixNotConverged is returned when fix exhausts its cap before the predicate holds.
type FixNotConverged struct {
	Agent string
	Cap   int
	Input any
	Last  any
}

func (e *FixNotConverged) Error() string {
	return fmt.Sprintf("%s: no convergence within %d iterations from %v (last output %v)",
		e.Agent, e.Cap, e.Input, e.Last)
}

func (e *FixNotConverged) Is(target error) bool { return target == ErrFixNotConverged }
