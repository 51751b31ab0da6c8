package tui

import (
	"io"

	"github.com/muesli/termenv"
)

// Status colors PASS/FAIL labels when w supports color.
type Status struct {
	out *termenv.Output
}

// NewStatus creates a Status writing to w.
func NewStatus(w io.Writer) *Status {
	return &Status{out: termenv.NewOutput(w)}
}

// Pass renders a green PASS label.
func (s *Status) Pass() string {
	return s.out.String("PASS").Foreground(s.out.Color("#22c55e")).Bold().String()
}

// Fail renders a red FAIL label.
func (s *Status) Fail() string {
	return s.out.String("FAIL").Foreground(s.out.Color("#ef4444")).Bold().String()
}

// Muted renders secondary text.
func (s *Status) Muted(text string) string {
	return s.out.String(text).Faint().String()
}
