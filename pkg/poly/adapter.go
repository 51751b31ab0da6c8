package poly

import (
	"fmt"
	"reflect"

	"github.com/aretw0/weave/internal/kernel"
)

// Adapter maps one agent's output type onto another agent's input type.
type Adapter struct {
	name string
	in   reflect.Type
	out  reflect.Type
	fn   func(any) (any, error)
}

// Adapt builds an Adapter from a total function.
func Adapt[B, C any](name string, f func(B) C) *Adapter {
	return AdaptE(name, func(b B) (C, error) { return f(b), nil })
}

// AdaptE builds an Adapter from a fallible function.
func AdaptE[B, C any](name string, f func(B) (C, error)) *Adapter {
	return &Adapter{
		name: name,
		in:   kernel.TypeOf[B](),
		out:  kernel.TypeOf[C](),
		fn: func(v any) (any, error) {
			b, ok := kernel.As[B](v)
			if !ok {
				return nil, fmt.Errorf("adapter %q: cannot convert %T", name, v)
			}
			return f(b)
		},
	}
}

// Name returns the adapter's label.
func (a *Adapter) Name() string { return a.name }

// In returns the type the adapter consumes (nil = any).
func (a *Adapter) In() reflect.Type { return a.in }

// Out returns the type the adapter produces (nil = any).
func (a *Adapter) Out() reflect.Type { return a.out }

// Apply converts v.
func (a *Adapter) Apply(v any) (any, error) { return a.fn(v) }
