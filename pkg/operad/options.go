package operad

import (
	"github.com/aretw0/weave/pkg/observe"
	"github.com/aretw0/weave/pkg/poly"
)

// Config carries the per-application settings of an operator.
type Config struct {
	Name       string
	Adapter    *poly.Adapter
	Cap        int
	Observer   observe.Observer
	Concurrent bool
}

// Option defines a functional option for an operator application.
type Option func(*Config)

// WithName labels the resulting agent.
func WithName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}

// WithAdapter sets the seq adapter from the left output to the right input.
func WithAdapter(a *poly.Adapter) Option {
	return func(c *Config) {
		c.Adapter = a
	}
}

// WithCap bounds the iterations of fix.
func WithCap(n int) Option {
	return func(c *Config) {
		c.Cap = n
	}
}

// WithObserver sets the side channel of trace.
func WithObserver(o observe.Observer) Option {
	return func(c *Config) {
		c.Observer = o
	}
}

// Concurrently runs both sides of par in their own goroutine.
func Concurrently() Option {
	return func(c *Config) {
		c.Concurrent = true
	}
}

func newConfig(opts []Option) Config {
	var c Config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
