package weave

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/weave/pkg/observe"
	"github.com/aretw0/weave/pkg/operad"
	"github.com/aretw0/weave/pkg/poly"
	"github.com/aretw0/weave/pkg/ports"
	"github.com/aretw0/weave/pkg/session"
	"github.com/aretw0/weave/pkg/sheaf"
)

// DefaultFixCap bounds fix when neither the engine nor the call sets a cap.
const DefaultFixCap = 64

// Engine is the high-level entry point for the weave library.
// It holds the merged operator catalog and the defaults every composition
// made through it receives.
type Engine struct {
	registry   *operad.Registry
	domains    []*operad.Domain
	logger     *slog.Logger
	observer   observe.Observer
	fixCap     int
	concurrent bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithDomain adds a domain catalog to the engine's registry.
func WithDomain(d *operad.Domain) Option {
	return func(e *Engine) {
		e.domains = append(e.domains, d)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithObserver sets the side channel trace uses when the call names none.
func WithObserver(obs observe.Observer) Option {
	return func(e *Engine) {
		e.observer = obs
	}
}

// WithFixCap sets the iteration cap fix uses when the call names none.
func WithFixCap(n int) Option {
	return func(e *Engine) {
		e.fixCap = n
	}
}

// WithConcurrentPar runs both sides of every par concurrently.
func WithConcurrentPar(on bool) Option {
	return func(e *Engine) {
		e.concurrent = on
	}
}

// New initializes an Engine over the base operators plus any domains.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{fixCap: DefaultFixCap}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.fixCap <= 0 {
		return nil, fmt.Errorf("fix cap must be positive, got %d", eng.fixCap)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	reg, err := operad.Merge(operad.Base(), eng.domains...)
	if err != nil {
		return nil, fmt.Errorf("failed to build operator catalog: %w", err)
	}
	eng.registry = reg
	eng.logger.Debug("engine ready", "operators", len(reg.Names()), "domains", len(eng.domains))
	return eng, nil
}

// Registry returns the merged operator catalog.
func (e *Engine) Registry() *operad.Registry {
	return e.registry
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// Compose applies operator op to operands. Engine defaults come first, so
// options given here override them.
func (e *Engine) Compose(op string, operands []operad.Operand, opts ...operad.Option) (*poly.Agent, error) {
	all := make([]operad.Option, 0, len(opts)+3)
	all = append(all, operad.WithCap(e.fixCap))
	if e.observer != nil {
		all = append(all, operad.WithObserver(e.observer))
	}
	if e.concurrent {
		all = append(all, operad.Concurrently())
	}
	all = append(all, opts...)

	a, err := e.registry.Apply(op, operands, all...)
	if err != nil {
		e.logger.Debug("composition rejected", "operator", op, "err", err)
		return nil, err
	}
	e.logger.Debug("composed", "operator", op, "agent", a.Name(), "width", a.Width())
	return a, nil
}

// Invoke runs one transition of a. Direction violations are logged at debug
// level and returned unchanged.
func (e *Engine) Invoke(ctx context.Context, a *poly.Agent, pos poly.Position, in any) (poly.Position, any, error) {
	next, out, err := poly.Invoke(ctx, a, pos, in)
	if err != nil {
		if errors.Is(err, poly.ErrDirectionViolation) {
			e.logger.Debug("direction violation", "agent", a.Name(), "input", in)
		}
		return pos, nil, err
	}
	return next, out, nil
}

// Sheaf binds a site and its behavioural samples, logging through the engine.
func (e *Engine) Sheaf(site sheaf.Site, samples [][]any) *sheaf.Sheaf {
	return sheaf.New(site, samples, sheaf.WithLogger(e.logger))
}

// Sessions returns a session manager persisting a's positions in store.
func (e *Engine) Sessions(a *poly.Agent, store ports.PositionStore, opts ...session.Option) *session.Manager {
	return session.NewManager(a, store, append([]session.Option{session.WithLogger(e.logger)}, opts...)...)
}
