package arbor

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/noise"
)

// Version is the library and CLI version.
const Version = "0.4.0"

// DepthMode selects how Construct measures bracket nesting.
type DepthMode = runtime.DepthMode

const (
	// DepthResetOnClose resets the counter on every ']' (compatible default).
	DepthResetOnClose = runtime.DepthResetOnClose
	// DepthRunningMax reports the true maximum nesting.
	DepthRunningMax = runtime.DepthRunningMax
)

// ParseDepthMode accepts the String form of a DepthMode. The empty string
// selects the default.
func ParseDepthMode(s string) (DepthMode, error) {
	switch s {
	case "", DepthResetOnClose.String():
		return DepthResetOnClose, nil
	case DepthRunningMax.String():
		return DepthRunningMax, nil
	}
	return DepthResetOnClose, fmt.Errorf("unknown depth mode %q", s)
}

// MaxSelectionAttempts is how many draws a predicate-gated rule selection
// makes before falling back to the first rule.
const MaxSelectionAttempts = runtime.MaxSelectionAttempts

// Grammar is the high-level entry point for the arbor library.
// It wraps the internal runtime and provides a chainable setup API.
//
// A Grammar has a single owner. Process may be called repeatedly (each call
// gets its own scope and turtle) but Construct must not overlap any other call.
type Grammar struct {
	runtime *runtime.Engine
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	noise   noise.Source
	depth   DepthMode
	Name    string
}

// Option defines a functional option for configuring the Grammar.
type Option func(*Grammar)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Grammar) {
		g.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Grammar) {
		g.hooks = g.hooks.Merge(hooks)
	}
}

// WithNoise injects the noise source used for rule selection and exposed to handlers.
// The default is white noise seeded with the grammar seed.
func WithNoise(src noise.Source) Option {
	return func(g *Grammar) {
		g.noise = src
	}
}

// WithDepthMode selects the max depth metric.
func WithDepthMode(mode DepthMode) Option {
	return func(g *Grammar) {
		g.depth = mode
	}
}

// WithName labels the grammar in logs.
func WithName(name string) Option {
	return func(g *Grammar) {
		g.Name = name
	}
}

// New creates a grammar for the given seed.
// The '[' and ']' symbols are pre-registered to save and restore the turtle.
func New(seed int64, opts ...Option) *Grammar {
	g := &Grammar{}
	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if g.Name != "" {
		g.logger = g.logger.With("grammar", g.Name)
	}

	g.runtime = runtime.NewEngine(seed,
		runtime.WithLogger(g.logger),
		runtime.WithLifecycleHooks(g.hooks),
		runtime.WithNoise(g.noise),
		runtime.WithDepthMode(g.depth),
	)
	return g
}

// SetAxiom stores the axiom and resets the working sequence to it.
func (g *Grammar) SetAxiom(axiom string) *Grammar {
	g.runtime.SetAxiom(axiom)
	return g
}

// AddSymbol registers or overwrites the action for r.
func (g *Grammar) AddSymbol(r rune, action domain.Action, args ...any) *Grammar {
	g.runtime.AddSymbol(r, action, args...)
	return g
}

// AddRule appends a production with weight 1. predicate may be nil.
func (g *Grammar) AddRule(src rune, expansion string, predicate domain.Predicate) *Grammar {
	g.runtime.AddRule(src, expansion, predicate)
	return g
}

// AddWeightedRule appends a production with an explicit weight. predicate may be nil.
func (g *Grammar) AddWeightedRule(src rune, expansion string, weight float64, predicate domain.Predicate) *Grammar {
	g.runtime.AddWeightedRule(src, expansion, weight, predicate)
	return g
}

// Construct rewrites the working sequence for the given number of generations
// and computes its max depth. constraint is handed to rule predicates.
func (g *Grammar) Construct(iterations int, constraint any) error {
	return g.runtime.Construct(iterations, constraint)
}

// Process executes the sequence once against a fresh scope carrying payload.
// The returned scope reflects the state at the end of the pass (or at the
// failing symbol when an error is returned).
func (g *Grammar) Process(payload any) (*domain.Scope, error) {
	return g.runtime.Process(payload)
}

// Run constructs and then processes.
func (g *Grammar) Run(iterations int, constraint, payload any) (*domain.Scope, error) {
	if err := g.Construct(iterations, constraint); err != nil {
		return nil, err
	}
	return g.Process(payload)
}

// Seed returns the grammar seed.
func (g *Grammar) Seed() int64 { return g.runtime.Seed() }

// Axiom returns the literal axiom.
func (g *Grammar) Axiom() string { return g.runtime.Axiom() }

// Sequence returns the current working sequence.
func (g *Grammar) Sequence() string { return g.runtime.Sequence() }

// MaxDepth returns the depth metric of the last Construct.
func (g *Grammar) MaxDepth() int { return g.runtime.MaxDepth() }

// Noise returns the grammar's noise source.
func (g *Grammar) Noise() noise.Source { return g.runtime.Noise() }

// RuleSets returns the rule sets in insertion order.
func (g *Grammar) RuleSets() []*domain.RuleSet { return g.runtime.RuleSets() }

// Symbols returns the registered symbols ordered by rune.
func (g *Grammar) Symbols() []domain.Symbol { return g.runtime.Symbols() }
