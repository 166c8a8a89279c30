package runtime

import (
	"io"
	"log/slog"
	"sort"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/noise"
)

// DepthMode selects how construct measures bracket nesting.
type DepthMode int

const (
	// DepthResetOnClose resets the running counter on every ']'.
	// It can under-report nesting after sibling branches and is kept for
	// compatibility with existing outputs.
	DepthResetOnClose DepthMode = iota
	// DepthRunningMax tracks the true maximum nesting of balanced brackets.
	DepthRunningMax
)

// String implements fmt.Stringer.
func (m DepthMode) String() string {
	switch m {
	case DepthRunningMax:
		return "running-max"
	default:
		return "reset-on-close"
	}
}

// Engine is the grammar and its rewriting state.
// It is owned by a single caller: construct must not run concurrently with
// any other call on the same engine.
type Engine struct {
	seed      int64
	symbols   map[rune]*domain.Symbol
	rules     map[rune]*domain.RuleSet
	ruleOrder []rune

	axiom    string
	sequence []rune
	maxDepth int

	noise     noise.Source
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	depthMode DepthMode
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithNoise replaces the default white noise source.
func WithNoise(src noise.Source) EngineOption {
	return func(e *Engine) {
		if src != nil {
			e.noise = src
		}
	}
}

// WithDepthMode selects the max depth metric.
func WithDepthMode(mode DepthMode) EngineOption {
	return func(e *Engine) {
		e.depthMode = mode
	}
}

// NewEngine creates an engine with the built-in bracket symbols registered.
func NewEngine(seed int64, opts ...EngineOption) *Engine {
	e := &Engine{
		seed:    seed,
		symbols: make(map[rune]*domain.Symbol),
		rules:   make(map[rune]*domain.RuleSet),
		noise:   noise.NewWhite(seed),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.AddSymbol(domain.PushSymbol, domain.SaveState)
	e.AddSymbol(domain.PopSymbol, domain.RestoreState)
	return e
}

// SetAxiom stores the axiom and resets the working sequence to it.
func (e *Engine) SetAxiom(axiom string) {
	e.axiom = axiom
	e.sequence = []rune(axiom)
	e.maxDepth = 0
}

// AddSymbol registers or overwrites the symbol for r.
func (e *Engine) AddSymbol(r rune, action domain.Action, args ...any) {
	e.symbols[r] = &domain.Symbol{Value: r, Action: action, Args: args}
}

// AddRule appends a rule with the default weight.
func (e *Engine) AddRule(src rune, expansion string, predicate domain.Predicate) {
	e.AddWeightedRule(src, expansion, domain.DefaultWeight, predicate)
}

// AddWeightedRule appends a rule with an explicit weight.
func (e *Engine) AddWeightedRule(src rune, expansion string, weight float64, predicate domain.Predicate) {
	rs, ok := e.rules[src]
	if !ok {
		rs = domain.NewRuleSet(src)
		e.rules[src] = rs
		e.ruleOrder = append(e.ruleOrder, src)
	}
	rs.Add(domain.Rule{
		Source:    src,
		Expansion: expansion,
		Weight:    weight,
		Predicate: predicate,
	})
}

// Seed returns the caller supplied seed.
func (e *Engine) Seed() int64 { return e.seed }

// Axiom returns the literal axiom.
func (e *Engine) Axiom() string { return e.axiom }

// Sequence returns the current working sequence.
func (e *Engine) Sequence() string { return string(e.sequence) }

// MaxDepth returns the depth metric computed by the last construct.
func (e *Engine) MaxDepth() int { return e.maxDepth }

// Noise returns the engine's noise source.
func (e *Engine) Noise() noise.Source { return e.noise }

// RuleSet returns the rules for src, if any.
func (e *Engine) RuleSet(src rune) (*domain.RuleSet, bool) {
	rs, ok := e.rules[src]
	return rs, ok
}

// RuleSets returns the rule sets in the order their sources were first added.
func (e *Engine) RuleSets() []*domain.RuleSet {
	out := make([]*domain.RuleSet, 0, len(e.ruleOrder))
	for _, src := range e.ruleOrder {
		out = append(out, e.rules[src])
	}
	return out
}

// Symbols returns the registered symbols ordered by rune.
func (e *Engine) Symbols() []domain.Symbol {
	out := make([]domain.Symbol, 0, len(e.symbols))
	for _, s := range e.symbols {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
