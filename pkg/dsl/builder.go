package dsl

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/registry"
)

// Builder manages grammar construction.
type Builder struct {
	axiom    *string
	symbols  map[rune]*SymbolBuilder
	rules    []*RuleBuilder
	registry *registry.Registry
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithRegistry sets the registry used to resolve actions referenced by name.
func WithRegistry(r *registry.Registry) BuilderOption {
	return func(b *Builder) {
		b.registry = r
	}
}

// New creates a new grammar builder.
func New(opts ...BuilderOption) *Builder {
	b := &Builder{
		symbols: make(map[rune]*SymbolBuilder),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Axiom sets the initial sequence.
func (b *Builder) Axiom(axiom string) *Builder {
	b.axiom = &axiom
	return b
}

// Symbol returns the builder for r, creating it on first use.
func (b *Builder) Symbol(r rune) *SymbolBuilder {
	if sb, ok := b.symbols[r]; ok {
		return sb
	}
	sb := &SymbolBuilder{value: r, builder: b}
	b.symbols[r] = sb
	return sb
}

// Rule starts a new production for src. Every call adds a rule.
func (b *Builder) Rule(src rune) *RuleBuilder {
	rb := &RuleBuilder{source: src, weight: 1.0, builder: b}
	b.rules = append(b.rules, rb)
	return rb
}

// Build compiles the definition into a Grammar.
func (b *Builder) Build(seed int64, opts ...arbor.Option) (*arbor.Grammar, error) {
	if b.axiom == nil {
		return nil, errors.New("grammar has no axiom")
	}

	g := arbor.New(seed, opts...)
	g.SetAxiom(*b.axiom)

	runes := make([]rune, 0, len(b.symbols))
	for r := range b.symbols {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	for _, r := range runes {
		sb := b.symbols[r]
		action, err := sb.resolve(b.registry)
		if err != nil {
			return nil, fmt.Errorf("failed to build symbol %q: %w", r, err)
		}
		g.AddSymbol(r, action, sb.args...)
	}

	for i, rb := range b.rules {
		if rb.expansion == nil {
			return nil, fmt.Errorf("rule %d for %q has no expansion", i, rb.source)
		}
		g.AddWeightedRule(rb.source, *rb.expansion, rb.weight, rb.predicate)
	}

	return g, nil
}
