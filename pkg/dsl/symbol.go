package dsl

import (
	"errors"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
)

// SymbolBuilder provides a fluent API for binding an action to a symbol.
type SymbolBuilder struct {
	value   rune
	action  domain.Action
	named   string
	args    []any
	builder *Builder
}

// Do binds an action directly, with optional static arguments.
func (s *SymbolBuilder) Do(action domain.Action, args ...any) *SymbolBuilder {
	s.action = action
	s.named = ""
	s.args = args
	return s
}

// Call binds the action registered under name, resolved at build time.
func (s *SymbolBuilder) Call(name string, args ...any) *SymbolBuilder {
	s.action = nil
	s.named = name
	s.args = args
	return s
}

func (s *SymbolBuilder) resolve(r *registry.Registry) (domain.Action, error) {
	if s.named == "" {
		if s.action == nil {
			return nil, errors.New("no action bound")
		}
		return s.action, nil
	}
	if r == nil {
		return nil, errors.New("named action " + s.named + " needs a registry")
	}
	return r.Lookup(s.named)
}

// RuleBuilder provides a fluent API for configuring a production.
type RuleBuilder struct {
	source    rune
	expansion *string
	weight    float64
	predicate domain.Predicate
	builder   *Builder
}

// To sets the expansion.
func (r *RuleBuilder) To(expansion string) *RuleBuilder {
	r.expansion = &expansion
	return r
}

// Weight sets the relative selection weight (default 1).
func (r *RuleBuilder) Weight(w float64) *RuleBuilder {
	r.weight = w
	return r
}

// When gates the rule on the generation constraint.
func (r *RuleBuilder) When(p domain.Predicate) *RuleBuilder {
	r.predicate = p
	return r
}
