package schema

import (
	"fmt"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
)

// Validate checks a grammar for problems that would only surface at
// generation time. Unknown symbols are not errors.
func Validate(g *arbor.Grammar) error {
	var errs []error

	errs = append(errs, checkSequence("axiom", g.Axiom())...)

	for _, rs := range g.RuleSets() {
		for i, rule := range rs.Rules {
			key := fmt.Sprintf("rule %c#%d", rs.Source, i)
			if rule.Weight <= 0 {
				errs = append(errs, &ValidationError{
					Key:    key,
					Reason: "weight must be positive",
					Value:  rule.Weight,
				})
			}
			errs = append(errs, checkSequence(key, rule.Expansion)...)
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// checkSequence reports unbalanced brackets and unterminated parameter blocks.
func checkSequence(key, seq string) []error {
	var errs []error
	depth := 0
	inParams := false

	for _, r := range seq {
		switch {
		case inParams:
			if r == domain.ParamClose {
				inParams = false
			}
		case r == domain.ParamOpen:
			inParams = true
		case r == domain.PushSymbol:
			depth++
		case r == domain.PopSymbol:
			depth--
			if depth < 0 {
				errs = append(errs, &ValidationError{Key: key, Reason: "unmatched closing bracket", Value: seq})
				depth = 0
			}
		}
	}

	if depth > 0 {
		errs = append(errs, &ValidationError{
			Key:    key,
			Reason: fmt.Sprintf("%d unclosed bracket(s)", depth),
			Value:  seq,
		})
	}
	if inParams {
		errs = append(errs, &ValidationError{Key: key, Reason: "unterminated parameter block", Value: seq})
	}
	return errs
}
