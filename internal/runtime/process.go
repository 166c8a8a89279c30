package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Process executes the working sequence once, left to right, running the
// action of every registered symbol against a fresh scope. Unregistered
// symbols are skipped. The first action error aborts the pass.
func (e *Engine) Process(payload any) (*domain.Scope, error) {
	if e.sequence == nil {
		return nil, domain.ErrNotConstructed
	}

	seq := e.sequence
	scope := domain.NewScope(seq, payload)
	scope.MaxDepth = e.maxDepth
	scope.Noise = e.noise
	scope.Logger = e.logger

	for i := 0; i < len(seq); {
		sym, ok := e.symbols[seq[i]]
		if !ok {
			i++
			continue
		}

		data, consumed, err := parameterBlock(seq, i+1)
		if err != nil {
			return scope, &domain.SymbolError{Index: i, Symbol: seq[i], Err: err}
		}

		scope.Index = i
		scope.RuleData = data

		if sym.Action != nil {
			if e.hooks.OnSymbol != nil {
				e.hooks.OnSymbol(&domain.SymbolEvent{Index: i, Symbol: sym.Value, Depth: scope.Depth})
			}
			if err := sym.Action.Apply(scope, sym.Args...); err != nil {
				return scope, &domain.SymbolError{Index: i, Symbol: sym.Value, Err: err}
			}
		}

		i += 1 + consumed
	}

	return scope, nil
}

// parameterBlock extracts an inline "{a,b,c}" starting at seq[start].
// It returns the split values and the number of runes consumed, closing
// brace included. No block yields (nil, 0, nil).
func parameterBlock(seq []rune, start int) ([]string, int, error) {
	if start >= len(seq) || seq[start] != domain.ParamOpen {
		return nil, 0, nil
	}
	for j := start + 1; j < len(seq); j++ {
		if seq[j] == domain.ParamClose {
			raw := string(seq[start+1 : j])
			return strings.Split(raw, domain.ParamSep), j - start + 1, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: no closing %q after index %d",
		domain.ErrMalformedParameterBlock, domain.ParamClose, start)
}
