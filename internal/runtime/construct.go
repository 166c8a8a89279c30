package runtime

import (
	"github.com/aretw0/arbor/pkg/domain"
)

// Construct rewrites the working sequence for the given number of generations.
//
// Within a generation only symbols present at its start are rewritten: each
// expansion is appended to the next sequence as a whole. The generation index
// counts down to zero and only salts rule selection.
func (e *Engine) Construct(iterations int, constraint any) error {
	if iterations < 0 {
		return domain.ErrInvalidIterations
	}

	current := e.sequence
	for gen := iterations - 1; gen >= 0; gen-- {
		next := make([]rune, 0, len(current))
		for _, sym := range current {
			rs, ok := e.rules[sym]
			if !ok || len(rs.Rules) == 0 {
				next = append(next, sym)
				continue
			}
			rule := e.selectRule(rs, len(next), gen, constraint)
			next = append(next, []rune(rule.Expansion)...)
		}
		current = next
	}

	e.sequence = current
	e.maxDepth = measureDepth(current, e.depthMode)

	e.logger.Debug("construct complete",
		"iterations", iterations,
		"length", len(current),
		"max_depth", e.maxDepth,
		"depth_mode", e.depthMode.String(),
	)
	if e.hooks.OnConstruct != nil {
		e.hooks.OnConstruct(&domain.ConstructEvent{
			Iterations: iterations,
			Length:     len(current),
			MaxDepth:   e.maxDepth,
		})
	}
	return nil
}

func measureDepth(seq []rune, mode DepthMode) int {
	maxDepth, depth := 0, 0
	for _, r := range seq {
		switch r {
		case domain.PushSymbol:
			depth++
			if mode == DepthRunningMax && depth > maxDepth {
				maxDepth = depth
			}
		case domain.PopSymbol:
			if mode == DepthRunningMax {
				if depth > 0 {
					depth--
				}
				continue
			}
			if depth > maxDepth {
				maxDepth = depth
			}
			depth = 0
		}
	}
	return maxDepth
}
