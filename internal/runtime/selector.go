package runtime

import (
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/noise"
)

// MaxSelectionAttempts bounds the retries of a predicate-gated selection.
const MaxSelectionAttempts = 10

// selectRule picks a rule from rs with weighted roulette selection driven by
// noise sampled at (position, generation). Candidates whose predicate rejects
// the constraint are redrawn; after MaxSelectionAttempts the first rule wins.
func (e *Engine) selectRule(rs *domain.RuleSet, position, generation int, constraint any) domain.Rule {
	if len(rs.Rules) == 1 {
		return rs.Rules[0]
	}

	for attempt := 0; attempt < MaxSelectionAttempts; attempt++ {
		x := float64(e.seed)*31 + float64(position)*13 + float64(attempt)*0.5
		y := float64(e.seed)*17 + float64(generation)*29 + float64(attempt)*0.25
		draw := noise.Unit(e.noise.Sample(x, y)) * rs.TotalWeight

		idx := roulette(rs, draw)
		if idx < 0 {
			continue
		}
		if rs.Rules[idx].Applicable(constraint) {
			return rs.Rules[idx]
		}
	}

	e.logger.Warn("rule selection exhausted, falling back to first rule",
		"source", string(rs.Source),
		"position", position,
		"generation", generation,
		"attempts", MaxSelectionAttempts,
	)
	if e.hooks.OnSelectionExhausted != nil {
		e.hooks.OnSelectionExhausted(&domain.SelectionEvent{
			Source:     rs.Source,
			Position:   position,
			Generation: generation,
			Attempts:   MaxSelectionAttempts,
		})
	}
	return rs.Rules[0]
}

// roulette returns the index of the first rule whose cumulative weight
// strictly exceeds draw, or -1 when none does.
func roulette(rs *domain.RuleSet, draw float64) int {
	progress := 0.0
	for i, rule := range rs.Rules {
		progress += rule.Weight
		if progress > draw {
			return i
		}
	}
	return -1
}
