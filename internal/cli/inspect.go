package cli

import (
	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/presets"
	"github.com/aretw0/arbor/pkg/schema"
)

// GraphOptions configures Graph.
type GraphOptions struct {
	Seed   int64
	Params []string
	// Iterations > 0 runs the grammar first and marks exhausted selections.
	Iterations int
}

// Graph renders the preset's grammar as a Mermaid flowchart.
func Graph(p presets.Preset, opts GraphOptions) (string, error) {
	params, err := ParseParams(opts.Params)
	if err != nil {
		return "", err
	}

	exhausted := make(map[rune]int)
	hooks := arbor.WithLifecycleHooks(domain.LifecycleHooks{
		OnSelectionExhausted: func(e *domain.SelectionEvent) {
			exhausted[e.Source]++
		},
	})

	setup, err := p.Setup(opts.Seed, params, hooks)
	if err != nil {
		return "", err
	}

	var overlay *graph.GraphOverlay
	if opts.Iterations > 0 {
		if _, err := setup.Grammar.Run(opts.Iterations, setup.Constraint, setup.Payload); err != nil {
			return "", err
		}
		overlay = &graph.GraphOverlay{Exhausted: exhausted}
	}

	return graph.GenerateMermaid(setup.Grammar, overlay), nil
}

// Validate builds the preset with params and checks its grammar.
func Validate(p presets.Preset, params []string) error {
	parsed, err := ParseParams(params)
	if err != nil {
		return err
	}
	setup, err := p.Setup(0, parsed)
	if err != nil {
		return err
	}
	return schema.Validate(setup.Grammar)
}
