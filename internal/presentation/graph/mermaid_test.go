package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	always := func(any) bool { return true }
	g := arbor.New(1).
		SetAxiom("[F]").
		AddWeightedRule('F', "FB", 3, nil).
		AddWeightedRule('F', "F\"", 1, always).
		AddRule('B', "b", nil).
		AddSymbol('B', domain.Effect(func(*domain.Scope) {}))

	out := graph.GenerateMermaid(g, nil)

	tests := []struct {
		name     string
		contains []string
	}{
		{"header", []string{"graph TD\n"}},
		{"axiom", []string{`axiom(("[F]"))`, "axiom --> sym70"}},
		{"sources", []string{`sym70["F"]`, `sym66[["B"]]`}},
		{"weights", []string{`sym70 -- "w=3 75%" --> sym70_0`, `sym70 -. "w=1 25% when" .-> sym70_1`}},
		{"single rule", []string{`sym66 -- "w=1" --> sym66_0`}},
		{"dependencies", []string{"sym70_0 -.-> sym70", "sym70_0 -.-> sym66"}},
		{"escaping", []string{`sym70_1("F#quot;")`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, c := range tt.contains {
				assert.Contains(t, out, c)
			}
		})
	}
	assert.False(t, strings.Contains(out, "Overlay"))
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	g := arbor.New(1).SetAxiom("A").AddRule('A', "B", nil).AddRule('A', "C", nil)

	out := graph.GenerateMermaid(g, &graph.GraphOverlay{Exhausted: map[rune]int{'A': 2, 'Z': 1}})
	assert.Contains(t, out, "classDef exhausted")
	assert.Contains(t, out, "class sym65 exhausted;")
	assert.NotContains(t, out, "sym90")
}
