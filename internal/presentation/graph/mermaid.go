package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	// Exhausted counts selections per source that fell back to the first rule.
	Exhausted map[rune]int
}

// GenerateMermaid produces a Mermaid flowchart of a grammar's rules.
// Shapes:
// - Axiom: ((Circle))
// - Rule source: [Rectangle], [[Subroutine]] when a handler is also bound
// - Expansion: (Rounded)
// Gated rules use dotted arrows. Expansions link back to every rule source
// they contain.
func GenerateMermaid(g *arbor.Grammar, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	handlers := make(map[rune]bool)
	for _, sym := range g.Symbols() {
		if sym.Action != nil {
			handlers[sym.Value] = true
		}
	}

	sources := make(map[rune]bool)
	for _, rs := range g.RuleSets() {
		sources[rs.Source] = true
	}

	sb.WriteString(fmt.Sprintf("    axiom((\"%s\"))\n", escapeLabel(g.Axiom())))
	for _, src := range referencedSources(g.Axiom(), sources) {
		sb.WriteString(fmt.Sprintf("    axiom --> %s\n", symbolID(src)))
	}

	for _, rs := range g.RuleSets() {
		id := symbolID(rs.Source)
		opener, closer := "[", "]"
		if handlers[rs.Source] {
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%c\"%s\n", id, opener, rs.Source, closer))

		for i, rule := range rs.Rules {
			expID := fmt.Sprintf("%s_%d", id, i)
			sb.WriteString(fmt.Sprintf("    %s(\"%s\")\n", expID, escapeLabel(rule.Expansion)))

			label := fmt.Sprintf("w=%g", rule.Weight)
			if rs.TotalWeight > 0 && len(rs.Rules) > 1 {
				label = fmt.Sprintf("w=%g %.0f%%", rule.Weight, 100*rule.Weight/rs.TotalWeight)
			}
			if rule.Predicate != nil {
				sb.WriteString(fmt.Sprintf("    %s -. \"%s when\" .-> %s\n", id, label, expID))
			} else {
				sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", id, label, expID))
			}

			for _, next := range referencedSources(rule.Expansion, sources) {
				sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", expID, symbolID(next)))
			}
		}
	}

	if overlay != nil && len(overlay.Exhausted) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef exhausted fill:#ffebee,stroke:#c62828,stroke-width:3px,color:#000;\n")
		for _, rs := range g.RuleSets() {
			if n := overlay.Exhausted[rs.Source]; n > 0 {
				sb.WriteString(fmt.Sprintf("    class %s exhausted;\n", symbolID(rs.Source)))
			}
		}
	}

	return sb.String()
}

// referencedSources lists, in first-seen order, the rule sources used in seq.
func referencedSources(seq string, sources map[rune]bool) []rune {
	var out []rune
	seen := make(map[rune]bool)
	for _, r := range seq {
		if sources[r] && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func symbolID(r rune) string {
	return fmt.Sprintf("sym%d", r)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
