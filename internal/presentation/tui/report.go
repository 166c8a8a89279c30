package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// previewLimit bounds how much of the sequence a report prints.
const previewLimit = 240

// Report formats a generation result as markdown.
func Report(res *domain.Result) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", res.Preset))
	sb.WriteString(fmt.Sprintf("`%s`\n\n", res.ID))

	sb.WriteString("| Field | Value |\n|---|---|\n")
	rows := []struct {
		key   string
		value any
	}{
		{"Seed", res.Seed},
		{"Iterations", res.Iterations},
		{"Sequence length", len(res.Sequence)},
		{"Max depth", res.MaxDepth},
		{"Invocations", res.Invocations},
		{"Instances", len(res.Instances)},
		{"Segments", len(res.Segments)},
		{"Lots", len(res.Lots)},
		{"Collisions", res.Collisions},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %v |\n", row.key, row.value))
	}

	if len(res.Params) > 0 {
		sb.WriteString("\n## Parameters\n\n")
		for _, k := range sortedKeys(res.Params) {
			sb.WriteString(fmt.Sprintf("- **%s**: %v\n", k, res.Params[k]))
		}
	}

	sb.WriteString("\n## Sequence\n\n```\n")
	sb.WriteString(Preview(res.Sequence, previewLimit))
	sb.WriteString("\n```\n")

	return sb.String()
}

// Preview truncates seq to at most limit runes, marking elided content.
func Preview(seq string, limit int) string {
	runes := []rune(seq)
	if limit <= 0 || len(runes) <= limit {
		return seq
	}
	return fmt.Sprintf("%s… (+%d)", string(runes[:limit]), len(runes)-limit)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
