package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/geometry"
)

func TestReport(t *testing.T) {
	res := &domain.Result{
		ID:         "abc",
		Preset:     "lots",
		Seed:       7,
		Iterations: 4,
		Params:     map[string]any{"spacing": 2, "scale": 10},
		Sequence:   "bF{1}+P",
		MaxDepth:   1,
		Lots:       make([]geometry.Lot, 4),
	}

	out := tui.Report(res)
	assert.Contains(t, out, "# lots")
	assert.Contains(t, out, "| Seed | 7 |")
	assert.Contains(t, out, "| Lots | 4 |")
	assert.Contains(t, out, "| Sequence length | 7 |")
	assert.Less(t, strings.Index(out, "**scale**"), strings.Index(out, "**spacing**"))
	assert.Contains(t, out, "bF{1}+P")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", tui.Preview("abc", 5))
	assert.Equal(t, "abc", tui.Preview("abc", 0))
	assert.Equal(t, "ab… (+3)", tui.Preview("abcde", 2))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_.__/")
}
