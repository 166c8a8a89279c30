package arbor_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/noise"
)

func TestFacade_RunTreeScenario(t *testing.T) {
	g := arbor.New(1, arbor.WithName("scenario")).
		SetAxiom("A").
		AddWeightedRule('A', "B[A]A", 1, nil)

	segments := 0
	g.AddSymbol('B', domain.Effect(func(s *domain.Scope) {
		segments++
		s.Turtle.ApplyTransform(mgl64.Translate3D(0, 1, 0))
	}))

	scope, err := g.Run(3, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, g.MaxDepth())
	assert.Equal(t, 7, segments)
	assert.True(t, scope.Stack.IsEmpty())
	// Only the trunk's B symbols outside any bracket move the final turtle.
	assert.InDelta(t, 3, scope.Turtle.Position[1], 1e-9)
}

func TestFacade_DepthModeOption(t *testing.T) {
	g := arbor.New(1, arbor.WithDepthMode(arbor.DepthRunningMax)).SetAxiom("[[F][[F]]]")
	require.NoError(t, g.Construct(0, nil))
	assert.Equal(t, 3, g.MaxDepth())
}

func TestParseDepthMode(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want arbor.DepthMode
	}{
		{"", arbor.DepthResetOnClose},
		{"reset-on-close", arbor.DepthResetOnClose},
		{"running-max", arbor.DepthRunningMax},
	} {
		got, err := arbor.ParseDepthMode(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := arbor.ParseDepthMode("deepest")
	assert.Error(t, err)
}

func TestFacade_NoiseAndHooks(t *testing.T) {
	src := noise.NewSimplex(9)
	exhausted := 0
	g := arbor.New(9,
		arbor.WithNoise(src),
		arbor.WithLifecycleHooks(domain.LifecycleHooks{
			OnSelectionExhausted: func(*domain.SelectionEvent) { exhausted++ },
		}),
	)
	never := func(any) bool { return false }
	g.SetAxiom("X").AddRule('X', "a", never).AddRule('X', "b", never)

	require.NoError(t, g.Construct(1, nil))
	assert.Equal(t, "a", g.Sequence())
	assert.Equal(t, 1, exhausted)
	assert.Same(t, src, g.Noise())
	assert.Equal(t, int64(9), g.Seed())
	assert.Equal(t, "X", g.Axiom())
	assert.Len(t, g.RuleSets(), 1)
	assert.Len(t, g.Symbols(), 2)
}
