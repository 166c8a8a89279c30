package runtime_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/turtle"
)

// invocation captures what a handler observed.
type invocation struct {
	Symbol   rune
	Index    int
	Depth    int
	RuleData []string
	Position mgl64.Vec4
}

func recorder(log *[]invocation) domain.Action {
	return domain.ActionFunc(func(s *domain.Scope, _ ...any) error {
		*log = append(*log, invocation{
			Symbol:   s.Sequence[s.Index],
			Index:    s.Index,
			Depth:    s.Depth,
			RuleData: s.RuleData,
			Position: s.Turtle.Position,
		})
		return nil
	})
}

func TestEngine_BuiltinBrackets(t *testing.T) {
	e := runtime.NewEngine(1)

	symbols := e.Symbols()
	require.Len(t, symbols, 2)
	assert.Equal(t, domain.PushSymbol, symbols[0].Value)
	assert.Equal(t, domain.PopSymbol, symbols[1].Value)
}

func TestEngine_SetAxiomResetsSequence(t *testing.T) {
	e := runtime.NewEngine(1)
	e.SetAxiom("A")
	e.AddRule('A', "AB", nil)
	require.NoError(t, e.Construct(2, nil))
	assert.Equal(t, "ABB", e.Sequence())

	e.SetAxiom("A")
	assert.Equal(t, "A", e.Sequence())
	assert.Equal(t, "A", e.Axiom())
	assert.Equal(t, 0, e.MaxDepth())
}

func TestEngine_AddSymbolOverwrites(t *testing.T) {
	e := runtime.NewEngine(1)
	var first, second int
	e.AddSymbol('F', domain.Effect(func(*domain.Scope) { first++ }))
	e.AddSymbol('F', domain.Effect(func(*domain.Scope) { second++ }))
	e.SetAxiom("FF")

	_, err := e.Process(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, first)
	assert.Equal(t, 2, second)
}

func TestEngine_RuleSetsKeepInsertionOrder(t *testing.T) {
	e := runtime.NewEngine(1)
	e.AddRule('B', "b", nil)
	e.AddWeightedRule('A', "a", 2, nil)
	e.AddRule('B', "bb", nil)

	sets := e.RuleSets()
	require.Len(t, sets, 2)
	assert.Equal(t, 'B', sets[0].Source)
	assert.Equal(t, 2.0, sets[0].TotalWeight)
	assert.Equal(t, 'A', sets[1].Source)
	assert.Equal(t, 2.0, sets[1].TotalWeight)
}

func TestEngine_Determinism(t *testing.T) {
	build := func() *runtime.Engine {
		e := runtime.NewEngine(546)
		e.SetAxiom("[F][/-F]")
		e.AddWeightedRule('F', "BS+[/lBF][*BF]", 5, nil)
		e.AddWeightedRule('F', "BS+[/BF]", 7, nil)
		e.AddWeightedRule('F', "BS[*BF]", 4, nil)
		e.AddRule('B', "D{0.5}[l]D{1.5}", nil)
		return e
	}

	run := func() (string, []invocation) {
		e := build()
		var log []invocation
		move := domain.ActionFunc(func(s *domain.Scope, _ ...any) error {
			d, err := s.Float(0, 1)
			if err != nil {
				return err
			}
			s.Turtle.ApplyTransform(mgl64.Translate3D(0, d, 0))
			return recorder(&log).Apply(s)
		})
		e.AddSymbol('D', move)
		for _, r := range "lS+-/*" {
			e.AddSymbol(r, recorder(&log))
		}
		require.NoError(t, e.Construct(4, nil))
		_, err := e.Process(nil)
		require.NoError(t, err)
		return e.Sequence(), log
	}

	seq1, log1 := run()
	seq2, log2 := run()
	assert.Equal(t, seq1, seq2)
	assert.Equal(t, log1, log2)
	assert.NotEmpty(t, log1)
}

func TestEngine_Hooks(t *testing.T) {
	var constructs []domain.ConstructEvent
	var symbols int
	hooks := domain.LifecycleHooks{
		OnConstruct: func(e *domain.ConstructEvent) { constructs = append(constructs, *e) },
		OnSymbol:    func(*domain.SymbolEvent) { symbols++ },
	}

	e := runtime.NewEngine(1, runtime.WithLifecycleHooks(hooks))
	e.SetAxiom("A")
	e.AddRule('A', "[F]A", nil)
	e.AddSymbol('F', domain.Effect(func(*domain.Scope) {}))

	require.NoError(t, e.Construct(2, nil))
	_, err := e.Process(nil)
	require.NoError(t, err)

	require.Len(t, constructs, 1)
	assert.Equal(t, domain.ConstructEvent{Iterations: 2, Length: 7, MaxDepth: 1}, constructs[0])
	// "[F][F]A": two pushes, two pops, two F.
	assert.Equal(t, 6, symbols)
}

func TestEngine_ProcessWithoutAxiom(t *testing.T) {
	e := runtime.NewEngine(1)
	_, err := e.Process(nil)
	assert.True(t, errors.Is(err, domain.ErrNotConstructed))
}

func TestEngine_FreshTurtlePerProcess(t *testing.T) {
	e := runtime.NewEngine(1)
	e.SetAxiom("F")
	e.AddSymbol('F', domain.Effect(func(s *domain.Scope) {
		s.Turtle.ApplyTransform(mgl64.Translate3D(0, 1, 0))
	}))

	s1, err := e.Process(nil)
	require.NoError(t, err)
	s2, err := e.Process(nil)
	require.NoError(t, err)

	assert.True(t, s1.Turtle.ApproxEqual(s2.Turtle))
	assert.False(t, s1.Turtle.ApproxEqual(turtle.New()))
}
