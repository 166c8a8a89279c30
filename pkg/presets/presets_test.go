package presets

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/geometry"
	"github.com/aretw0/arbor/pkg/noise"
)

func assertVec(t *testing.T, want, got mgl64.Vec4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "component %d of %v", i, got)
	}
}

func TestCatalog(t *testing.T) {
	c := Default()

	var names []string
	for _, p := range c.List() {
		names = append(names, p.Name())
		assert.NotEmpty(t, p.Describe())
		assert.Positive(t, p.DefaultIterations())
	}
	assert.Equal(t, []string{"city", "district", "lots", "tree"}, names)

	p, err := c.Get("tree")
	require.NoError(t, err)
	assert.Equal(t, "tree", p.Name())

	_, err = c.Get("forest")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestLots_SquareLoop(t *testing.T) {
	out, err := Run(Lots{}, 546, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, "bF{1}+bF{1}+bF{1}+bF{1}+P", out.Sequence)
	assert.Equal(t, 12, out.Invocations)
	require.Len(t, out.Lots, 4)

	want := []mgl64.Vec4{{0, 0, 0, 1}, {1, 0, 0, 1}, {1, 0, 1, 1}, {0, 0, 1, 1}}
	for i, lot := range out.Lots {
		assert.Equal(t, "square", lot.Kind)
		assert.Equal(t, 30.0, lot.Scale)
		assertVec(t, want[i], lot.Position)
	}
}

func TestLots_Params(t *testing.T) {
	out, err := Run(Lots{}, 1, 2, map[string]any{"spacing": "2.5", "scale": 10})
	require.NoError(t, err)
	require.Len(t, out.Lots, 2)
	assertVec(t, mgl64.Vec4{2.5, 0, 0, 1}, out.Lots[1].Position)
	assert.Equal(t, 10.0, out.Lots[1].Scale)
}

func TestTree_Grows(t *testing.T) {
	out, err := Run(Tree{}, 42, 0, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, out.Segments)
	assert.Positive(t, out.Invocations)
	assert.Zero(t, out.Collisions)
	for _, seg := range out.Segments {
		assert.GreaterOrEqual(t, seg.From.Y(), 0.0)
		assert.Greater(t, seg.Length(), 0.0)
	}

	branches := 0
	for _, inst := range out.Instances {
		if inst.Mesh == "branch" {
			branches++
		}
	}
	assert.Equal(t, len(out.Segments), branches)
}

func TestTree_Deterministic(t *testing.T) {
	a, err := Run(Tree{}, 7, 2, nil)
	require.NoError(t, err)
	b, err := Run(Tree{}, 7, 2, nil)
	require.NoError(t, err)

	assert.Equal(t, a.Sequence, b.Sequence)
	assert.Equal(t, a.Segments, b.Segments)
	assert.Equal(t, a.Instances, b.Instances)
}

func TestTree_CollisionCheck(t *testing.T) {
	out, err := Run(Tree{}, 42, 2, map[string]any{
		"collision_check":        true,
		"min_collision_distance": 1,
	})
	require.NoError(t, err)

	assert.Len(t, out.Segments, 1, "only the first branch fits when everything is too close")
	assert.Positive(t, out.Collisions)
}

func TestTree_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
	}{
		{"bad type", map[string]any{"gravity": "heavy"}},
		{"unknown key", map[string]any{"wind": 3}},
		{"short sun direction", map[string]any{"sun_direction": []any{1, 2}}},
		{"zero sun direction", map[string]any{"sun_direction": []float64{0, 0, 0}}},
		{"collision distance too wide", map[string]any{"collision_check": true, "min_collision_distance": 60}},
		{"zero collision distance", map[string]any{"min_collision_distance": 0}},
		{"negative collision distance", map[string]any{"min_collision_distance": -1}},
		{"nan collision distance", map[string]any{"min_collision_distance": math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(Tree{}, 1, 1, tt.params)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestDeeperLeafAhead(t *testing.T) {
	assert.True(t, deeperLeafAhead([]rune("l[l]"), 0, 1))
	assert.False(t, deeperLeafAhead([]rune("l]l"), 0, 1))
	assert.False(t, deeperLeafAhead([]rune("l[F]l"), 0, 1))
	assert.False(t, deeperLeafAhead([]rune("l"), 0, 3))
}

func TestCity_LowPopulationBuildsParks(t *testing.T) {
	symbols := 0
	hooks := arbor.WithLifecycleHooks(domain.LifecycleHooks{
		OnSymbol: func(*domain.SymbolEvent) { symbols++ },
	})

	out, err := Run(City{}, 3, 6, map[string]any{"population": 0.1, "land_value": 0.1}, hooks)
	require.NoError(t, err)

	require.Len(t, out.Lots, 5)
	for i, lot := range out.Lots {
		assert.Equal(t, "park", lot.Kind)
		assertVec(t, mgl64.Vec4{float64(i) * 10, 0, 0, 1}, lot.Position)
	}
	assert.Empty(t, out.Instances, "parks have no buildings")
	assert.Equal(t, out.Invocations, symbols, "caller hooks run alongside the invocation counter")
}

func TestCity_ZoningFollowsConstraint(t *testing.T) {
	out, err := Run(City{}, 11, 40, map[string]any{"population": 0.5, "land_value": 0.9})
	require.NoError(t, err)

	kinds := map[string]int{}
	for _, lot := range out.Lots {
		kinds[lot.Kind]++
	}
	assert.Zero(t, kinds["tower"], "towers need population above 0.6")
	assert.Positive(t, kinds["house"])

	dense, err := Run(City{}, 11, 40, map[string]any{"population": 0.9, "land_value": 0.9})
	require.NoError(t, err)
	kinds = map[string]int{}
	for _, lot := range dense.Lots {
		kinds[lot.Kind]++
	}
	assert.Positive(t, kinds["tower"])
}

func TestCity_ConstraintFromTables(t *testing.T) {
	o := DefaultCityOptions()
	o.Site = []float64{4, 9}
	c, err := o.constraint(99)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, c.Population, 0.0)
	assert.Less(t, c.Population, 1.0)

	again, err := o.constraint(99)
	require.NoError(t, err)
	assert.Equal(t, c, again)

	o.Site = []float64{1}
	_, err = o.constraint(99)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Run(City{}, 1, 2, map[string]any{"population": 2.0, "land_value": 0.5})
	assert.True(t, errors.Is(err, ErrInvalidParams))
}

func TestRollBlueprint(t *testing.T) {
	bps := []Blueprint{
		{Kind: "a", Weight: 1},
		{Kind: "b", Weight: 3},
		{Kind: "rich", Weight: 4, MinPopulation: 0.5},
		{Kind: "off", Weight: 0},
	}

	bp, ok := rollBlueprint(bps, 0.1, 0.2)
	require.True(t, ok)
	assert.Equal(t, "a", bp.Kind, "0.2 of 4 falls inside the first weight")

	bp, _ = rollBlueprint(bps, 0.1, 0.3)
	assert.Equal(t, "b", bp.Kind)

	bp, _ = rollBlueprint(bps, 0.9, 0.6)
	assert.Equal(t, "rich", bp.Kind, "population unlocks more candidates")

	_, ok = rollBlueprint(bps[2:], 0.1, 0.5)
	assert.False(t, ok)
}

func TestOverlaps(t *testing.T) {
	lot := func(x, z, side float64) geometry.Lot {
		return geometry.Lot{Position: mgl64.Vec4{x, 0, z, 1}, Scale: side}
	}
	assert.True(t, overlaps(lot(0, 0, 30), lot(10, 10, 10)))
	assert.False(t, overlaps(lot(0, 0, 10), lot(10, 0, 10)), "shared edges are allowed")
	assert.False(t, overlaps(lot(0, 0, 30), lot(30, 0, 30)))
}

func TestDistrict_LowPopulationIsAllParks(t *testing.T) {
	out, err := Run(District{}, 5, 0, map[string]any{"width": 5, "height": 4, "population": 0.0})
	require.NoError(t, err)

	require.Len(t, out.Lots, 20)
	for i, lot := range out.Lots {
		assert.Equal(t, "park", lot.Kind)
		assert.Equal(t, 10.0, lot.Scale)
		assertVec(t, mgl64.Vec4{float64(i%5) * 10, 0, float64(i/5) * 10, 1}, lot.Position)
	}
	assert.Empty(t, out.Instances)
	assert.Zero(t, out.Collisions)
}

func TestDistrict_RejectsOverlappingLots(t *testing.T) {
	out, err := Run(District{}, 5, 0, map[string]any{
		"width":      6,
		"height":     6,
		"population": 0.9,
		"weights":    map[string]any{"park": 0, "house": 0, "block": 0, "tower": 1},
	})
	require.NoError(t, err)

	require.Len(t, out.Lots, 4, "a 3x3 tower claims nine cells")
	want := []mgl64.Vec4{{10, 0, 10, 1}, {40, 0, 10, 1}, {10, 0, 40, 1}, {40, 0, 40, 1}}
	for i, lot := range out.Lots {
		assert.Equal(t, "tower", lot.Kind)
		assert.Equal(t, 30.0, lot.Scale)
		assertVec(t, want[i], lot.Position)
	}
	assert.Equal(t, 32, out.Collisions)
	assert.Len(t, out.Instances, 4)
}

func TestDistrict_ZoningFollowsPopulationTable(t *testing.T) {
	const seed = 21
	out, err := Run(District{}, seed, 0, map[string]any{"width": 16, "height": 16})
	require.NoError(t, err)
	require.NotEmpty(t, out.Lots)

	pop, _, err := CityTables(seed)
	require.NoError(t, err)
	rules := map[string]Blueprint{}
	for _, bp := range DefaultBlueprints() {
		rules[bp.Kind] = bp
	}

	for i, lot := range out.Lots {
		bp, ok := rules[lot.Kind]
		require.True(t, ok, lot.Kind)
		corner := (float64(bp.Footprint) - 1) * 10 / 2
		x := math.Round((lot.Position[0] - corner) / 10)
		z := math.Round((lot.Position[2] - corner) / 10)
		assert.GreaterOrEqual(t, noise.Unit(pop.Sample(x, z)), bp.MinPopulation, "%s at %v,%v", lot.Kind, x, z)

		for _, other := range out.Lots[:i] {
			assert.False(t, overlaps(lot, other), "%v overlaps %v", lot, other)
		}
	}

	again, err := Run(District{}, seed, 0, map[string]any{"width": 16, "height": 16})
	require.NoError(t, err)
	assert.Equal(t, out.Lots, again.Lots)
}

func TestDistrict_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
	}{
		{"zero width", map[string]any{"width": 0}},
		{"huge grid", map[string]any{"height": 500}},
		{"negative cell size", map[string]any{"cell_size": -1}},
		{"unknown blueprint", map[string]any{"weights": map[string]any{"castle": 1}}},
		{"negative weight", map[string]any{"weights": map[string]any{"park": -1}}},
		{"all weights zero", map[string]any{"weights": map[string]any{"park": 0, "house": 0, "block": 0, "tower": 0}}},
		{"population out of range", map[string]any{"population": 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(District{}, 1, 0, tt.params)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}
