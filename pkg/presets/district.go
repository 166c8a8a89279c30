package presets

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/aretw0/arbor/pkg/geometry"
	"github.com/aretw0/arbor/pkg/noise"
	"github.com/aretw0/arbor/pkg/registry"
)

// Blueprint is a kind of lot the district preset can build.
type Blueprint struct {
	Kind string
	// Weight is the relative chance of the blueprint among the candidates of a cell.
	Weight float64
	// Footprint is the side of the square lot, in cells.
	Footprint int
	// MinPopulation is the lowest cell population the blueprint accepts.
	MinPopulation float64
	// Height is the building height in cells at full population. Zero builds nothing.
	Height float64
}

// DefaultBlueprints returns the district blueprints.
func DefaultBlueprints() []Blueprint {
	return []Blueprint{
		{Kind: "park", Weight: 2, Footprint: 1},
		{Kind: "house", Weight: 4, Footprint: 1, MinPopulation: 0.3, Height: 0.4},
		{Kind: "block", Weight: 2, Footprint: 2, MinPopulation: 0.55, Height: 1.5},
		{Kind: "tower", Weight: 1, Footprint: 3, MinPopulation: 0.75, Height: 8},
	}
}

const maxDistrictSide = 128

// DistrictOptions configure the district preset. Population is read per cell
// from the baked population table unless it is pinned.
type DistrictOptions struct {
	Width      int                `mapstructure:"width"`
	Height     int                `mapstructure:"height"`
	CellSize   float64            `mapstructure:"cell_size"`
	Population *float64           `mapstructure:"population"`
	Weights    map[string]float64 `mapstructure:"weights"`
}

// DefaultDistrictOptions returns the district defaults.
func DefaultDistrictOptions() DistrictOptions {
	return DistrictOptions{Width: 24, Height: 24, CellSize: 10}
}

func (o DistrictOptions) validate() error {
	if o.Width < 1 || o.Width > maxDistrictSide || o.Height < 1 || o.Height > maxDistrictSide {
		return fmt.Errorf("%w: width and height must be in [1, %d], got %dx%d",
			ErrInvalidParams, maxDistrictSide, o.Width, o.Height)
	}
	if math.IsNaN(o.CellSize) || math.IsInf(o.CellSize, 0) || o.CellSize <= 0 {
		return fmt.Errorf("%w: cell_size must be positive, got %v", ErrInvalidParams, o.CellSize)
	}
	if o.Population != nil && (*o.Population < 0 || *o.Population > 1) {
		return fmt.Errorf("%w: population must be in [0,1]", ErrInvalidParams)
	}
	return nil
}

// blueprints applies the weight overrides to the defaults.
func (o DistrictOptions) blueprints() ([]Blueprint, error) {
	bps := DefaultBlueprints()
	known := make(map[string]int, len(bps))
	for i, bp := range bps {
		known[bp.Kind] = i
	}

	kinds := make([]string, 0, len(o.Weights))
	for k := range o.Weights {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		i, ok := known[k]
		if !ok {
			return nil, fmt.Errorf("%w: unknown blueprint %q", ErrInvalidParams, k)
		}
		w := o.Weights[k]
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, fmt.Errorf("%w: weight of %s must be a non-negative number, got %v", ErrInvalidParams, k, w)
		}
		bps[i].Weight = w
	}

	total := 0.0
	for _, bp := range bps {
		total += bp.Weight
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: every blueprint weight is zero", ErrInvalidParams)
	}
	return bps, nil
}

// rollBlueprint picks among the blueprints that accept population. u is a
// draw in [0,1). The first blueprint whose cumulative weight exceeds the
// scaled draw wins.
func rollBlueprint(bps []Blueprint, population, u float64) (Blueprint, bool) {
	candidates := make([]Blueprint, 0, len(bps))
	total := 0.0
	for _, bp := range bps {
		if bp.Weight > 0 && population >= bp.MinPopulation {
			candidates = append(candidates, bp)
			total += bp.Weight
		}
	}
	if len(candidates) == 0 {
		return Blueprint{}, false
	}

	target := u * total
	acc := 0.0
	for _, bp := range candidates {
		acc += bp.Weight
		if acc > target {
			return bp, true
		}
	}
	return candidates[len(candidates)-1], true
}

// overlaps reports whether two square lots share interior area. Touching
// edges do not count.
func overlaps(a, b geometry.Lot) bool {
	const eps = 1e-9
	reach := (a.Scale+b.Scale)/2 - eps
	return math.Abs(a.Position[0]-b.Position[0]) < reach &&
		math.Abs(a.Position[2]-b.Position[2]) < reach
}

// District lays lots over a width by height grid. Each cell rolls a blueprint
// allowed by its population and is skipped when the lot would overlap one
// already placed.
type District struct{}

func (District) Name() string { return "district" }

func (District) Describe() string {
	return "Grid of lots zoned by a population table, with weighted blueprints and overlap rejection"
}

func (District) DefaultIterations() int { return 1 }

func (District) Setup(seed int64, params map[string]any, opts ...arbor.Option) (*Setup, error) {
	o := DefaultDistrictOptions()
	if err := decodeParams(params, &o); err != nil {
		return nil, err
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	bps, err := o.blueprints()
	if err != nil {
		return nil, err
	}

	h := &districtHandlers{opts: o, blueprints: bps, roll: noise.NewWhite(seed)}
	for _, bp := range bps {
		if bp.Footprint > h.widest {
			h.widest = bp.Footprint
		}
	}
	if o.Population == nil {
		h.population, _, err = CityTables(seed)
		if err != nil {
			return nil, err
		}
	}

	reg := registry.NewRegistry()
	reg.Register("plot", domain.ActionFunc(h.plot))
	reg.Register("step", domain.ActionFunc(func(s *domain.Scope, args ...any) error {
		axis, _ := args[0].(mgl64.Vec3)
		s.Turtle.ApplyTransform(mgl64.Translate3D(axis[0]*o.CellSize, axis[1]*o.CellSize, axis[2]*o.CellSize))
		return nil
	}))

	row := "[" + strings.Repeat("cX", o.Width) + "]Z"

	b := dsl.New(dsl.WithRegistry(reg))
	b.Axiom("G")
	b.Rule('G').To(strings.Repeat(row, o.Height))
	b.Symbol('c').Call("plot")
	b.Symbol('X').Call("step", mgl64.Vec3{1, 0, 0})
	b.Symbol('Z').Call("step", mgl64.Vec3{0, 0, 1})

	g, err := b.Build(seed, opts...)
	if err != nil {
		return nil, err
	}

	payload := NewPayload()
	payload.Index = geometry.NewSpatialIndex(float64(h.widest) * o.CellSize)
	return &Setup{Grammar: g, Payload: payload}, nil
}

type districtHandlers struct {
	opts       DistrictOptions
	blueprints []Blueprint
	population *noise.Table
	roll       *noise.White
	widest     int
}

func (h *districtHandlers) populationAt(x, z int) float64 {
	if h.opts.Population != nil {
		return *h.opts.Population
	}
	return noise.Unit(h.population.Sample(float64(x), float64(z)))
}

// plot claims the lot under the turtle.
func (h *districtHandlers) plot(s *domain.Scope, _ ...any) error {
	p, err := payloadOf(s)
	if err != nil {
		return err
	}

	pos := s.Turtle.Position
	x := int(math.Round(pos[0] / h.opts.CellSize))
	z := int(math.Round(pos[2] / h.opts.CellSize))
	pop := h.populationAt(x, z)

	u := noise.Unit(h.roll.Sample(float64(x)*31+13, float64(z)*29+19))
	bp, ok := rollBlueprint(h.blueprints, pop, u)
	if !ok {
		s.Logger.Debug("no blueprint fits cell", "x", x, "z", z, "population", pop)
		return nil
	}

	// Lots grow from their cell towards +X and +Z, into cells not yet visited.
	offset := float64(bp.Footprint-1) * h.opts.CellSize / 2
	lot := geometry.Lot{
		Kind:     bp.Kind,
		Position: mgl64.Vec4{pos[0] + offset, 0, pos[2] + offset, 1},
		Scale:    float64(bp.Footprint) * h.opts.CellSize,
	}

	// Two lots can only overlap when their centres are within this reach.
	reach := float64(bp.Footprint+h.widest) * h.opts.CellSize / 2 * math.Sqrt2
	for _, id := range p.Index.Query(lot.Position.Vec3(), reach) {
		if overlaps(p.lots[id], lot) {
			p.Collisions++
			s.Logger.Debug("lot overlaps", "x", x, "z", z, "kind", bp.Kind)
			return nil
		}
	}

	p.Index.Insert(lot.Position.Vec3(), len(p.lots))
	p.lots = append(p.lots, lot)
	p.Sink.AddLot(lot)

	if bp.Height > 0 {
		height := bp.Height * h.opts.CellSize * math.Max(pop, 0.25)
		model := mgl64.Translate3D(lot.Position[0], 0, lot.Position[2]).Mul4(mgl64.Scale3D(lot.Scale, height, lot.Scale))
		p.Sink.AddInstance(bp.Kind, model)
	}
	return nil
}
