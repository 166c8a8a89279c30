package presets

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/aretw0/arbor/pkg/geometry"
	"github.com/aretw0/arbor/pkg/noise"
	"github.com/aretw0/arbor/pkg/registry"
)

// CityConstraint is the generation constraint of a city block.
// Both values are in [0,1].
type CityConstraint struct {
	Population float64
	LandValue  float64
}

// CityOptions configure the city block preset. Unset population and land
// value are read from a baked noise table at Site.
type CityOptions struct {
	Population *float64  `mapstructure:"population"`
	LandValue  *float64  `mapstructure:"land_value"`
	Site       []float64 `mapstructure:"site"`
	BlockSize  float64   `mapstructure:"block_size"`
}

// DefaultCityOptions returns the city block defaults.
func DefaultCityOptions() CityOptions {
	return CityOptions{BlockSize: 10}
}

const cityTableSize = 32

// CityTables bakes the population and land value tables for seed.
func CityTables(seed int64) (population, landValue *noise.Table, err error) {
	population, err = noise.Bake(noise.NewSimplex(seed), cityTableSize, cityTableSize, noise.BakeOptions{Scale: 8, Octaves: 4})
	if err != nil {
		return nil, nil, err
	}
	landValue, err = noise.Bake(noise.NewSimplex(seed+1), cityTableSize, cityTableSize, noise.BakeOptions{Scale: 12, Octaves: 2})
	if err != nil {
		return nil, nil, err
	}
	return population, landValue, nil
}

func (o CityOptions) constraint(seed int64) (CityConstraint, error) {
	c := CityConstraint{}
	if o.Population != nil && o.LandValue != nil {
		c.Population, c.LandValue = *o.Population, *o.LandValue
		return c, c.check()
	}

	x, y := 0.0, 0.0
	switch len(o.Site) {
	case 0:
	case 2:
		x, y = o.Site[0], o.Site[1]
	default:
		return c, fmt.Errorf("%w: site needs 2 components, got %d", ErrInvalidParams, len(o.Site))
	}

	pop, land, err := CityTables(seed)
	if err != nil {
		return c, err
	}
	c.Population = noise.Unit(pop.Sample(x, y))
	c.LandValue = noise.Unit(land.Sample(x, y))
	if o.Population != nil {
		c.Population = *o.Population
	}
	if o.LandValue != nil {
		c.LandValue = *o.LandValue
	}
	return c, c.check()
}

func (c CityConstraint) check() error {
	if c.Population < 0 || c.Population > 1 || c.LandValue < 0 || c.LandValue > 1 {
		return fmt.Errorf("%w: population and land_value must be in [0,1]", ErrInvalidParams)
	}
	return nil
}

func cityConstraint(v any) CityConstraint {
	c, _ := v.(CityConstraint)
	return c
}

// City lays a street of blocks whose use depends on population and land value.
type City struct{}

func (City) Name() string { return "city" }

func (City) Describe() string {
	return "Street of city blocks zoned as towers, houses or parks by population and land value"
}

func (City) DefaultIterations() int { return 6 }

func (City) Setup(seed int64, params map[string]any, opts ...arbor.Option) (*Setup, error) {
	o := DefaultCityOptions()
	if err := decodeParams(params, &o); err != nil {
		return nil, err
	}
	c, err := o.constraint(seed)
	if err != nil {
		return nil, err
	}

	reg := registry.NewRegistry()
	reg.Register("advance", domain.ActionFunc(func(s *domain.Scope, _ ...any) error {
		d, err := s.Float(0, 1)
		if err != nil {
			return err
		}
		s.Turtle.ApplyTransformPre(mgl64.Translate3D(d*o.BlockSize, 0, 0))
		return nil
	}))
	reg.Register("build", domain.ActionFunc(func(s *domain.Scope, args ...any) error {
		p, err := payloadOf(s)
		if err != nil {
			return err
		}
		kind, _ := args[0].(string)
		height, _ := args[1].(float64)

		p.Sink.AddLot(geometry.Lot{Kind: kind, Position: s.Turtle.Position, Scale: o.BlockSize})
		if height > 0 {
			p.Sink.AddInstance(kind, s.Turtle.Transform.Mul4(mgl64.Scale3D(o.BlockSize, height, o.BlockSize)))
		}
		return nil
	}))

	b := dsl.New(dsl.WithRegistry(reg))
	b.Axiom("S")
	b.Rule('S').To("[L]F{1}S")
	b.Rule('L').To("p").Weight(1)
	b.Rule('L').To("h").Weight(3).When(func(v any) bool {
		return cityConstraint(v).Population > 0.2
	})
	b.Rule('L').To("t").Weight(2).When(func(v any) bool {
		cc := cityConstraint(v)
		return cc.Population > 0.6 && cc.LandValue > 0.5
	})
	b.Symbol('F').Call("advance")
	b.Symbol('p').Call("build", "park", 0.0)
	b.Symbol('h').Call("build", "house", o.BlockSize*0.4)
	b.Symbol('t').Call("build", "tower", o.BlockSize*(2+6*c.Population))

	g, err := b.Build(seed, opts...)
	if err != nil {
		return nil, err
	}
	return &Setup{Grammar: g, Payload: NewPayload(), Constraint: c}, nil
}
