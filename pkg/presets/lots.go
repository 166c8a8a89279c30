package presets

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/aretw0/arbor/pkg/geometry"
	"github.com/aretw0/arbor/pkg/registry"
)

// LotsOptions configure the lot strip preset.
type LotsOptions struct {
	Spacing float64 `mapstructure:"spacing"`
	Scale   float64 `mapstructure:"scale"`
	Turn    float64 `mapstructure:"turn"`
}

// DefaultLotsOptions returns the lot strip defaults.
func DefaultLotsOptions() LotsOptions {
	return LotsOptions{Spacing: 1, Scale: 30, Turn: -90}
}

// Lots walks a loop of square lots: claim, step forward, turn, repeat.
type Lots struct{}

func (Lots) Name() string { return "lots" }

func (Lots) Describe() string {
	return "Square lots laid out by a claim, step and turn loop"
}

func (Lots) DefaultIterations() int { return 4 }

func (Lots) Setup(seed int64, params map[string]any, opts ...arbor.Option) (*Setup, error) {
	o := DefaultLotsOptions()
	if err := decodeParams(params, &o); err != nil {
		return nil, err
	}

	reg := registry.NewRegistry()
	reg.Register("lot", domain.ActionFunc(func(s *domain.Scope, _ ...any) error {
		p, err := payloadOf(s)
		if err != nil {
			return err
		}
		p.Sink.AddLot(geometry.Lot{
			Kind:     "square",
			Position: s.Turtle.Transform.Mul4x1(mgl64.Vec4{0, 0, 0, 1}),
			Scale:    o.Scale,
		})
		return nil
	}))
	reg.Register("step", domain.ActionFunc(func(s *domain.Scope, _ ...any) error {
		d, err := s.Float(0, 1)
		if err != nil {
			return err
		}
		s.Turtle.ApplyTransform(mgl64.Translate3D(d*o.Spacing, 0, 0))
		return nil
	}))
	reg.Register("turn", domain.ActionFunc(func(s *domain.Scope, _ ...any) error {
		s.Turtle.ApplyTransform(mgl64.HomogRotate3DY(mgl64.DegToRad(o.Turn)))
		return nil
	}))

	b := dsl.New(dsl.WithRegistry(reg))
	b.Axiom("P")
	b.Rule('P').To("bF{1}+P")
	b.Symbol('b').Call("lot")
	b.Symbol('F').Call("step")
	b.Symbol('+').Call("turn")

	g, err := b.Build(seed, opts...)
	if err != nil {
		return nil, err
	}
	return &Setup{Grammar: g, Payload: NewPayload()}, nil
}
