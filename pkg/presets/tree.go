package presets

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/aretw0/arbor/pkg/geometry"
	"github.com/aretw0/arbor/pkg/noise"
	"github.com/aretw0/arbor/pkg/registry"
)

// TreeOptions are the influencers and constraints of the tree preset.
type TreeOptions struct {
	Gravity              float64   `mapstructure:"gravity"`
	Sunlight             float64   `mapstructure:"sunlight"`
	SunDirection         []float64 `mapstructure:"sun_direction"`
	CollisionCheck       bool      `mapstructure:"collision_check"`
	MinCollisionDistance float64   `mapstructure:"min_collision_distance"`
	RotateSwirl          float64   `mapstructure:"rotate_swirl"`
	RotateSwirlNoise     float64   `mapstructure:"rotate_swirl_noise"`
	RotateTilt           float64   `mapstructure:"rotate_tilt"`
	RotateTiltNoise      float64   `mapstructure:"rotate_tilt_noise"`
	LeafVariants         int       `mapstructure:"leaf_variants"`
}

// DefaultTreeOptions returns the tree preset defaults.
func DefaultTreeOptions() TreeOptions {
	return TreeOptions{
		Gravity:              1,
		Sunlight:             1,
		SunDirection:         []float64{1, 1, 0},
		MinCollisionDistance: 0.05,
		RotateSwirl:          30,
		RotateSwirlNoise:     10,
		RotateTilt:           25,
		RotateTiltNoise:      10,
		LeafVariants:         3,
	}
}

func (o TreeOptions) sun() (mgl64.Vec3, error) {
	if len(o.SunDirection) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("%w: sun_direction needs 3 components, got %d", ErrInvalidParams, len(o.SunDirection))
	}
	d := mgl64.Vec3{o.SunDirection[0], o.SunDirection[1], o.SunDirection[2]}
	if d.Len() == 0 {
		return mgl64.Vec3{}, fmt.Errorf("%w: sun_direction is zero", ErrInvalidParams)
	}
	return d.Normalize(), nil
}

// validate bounds the params that size collision queries.
func (o TreeOptions) validate() error {
	if math.IsNaN(o.MinCollisionDistance) || o.MinCollisionDistance <= 0 || o.MinCollisionDistance > 1 {
		return fmt.Errorf("%w: min_collision_distance must be in (0, 1], got %v", ErrInvalidParams, o.MinCollisionDistance)
	}
	return nil
}

// Tree grows a stochastic branching tree influenced by gravity and sunlight.
type Tree struct{}

func (Tree) Name() string { return "tree" }

func (Tree) Describe() string {
	return "Branching tree with weighted growth rules, leaves, gravity and sunlight bending"
}

func (Tree) DefaultIterations() int { return 3 }

func (Tree) Setup(seed int64, params map[string]any, opts ...arbor.Option) (*Setup, error) {
	o := DefaultTreeOptions()
	if err := decodeParams(params, &o); err != nil {
		return nil, err
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	sun, err := o.sun()
	if err != nil {
		return nil, err
	}
	if o.LeafVariants < 1 {
		o.LeafVariants = 1
	}

	h := &treeHandlers{opts: o, sun: sun, jitter: noise.NewSimplex(seed)}

	reg := registry.NewRegistry()
	reg.Register("branch", domain.ActionFunc(h.branch))
	reg.Register("leaf", domain.ActionFunc(h.leaf))
	reg.Register("nature", domain.ActionFunc(h.natureTick))
	reg.Register("swirl", domain.ActionFunc(h.rotate))
	reg.Register("tilt", domain.ActionFunc(h.rotate))

	b := dsl.New(dsl.WithRegistry(reg))
	b.Axiom("[F][/-F][*+F][++*F][--*F]")
	b.Rule('F').To("BS++[/lBFS][*BFS]++[/BFS][*lBFS]").Weight(5)
	b.Rule('F').To("BS++[/lBFS][*BFS]++[/BFS]").Weight(7)
	b.Rule('F').To("BS++[/BFS][*BFS]").Weight(4)
	b.Rule('B').To("SD[l+++l+++l]SD")

	b.Symbol('D').Call("branch")
	b.Symbol('l').Call("leaf")
	b.Symbol('S').Call("nature")
	b.Symbol('+').Call("swirl", mgl64.Vec3{0, 1, 0}, -o.RotateSwirl, o.RotateSwirlNoise)
	b.Symbol('-').Call("swirl", mgl64.Vec3{0, 1, 0}, o.RotateSwirl, o.RotateSwirlNoise)
	b.Symbol('/').Call("tilt", mgl64.Vec3{0, 0, 1}, -o.RotateTilt, o.RotateTiltNoise)
	b.Symbol('*').Call("tilt", mgl64.Vec3{0, 0, 1}, o.RotateTilt, o.RotateTiltNoise)

	g, err := b.Build(seed, opts...)
	if err != nil {
		return nil, err
	}
	return &Setup{Grammar: g, Payload: NewPayload()}, nil
}

type treeHandlers struct {
	opts   TreeOptions
	sun    mgl64.Vec3
	jitter *noise.Simplex
}

func (h *treeHandlers) sampleAt(p mgl64.Vec3) float64 {
	return h.jitter.Sample3(p[0], p[1], p[2])
}

// branch draws one segment scaled by depth and moves the turtle to its end.
func (h *treeHandlers) branch(s *domain.Scope, _ ...any) error {
	p, err := payloadOf(s)
	if err != nil {
		return err
	}

	depthFactor := float64(s.Depth) * 0.45
	travel := 1 / (depthFactor * depthFactor)
	scale := 0.1 / depthFactor
	if s.Depth <= 2 {
		travel = 0.4
		scale = 0.1
	}

	t := s.Turtle
	origin := t.WorldPoint(mgl64.Vec3{})
	travel += 0.1 * h.sampleAt(origin)

	if origin.Y() < 0 {
		return nil
	}

	head := t.WorldPoint(mgl64.Vec3{0, travel, 0})
	seg := geometry.Segment{From: origin, To: head, Depth: s.Depth}

	if h.opts.CollisionCheck {
		if h.collides(p, seg) {
			p.Collisions++
			s.Logger.Debug("branch collision", "index", s.Index, "depth", s.Depth)
			return nil
		}
		h.insert(p, seg)
	}

	p.Sink.AddInstance("branch", t.Transform.Mul4(mgl64.Scale3D(scale, travel, scale)))
	p.Sink.AddSegment(seg)
	t.ApplyTransform(mgl64.Translate3D(0, travel, 0))
	return nil
}

// shrink trims a segment to the part used for collision tests so a branch
// never collides with the one it grows from.
func shrink(seg geometry.Segment) (mgl64.Vec3, mgl64.Vec3) {
	dir := seg.To.Sub(seg.From)
	length := dir.Len()
	if length == 0 {
		return seg.From, seg.To
	}
	dir = dir.Mul(1 / length)
	return seg.From.Add(dir.Mul(0.05)), seg.From.Add(dir.Mul(0.95 * length))
}

func (h *treeHandlers) collides(p *Payload, seg geometry.Segment) bool {
	a0, a1 := shrink(seg)
	mid := a0.Add(a1).Mul(0.5)
	radius := seg.Length() + h.opts.MinCollisionDistance + 1

	for _, id := range p.Index.Query(mid, radius) {
		b0, b1 := shrink(p.segments[id])
		if geometry.SegmentDistance(a0, a1, b0, b1) < h.opts.MinCollisionDistance {
			return true
		}
	}
	return false
}

func (h *treeHandlers) insert(p *Payload, seg geometry.Segment) {
	id := len(p.segments)
	p.segments = append(p.segments, seg)
	a0, a1 := shrink(seg)
	p.Index.Insert(a0, id)
	p.Index.Insert(a0.Add(a1).Mul(0.5), id)
	p.Index.Insert(a1, id)
}

// leaf places a leaf mesh on branches deep and high enough to carry one.
func (h *treeHandlers) leaf(s *domain.Scope, _ ...any) error {
	if s.Depth < 3 {
		return nil
	}
	p, err := payloadOf(s)
	if err != nil {
		return err
	}

	model := s.Turtle.Transform.Mul4(mgl64.Scale3D(0.2, 0.2, 0.2))
	origin := model.Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
	if origin.Y() < 1 {
		return nil
	}

	hang := model.Mul4x1(mgl64.Vec4{0, -1, 0, 1}).Vec3().Sub(origin)
	if hang.Len() > 0 {
		xz := mgl64.Vec3{1, 0, 1}.Normalize()
		angle := math.Acos(mgl64.Clamp(hang.Normalize().Dot(xz), -1, 1))
		if angle > mgl64.DegToRad(120) {
			angle = math.Pi - angle
		}
		model = model.Mul4(mgl64.HomogRotate3DZ(angle))
	}

	variant := int(float64(h.opts.LeafVariants-1) * noise.Unit(h.sampleAt(s.Turtle.Position.Vec3().Mul(23))))
	if !deeperLeafAhead(s.Sequence, s.Index, s.Depth) {
		variant = h.opts.LeafVariants - 1
	}

	p.Sink.AddInstance(fmt.Sprintf("leaf%d", variant), model)
	return nil
}

// deeperLeafAhead reports whether a leaf at greater nesting follows index
// before the enclosing branch closes.
func deeperLeafAhead(seq []rune, index, depth int) bool {
	d := depth
	for i := index + 1; i < len(seq); i++ {
		switch seq[i] {
		case domain.PushSymbol:
			d++
		case domain.PopSymbol:
			d--
		case 'l':
			if d > depth {
				return true
			}
		}
		if d <= 0 {
			break
		}
	}
	return false
}

// natureTick bends the heading toward the sun and down with gravity.
// Gravity grows with depth.
func (h *treeHandlers) natureTick(s *domain.Scope, _ ...any) error {
	t := s.Turtle
	origin := t.WorldPoint(mgl64.Vec3{})
	heading := t.WorldPoint(mgl64.Vec3{0, 0.5, 0}).Sub(origin)
	if heading.Len() == 0 {
		return nil
	}
	heading = heading.Normalize()

	m := mgl64.Ident4()
	if axis := heading.Cross(mgl64.Vec3{0, -1, 0}); axis.Len() > 1e-9 && s.MaxDepth > 0 {
		factor := float64(s.Depth) / float64(s.MaxDepth)
		m = m.Mul4(mgl64.HomogRotate3D(mgl64.DegToRad(20)*factor*h.opts.Gravity, axis.Normalize()))
	}
	if axis := heading.Cross(h.sun); axis.Len() > 1e-9 {
		m = m.Mul4(mgl64.HomogRotate3D(mgl64.DegToRad(10)*h.opts.Sunlight, axis.Normalize()))
	}

	t.ApplyTransform(m)
	return nil
}

// rotate turns the turtle about args[0] by args[1] degrees plus up to
// args[2] degrees of coherent noise.
func (h *treeHandlers) rotate(s *domain.Scope, args ...any) error {
	if len(args) != 3 {
		return fmt.Errorf("rotate: expected axis, angle and jitter, got %d args", len(args))
	}
	axis, ok1 := args[0].(mgl64.Vec3)
	angle, ok2 := args[1].(float64)
	jitter, ok3 := args[2].(float64)
	if !ok1 || !ok2 || !ok3 {
		return fmt.Errorf("rotate: bad argument types %T, %T, %T", args[0], args[1], args[2])
	}

	n := noise.Unit(h.sampleAt(s.Turtle.Position.Vec3()))
	delta := jitter * (n - 0.5) * 2
	s.Turtle.ApplyTransform(mgl64.HomogRotate3D(mgl64.DegToRad(angle+delta), axis))
	return nil
}
