// Package turtle implements the geometric cursor driven by grammar symbols.
//
// A Turtle carries a position and heading in homogeneous coordinates plus the
// cumulative transform that produced them. Handlers move it either relative to
// its current frame (ApplyTransform) or by rebuilding it from the canonical
// origin (ApplyTransformPre).
package turtle

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// Origin is the canonical starting position.
	Origin = mgl64.Vec4{0, 0, 0, 1}
	// Forward is the canonical starting heading (+Y).
	Forward = mgl64.Vec4{0, 1, 0, 0}
)

// Turtle is the cursor mutated by symbol handlers.
type Turtle struct {
	Position  mgl64.Vec4
	Heading   mgl64.Vec4
	Transform mgl64.Mat4
}

// New returns a turtle at the origin, heading +Y, with an identity transform.
func New() *Turtle {
	return &Turtle{
		Position:  Origin,
		Heading:   Forward,
		Transform: mgl64.Ident4(),
	}
}

// ApplyTransform composes m onto the turtle's current frame.
// Position and heading are moved by m and the transform is post-multiplied.
func (t *Turtle) ApplyTransform(m mgl64.Mat4) {
	t.Position = m.Mul4x1(t.Position)
	t.Heading = normalizeDirection(m.Mul4x1(t.Heading))
	t.Transform = t.Transform.Mul4(m)
}

// ApplyTransformPre pre-multiplies m onto the transform and rebuilds position
// and heading from the canonical origin and forward vectors.
func (t *Turtle) ApplyTransformPre(m mgl64.Mat4) {
	t.Transform = m.Mul4(t.Transform)
	t.Position = t.Transform.Mul4x1(Origin)
	t.Heading = normalizeDirection(t.Transform.Mul4x1(Forward))
}

// Clone returns a deep copy of the turtle.
func (t *Turtle) Clone() *Turtle {
	c := *t
	return &c
}

// CloneFrom overwrites the turtle with a copy of other.
func (t *Turtle) CloneFrom(other *Turtle) {
	t.Position = other.Position
	t.Heading = other.Heading
	t.Transform = other.Transform
}

// WorldPoint maps a point in the turtle's local frame to world space.
func (t *Turtle) WorldPoint(local mgl64.Vec3) mgl64.Vec3 {
	return t.Transform.Mul4x1(local.Vec4(1)).Vec3()
}

// ApproxEqual reports whether two turtles match within floating point tolerance.
func (t *Turtle) ApproxEqual(other *Turtle) bool {
	return t.Position.ApproxEqual(other.Position) &&
		t.Heading.ApproxEqual(other.Heading) &&
		t.Transform.ApproxEqual(other.Transform)
}

func (t *Turtle) String() string {
	return fmt.Sprintf("pos(%.3f, %.3f, %.3f) heading(%.3f, %.3f, %.3f)",
		t.Position[0], t.Position[1], t.Position[2],
		t.Heading[0], t.Heading[1], t.Heading[2])
}

// LogValue defers formatting until a handler actually emits the record.
func (t *Turtle) LogValue() slog.Value {
	if t == nil {
		return slog.StringValue("<nil>")
	}
	return slog.StringValue(t.String())
}

// normalizeDirection rescales the xyz part to unit length and pins w to 0.
// Degenerate (zero length) headings are returned unchanged.
func normalizeDirection(v mgl64.Vec4) mgl64.Vec4 {
	d := v.Vec3()
	l := d.Len()
	if l == 0 {
		return mgl64.Vec4{v[0], v[1], v[2], 0}
	}
	d = d.Mul(1 / l)
	return d.Vec4(0)
}
