package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type cell struct{ x, y, z int }

type entry struct {
	point mgl64.Vec3
	id    int
}

// SpatialIndex is a uniform grid of tagged points used for proximity queries.
// One index belongs to one run.
type SpatialIndex struct {
	size  float64
	cells map[cell][]entry
	count int
}

// NewSpatialIndex creates an index with the given cell size.
func NewSpatialIndex(cellSize float64) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialIndex{size: cellSize, cells: make(map[cell][]entry)}
}

func (ix *SpatialIndex) key(p mgl64.Vec3) cell {
	return cell{
		x: int(math.Floor(p[0] / ix.size)),
		y: int(math.Floor(p[1] / ix.size)),
		z: int(math.Floor(p[2] / ix.size)),
	}
}

// Insert adds a point tagged with id.
func (ix *SpatialIndex) Insert(p mgl64.Vec3, id int) {
	k := ix.key(p)
	ix.cells[k] = append(ix.cells[k], entry{point: p, id: id})
	ix.count++
}

// Len returns the number of points.
func (ix *SpatialIndex) Len() int { return ix.count }

// Query returns the distinct ids of every point within radius of p.
func (ix *SpatialIndex) Query(p mgl64.Vec3, radius float64) []int {
	if radius < 0 || math.IsNaN(radius) {
		return nil
	}
	r2 := radius * radius

	var ids []int
	seen := make(map[int]struct{})
	visit := func(entries []entry) {
		for _, e := range entries {
			d := e.point.Sub(p)
			if d.Dot(d) > r2 {
				continue
			}
			if _, dup := seen[e.id]; dup {
				continue
			}
			seen[e.id] = struct{}{}
			ids = append(ids, e.id)
		}
	}

	// A wide radius walks the occupied cells instead of the cube around p.
	span := math.Ceil(radius / ix.size)
	side := 2*span + 1
	if side*side*side > float64(len(ix.cells)) {
		for _, entries := range ix.cells {
			visit(entries)
		}
		return ids
	}

	k := ix.key(p)
	n := int(span)
	for dx := -n; dx <= n; dx++ {
		for dy := -n; dy <= n; dy++ {
			for dz := -n; dz <= n; dz++ {
				visit(ix.cells[cell{k.x + dx, k.y + dy, k.z + dz}])
			}
		}
	}
	return ids
}

// SegmentDistance returns the shortest distance between segments a0-a1 and b0-b1.
func SegmentDistance(a0, a1, b0, b1 mgl64.Vec3) float64 {
	const eps = 1e-9

	u := a1.Sub(a0)
	v := b1.Sub(b0)
	w := a0.Sub(b0)

	a := u.Dot(u)
	b := u.Dot(v)
	c := v.Dot(v)
	d := u.Dot(w)
	e := v.Dot(w)
	den := a*c - b*b

	sN, sD := 0.0, den
	tN, tD := 0.0, den

	if den < eps {
		sN, sD = 0, 1
		tN, tD = e, c
	} else {
		sN = b*e - c*d
		tN = a*e - b*d
		switch {
		case sN < 0:
			sN = 0
			tN, tD = e, c
		case sN > sD:
			sN = sD
			tN, tD = e+b, c
		}
	}

	switch {
	case tN < 0:
		tN = 0
		switch {
		case -d < 0:
			sN = 0
		case -d > a:
			sN = sD
		default:
			sN, sD = -d, a
		}
	case tN > tD:
		tN = tD
		switch {
		case -d+b < 0:
			sN = 0
		case -d+b > a:
			sN = sD
		default:
			sN, sD = -d+b, a
		}
	}

	sc, tc := 0.0, 0.0
	if math.Abs(sN) > eps && sD != 0 {
		sc = sN / sD
	}
	if math.Abs(tN) > eps && tD != 0 {
		tc = tN / tD
	}

	return w.Add(u.Mul(sc)).Sub(v.Mul(tc)).Len()
}
