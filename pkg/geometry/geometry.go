// Package geometry holds the output produced by grammar handlers.
package geometry

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Instance places a named mesh with a world transform.
type Instance struct {
	Mesh      string     `json:"mesh"`
	Transform mgl64.Mat4 `json:"transform"`
}

// Segment is a straight piece of a branch.
type Segment struct {
	From  mgl64.Vec3 `json:"from"`
	To    mgl64.Vec3 `json:"to"`
	Depth int        `json:"depth"`
}

// Length returns the euclidean length of the segment.
func (s Segment) Length() float64 {
	return s.To.Sub(s.From).Len()
}

// Lot is a parcel of land claimed by a block grammar.
type Lot struct {
	Kind     string     `json:"kind"`
	Position mgl64.Vec4 `json:"position"`
	Scale    float64    `json:"scale"`
}

// Sink collects handler output. It is safe for concurrent use so a caller may
// read counts while a run is in progress.
type Sink struct {
	mu        sync.Mutex
	instances []Instance
	segments  []Segment
	lots      []Lot
}

// NewSink creates an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) AddInstance(mesh string, transform mgl64.Mat4) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances = append(s.instances, Instance{Mesh: mesh, Transform: transform})
}

func (s *Sink) AddSegment(seg Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = append(s.segments, seg)
}

func (s *Sink) AddLot(lot Lot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lots = append(s.lots, lot)
}

// Instances returns a copy of the collected instances.
func (s *Sink) Instances() []Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Instance(nil), s.instances...)
}

// Segments returns a copy of the collected segments.
func (s *Sink) Segments() []Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Segment(nil), s.segments...)
}

// Lots returns a copy of the collected lots.
func (s *Sink) Lots() []Lot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Lot(nil), s.lots...)
}

// Bounds returns the axis aligned box enclosing every segment endpoint and
// lot position. ok is false when the sink is empty.
func (s *Sink) Bounds() (min, max mgl64.Vec3, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grow := func(p mgl64.Vec3) {
		if !ok {
			min, max, ok = p, p, true
			return
		}
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}

	for _, seg := range s.segments {
		grow(seg.From)
		grow(seg.To)
	}
	for _, lot := range s.lots {
		grow(lot.Position.Vec3())
	}
	return min, max, ok
}
