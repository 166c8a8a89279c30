package domain

import (
	"time"

	"github.com/aretw0/arbor/pkg/geometry"
)

// Result is a stored generation: the request that produced it and what
// the grammar emitted.
type Result struct {
	ID          string              `json:"id"`
	Preset      string              `json:"preset"`
	Seed        int64               `json:"seed"`
	Iterations  int                 `json:"iterations"`
	Params      map[string]any      `json:"params,omitempty"`
	Sequence    string              `json:"sequence"`
	MaxDepth    int                 `json:"max_depth"`
	Invocations int                 `json:"invocations"`
	Collisions  int                 `json:"collisions"`
	Instances   []geometry.Instance `json:"instances,omitempty"`
	Segments    []geometry.Segment  `json:"segments,omitempty"`
	Lots        []geometry.Lot      `json:"lots,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Clone returns a copy that shares no slices or maps with r.
func (r *Result) Clone() *Result {
	c := *r
	if r.Params != nil {
		c.Params = make(map[string]any, len(r.Params))
		for k, v := range r.Params {
			c.Params[k] = v
		}
	}
	c.Instances = append([]geometry.Instance(nil), r.Instances...)
	c.Segments = append([]geometry.Segment(nil), r.Segments...)
	c.Lots = append([]geometry.Lot(nil), r.Lots...)
	return &c
}
