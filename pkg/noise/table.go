package noise

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// Table is a precomputed noise grid. Coordinates wrap around its size.
type Table struct {
	SizeX  int         `json:"sizeX"`
	SizeY  int         `json:"sizeY"`
	Values [][]float64 `json:"values"`
}

// BakeOptions controls how a table is sampled from a live source.
type BakeOptions struct {
	// Scale divides grid coordinates before sampling. Zero means 1.
	Scale float64
	// Octaves above 1 sample fractal noise.
	Octaves int
}

// Bake samples src over a sizeX by sizeY grid.
func Bake(src Source, sizeX, sizeY int, opts BakeOptions) (*Table, error) {
	if sizeX <= 0 || sizeY <= 0 {
		return nil, fmt.Errorf("invalid table size %dx%d", sizeX, sizeY)
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	t := &Table{SizeX: sizeX, SizeY: sizeY, Values: make([][]float64, sizeX)}
	for i := 0; i < sizeX; i++ {
		row := make([]float64, sizeY)
		for j := 0; j < sizeY; j++ {
			x, y := float64(i)/scale, float64(j)/scale
			if opts.Octaves > 1 {
				row[j] = FBM(src, x, y, opts.Octaves)
			} else {
				row[j] = clamp(src.Sample(x, y))
			}
		}
		t.Values[i] = row
	}
	return t, nil
}

// Sample looks up the cell containing (x, y), wrapping negative and
// out-of-range coordinates.
func (t *Table) Sample(x, y float64) float64 {
	if t.SizeX == 0 || t.SizeY == 0 {
		return 0
	}
	i := wrap(x, t.SizeX)
	j := wrap(y, t.SizeY)
	row := t.Values[i]
	if j >= len(row) {
		return 0
	}
	return row[j]
}

func wrap(v float64, size int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	i := int(math.Mod(math.Floor(v), float64(size)))
	if i < 0 {
		i += size
	}
	return i
}

func (t *Table) validate() error {
	if t.SizeX <= 0 || t.SizeY <= 0 {
		return fmt.Errorf("invalid table size %dx%d", t.SizeX, t.SizeY)
	}
	if len(t.Values) != t.SizeX {
		return fmt.Errorf("table has %d rows, want %d", len(t.Values), t.SizeX)
	}
	for i, row := range t.Values {
		if len(row) != t.SizeY {
			return fmt.Errorf("table row %d has %d values, want %d", i, len(row), t.SizeY)
		}
	}
	return nil
}

// LoadTables decodes a JSON document of named tables:
//
//	{"simplex2d": {"sizeX": 2, "sizeY": 2, "values": [[0, 1], [1, 0]]}}
func LoadTables(r io.Reader) (map[string]*Table, error) {
	var tables map[string]*Table
	if err := json.NewDecoder(r).Decode(&tables); err != nil {
		return nil, fmt.Errorf("failed to decode noise tables: %w", err)
	}
	for name, t := range tables {
		if t == nil {
			return nil, fmt.Errorf("table %q is null", name)
		}
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("table %q: %w", name, err)
		}
	}
	return tables, nil
}

// WriteTables encodes named tables in the format read by LoadTables.
func WriteTables(w io.Writer, tables map[string]*Table) error {
	return json.NewEncoder(w).Encode(tables)
}
