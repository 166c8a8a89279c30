// Package presets holds the ready-made grammars driven by the CLI, HTTP and
// MCP surfaces. Each preset registers its handlers by name, builds its grammar
// through the dsl package and owns a fresh payload per run.
package presets

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/geometry"
	"github.com/aretw0/arbor/pkg/schema"
)

var (
	// ErrUnknownPreset is returned when a preset name is not in the catalog.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrInvalidParams is returned when preset parameters fail to decode.
	ErrInvalidParams = errors.New("invalid preset parameters")
)

// Preset is a grammar client: it supplies handlers, rules and constraint data.
type Preset interface {
	Name() string
	Describe() string
	DefaultIterations() int
	Setup(seed int64, params map[string]any, opts ...arbor.Option) (*Setup, error)
}

// Setup is a grammar ready to run together with the state it writes into.
type Setup struct {
	Grammar    *arbor.Grammar
	Payload    *Payload
	Constraint any
}

// Payload is the caller-owned bag handlers reach through the scope.
type Payload struct {
	Sink       *geometry.Sink
	Index      *geometry.SpatialIndex
	Collisions int

	// segments and lots mirror what has been inserted into Index, by id.
	segments []geometry.Segment
	lots     []geometry.Lot
}

// NewPayload creates an empty payload with its own spatial index.
func NewPayload() *Payload {
	return &Payload{
		Sink:  geometry.NewSink(),
		Index: geometry.NewSpatialIndex(0.5),
	}
}

func payloadOf(s *domain.Scope) (*Payload, error) {
	p, ok := s.Payload.(*Payload)
	if !ok || p == nil {
		return nil, fmt.Errorf("payload: expected *presets.Payload, got %T", s.Payload)
	}
	return p, nil
}

// Outcome summarises one run of a preset.
type Outcome struct {
	Sequence    string
	MaxDepth    int
	Invocations int
	Collisions  int
	Instances   []geometry.Instance
	Segments    []geometry.Segment
	Lots        []geometry.Lot
}

// Run sets the preset up, validates the grammar, then constructs and processes it.
// A non-positive iteration count uses the preset default.
func Run(p Preset, seed int64, iterations int, params map[string]any, opts ...arbor.Option) (*Outcome, error) {
	if iterations <= 0 {
		iterations = p.DefaultIterations()
	}

	invocations := 0
	counter := arbor.WithLifecycleHooks(domain.LifecycleHooks{
		OnSymbol: func(*domain.SymbolEvent) { invocations++ },
	})

	all := append([]arbor.Option{arbor.WithName(p.Name())}, opts...)
	setup, err := p.Setup(seed, params, append(all, counter)...)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(setup.Grammar); err != nil {
		return nil, fmt.Errorf("preset %s: %w", p.Name(), err)
	}

	if _, err := setup.Grammar.Run(iterations, setup.Constraint, setup.Payload); err != nil {
		return nil, fmt.Errorf("preset %s: %w", p.Name(), err)
	}

	sink := setup.Payload.Sink
	return &Outcome{
		Sequence:    setup.Grammar.Sequence(),
		MaxDepth:    setup.Grammar.MaxDepth(),
		Invocations: invocations,
		Collisions:  setup.Payload.Collisions,
		Instances:   sink.Instances(),
		Segments:    sink.Segments(),
		Lots:        sink.Lots(),
	}, nil
}

// decodeParams fills out from params. Strings are coerced so "k=v" pairs
// from the command line decode into typed fields.
func decodeParams(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
