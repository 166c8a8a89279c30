package domain

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/arbor/pkg/ds"
	"github.com/aretw0/arbor/pkg/noise"
	"github.com/aretw0/arbor/pkg/turtle"
)

// Scope is the state of a single execution pass.
// It is created fresh by every process call and handed to each Action.
type Scope struct {
	// Turtle is the cursor handlers move.
	Turtle *turtle.Turtle

	// Stack holds deep copies of the turtle saved by '['.
	Stack *ds.Stack[*turtle.Turtle]

	// Index is the position of the symbol being executed.
	Index int

	// Depth is the current bracket nesting, starting at 1.
	Depth int

	// MaxDepth is the metric computed by construct.
	MaxDepth int

	// Sequence is the terminal sequence being executed. Read-only.
	Sequence []rune

	// Noise is the grammar's noise source.
	Noise noise.Source

	// RuleData holds the comma separated values of the symbol's parameter block,
	// or nil when the symbol has none.
	RuleData []string

	// Payload is the caller-owned bag (output sinks, constraints, influencers).
	Payload any

	Logger *slog.Logger
}

// NewScope creates a scope with a canonical turtle and an empty stack.
func NewScope(sequence []rune, payload any) *Scope {
	return &Scope{
		Turtle:   turtle.New(),
		Stack:    ds.NewStack[*turtle.Turtle](),
		Depth:    1,
		Sequence: sequence,
		Payload:  payload,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SaveState pushes a deep copy of the current turtle.
func (s *Scope) SaveState() {
	s.Stack.Push(s.Turtle.Clone())
	s.Logger.Debug("saving state", "index", s.Index, "turtle", s.Turtle)
}

// RestoreState replaces the turtle with the most recently saved copy.
func (s *Scope) RestoreState() error {
	saved, err := s.Stack.Pop()
	if err != nil {
		return err
	}
	s.Turtle = saved.Clone()
	s.Logger.Debug("restoring state", "index", s.Index, "turtle", s.Turtle)
	return nil
}

// Float parses RuleData[i] as a float, returning def when the value is absent.
func (s *Scope) Float(i int, def float64) (float64, error) {
	if i >= len(s.RuleData) {
		return def, nil
	}
	raw := strings.TrimSpace(s.RuleData[i])
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def, fmt.Errorf("rule data %d: %w", i, err)
	}
	return v, nil
}

// Floats parses every RuleData value.
func (s *Scope) Floats() ([]float64, error) {
	out := make([]float64, 0, len(s.RuleData))
	for i := range s.RuleData {
		v, err := s.Float(i, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
