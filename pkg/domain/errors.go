package domain

import (
	"errors"
	"fmt"

	"github.com/aretw0/arbor/pkg/ds"
)

// ErrStackUnderflow is returned when ']' is executed without a matching '['.
var ErrStackUnderflow = ds.ErrStackUnderflow

// ErrMalformedParameterBlock is returned when a '{' has no closing '}'.
var ErrMalformedParameterBlock = errors.New("malformed parameter block")

// ErrInvalidIterations is returned when construct is asked for a negative generation count.
var ErrInvalidIterations = errors.New("iterations must not be negative")

// ErrNotConstructed is returned when process runs before any sequence exists.
var ErrNotConstructed = errors.New("grammar has no sequence, set an axiom first")

// SymbolError records where in the sequence an execution pass failed.
type SymbolError struct {
	Index  int
	Symbol rune
	Err    error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("symbol %q at index %d: %v", e.Symbol, e.Index, e.Err)
}

func (e *SymbolError) Unwrap() error {
	return e.Err
}

// ErrResultNotFound is returned by result stores for unknown ids.
var ErrResultNotFound = errors.New("result not found")
