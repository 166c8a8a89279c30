package domain

// ConstructEvent describes a finished rewriting run.
type ConstructEvent struct {
	Iterations int
	Length     int
	MaxDepth   int
}

// SelectionEvent describes a rule selection that ran out of attempts
// and fell back to the first rule.
type SelectionEvent struct {
	Source     rune
	Position   int
	Generation int
	Attempts   int
}

// SymbolEvent describes a handler invocation during an execution pass.
type SymbolEvent struct {
	Index  int
	Symbol rune
	Depth  int
}

// LifecycleHooks defines callbacks for engine observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnConstruct          func(*ConstructEvent)
	OnSelectionExhausted func(*SelectionEvent)
	OnSymbol             func(*SymbolEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnConstruct:          chain(h.OnConstruct, other.OnConstruct),
		OnSelectionExhausted: chain(h.OnSelectionExhausted, other.OnSelectionExhausted),
		OnSymbol:             chain(h.OnSymbol, other.OnSymbol),
	}
}

func chain[E any](a, b func(*E)) func(*E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *E) {
		a(e)
		b(e)
	}
}
