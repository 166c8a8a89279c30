package domain

// Action is the behaviour bound to a Symbol.
// It receives the execution scope and the symbol's static arguments.
// A non-nil error aborts the execution pass.
type Action interface {
	Apply(scope *Scope, args ...any) error
}

// ActionFunc adapts an ordinary function to Action.
type ActionFunc func(scope *Scope, args ...any) error

// Apply calls f(scope, args...).
func (f ActionFunc) Apply(scope *Scope, args ...any) error {
	return f(scope, args...)
}

// Effect adapts a handler that cannot fail.
func Effect(fn func(scope *Scope)) Action {
	return ActionFunc(func(scope *Scope, _ ...any) error {
		fn(scope)
		return nil
	})
}

// SaveState is the built-in action for '['.
var SaveState Action = ActionFunc(func(scope *Scope, _ ...any) error {
	scope.SaveState()
	scope.Depth++
	return nil
})

// RestoreState is the built-in action for ']'.
var RestoreState Action = ActionFunc(func(scope *Scope, _ ...any) error {
	if err := scope.RestoreState(); err != nil {
		return err
	}
	scope.Depth--
	return nil
})
