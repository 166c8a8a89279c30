package domain

// Bracket runes with built-in save/restore semantics.
const (
	PushSymbol rune = '['
	PopSymbol  rune = ']'

	ParamOpen  rune = '{'
	ParamClose rune = '}'
	ParamSep        = ","
)

// Symbol is one registered rune of the alphabet.
type Symbol struct {
	Value  rune
	Action Action
	Args   []any
}
