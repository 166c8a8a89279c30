/*
Package dsl provides a fluent builder for arbor grammars.

	b := dsl.New(dsl.WithRegistry(reg))
	b.Axiom("P")
	b.Rule('P').To("bF{1}+P")
	b.Symbol('b').Call("lot")
	b.Symbol('F').Do(forward)

	g, err := b.Build(546)

Named actions are looked up in the registry when Build runs, so a missing
handler is reported before any generation happens.
*/
package dsl
