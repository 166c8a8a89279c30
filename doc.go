/*
Package arbor is a parametric, stochastic string-rewriting engine (an L-system)
with an attached turtle interpreter, used to grow branching structures such as
trees, lot strips and city blocks from a small symbolic grammar.

# Concept

A Grammar holds an axiom, a set of weighted production rules, and the actions
bound to each symbol. Construct rewrites the axiom generation by generation;
Process walks the resulting string once, running each symbol's action against a
fresh Scope that owns a Turtle and a save/restore stack. Actions emit their
results into a caller-owned payload.

# Key Features

  - Deterministic: the same seed, axiom, rules and iteration count always give the same output.
  - Weighted, predicate-gated rules with a bounded retry and a defined fallback.
  - Inline parameter blocks: "F{2.5}" hands ["2.5"] to the F action.
  - Explicit failures: unbalanced ']' and unterminated '{' abort the pass with typed errors.

# Usage

	g := arbor.New(42).
		SetAxiom("A").
		AddRule('A', "F[+A]F{0.5}A", nil).
		AddSymbol('F', domain.ActionFunc(func(s *domain.Scope, _ ...any) error {
			d, err := s.Float(0, 1)
			if err != nil {
				return err
			}
			s.Turtle.ApplyTransform(mgl64.Translate3D(0, d, 0))
			return nil
		}))

	if err := g.Construct(4, nil); err != nil {
		log.Fatal(err)
	}
	scope, err := g.Process(nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(scope.Turtle)

The grammar is not safe for concurrent Construct calls. Callers bound growth
through the iteration count; the engine never stops a self-referential grammar
on its own.
*/
package arbor
