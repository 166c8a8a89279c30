package arbor_test

import (
	"fmt"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
)

// Lindenmayer's algae: every rune has exactly one rule, so no noise is drawn.
func Example() {
	g := arbor.New(42).
		SetAxiom("A").
		AddRule('A', "AB", nil).
		AddRule('B', "A", nil)

	if err := g.Construct(4, nil); err != nil {
		panic(err)
	}
	fmt.Println(g.Sequence())

	// Output:
	// ABAABABA
}

func ExampleGrammar_Process() {
	grown := 0
	g := arbor.New(7).
		SetAxiom("F[F]F").
		AddSymbol('F', domain.Effect(func(s *domain.Scope) {
			grown++
		}))

	if err := g.Construct(0, nil); err != nil {
		panic(err)
	}
	scope, err := g.Process(nil)
	if err != nil {
		panic(err)
	}
	fmt.Println(grown, g.MaxDepth(), scope.Stack.Len())

	// Output:
	// 3 1 0
}
