// Package schema validates grammars before they are run.
//
// The checks mirror the failures the engine would otherwise hit mid-run:
// a closing bracket with nothing saved, a parameter block that never ends,
// or a rule that can never be drawn because its weight is not positive.
//
//	if err := schema.Validate(g); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        fmt.Println(e)
//	    }
//	}
package schema
