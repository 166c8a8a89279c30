/*
Package domain contains the core model of the arbor rewriting engine.

It defines the grammar entities and the execution scope handed to symbol
handlers. The package holds no I/O and no engine logic; the rewriting and
execution passes live in the runtime.

# Key Entities

  - Symbol: a single rune of the alphabet, with the Action run when it is executed.
  - Rule: a weighted production from one rune to an expansion, optionally gated by a Predicate.
  - RuleSet: every Rule for one source rune, with the running total of their weights.
  - Scope: the transient state of one execution pass (Turtle, saved-state stack, parameters).
*/
package domain
