package domain

// DefaultWeight is the weight given to rules added without one.
const DefaultWeight = 1.0

// Predicate gates a Rule on the caller's generation constraint.
type Predicate func(constraint any) bool

// Rule is a production from Source to Expansion.
type Rule struct {
	Source    rune
	Expansion string
	Weight    float64
	Predicate Predicate
}

// Applicable reports whether the rule may be used under constraint.
// Rules without a predicate are always applicable.
func (r Rule) Applicable(constraint any) bool {
	if r.Predicate == nil {
		return true
	}
	return r.Predicate(constraint)
}

// RuleSet is the ordered collection of rules for one source rune.
// TotalWeight always equals the sum of the member weights.
type RuleSet struct {
	Source      rune
	Rules       []Rule
	TotalWeight float64
}

// NewRuleSet creates an empty rule set for src.
func NewRuleSet(src rune) *RuleSet {
	return &RuleSet{Source: src}
}

// Add appends a rule and updates the total weight.
func (rs *RuleSet) Add(rule Rule) {
	rs.Rules = append(rs.Rules, rule)
	rs.TotalWeight += rule.Weight
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.Rules)
}
