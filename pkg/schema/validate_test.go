package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor"
)

func TestValidate_Valid(t *testing.T) {
	g := arbor.New(1).
		SetAxiom("[F][/-F]").
		AddRule('F', "FF[+F{1.5}]", nil).
		AddWeightedRule('F', "F", 3, nil)

	assert.NoError(t, Validate(g))
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		grammar *arbor.Grammar
		count   int
		reason  string
	}{
		{
			name:    "unclosed axiom bracket",
			grammar: arbor.New(1).SetAxiom("[[F]"),
			count:   1,
			reason:  "1 unclosed bracket(s)",
		},
		{
			name:    "unmatched closing bracket",
			grammar: arbor.New(1).SetAxiom("F]"),
			count:   1,
			reason:  "unmatched closing bracket",
		},
		{
			name:    "unterminated parameter block",
			grammar: arbor.New(1).SetAxiom("F").AddRule('F', "F{1,2", nil),
			count:   1,
			reason:  "unterminated parameter block",
		},
		{
			name: "non-positive weights",
			grammar: arbor.New(1).SetAxiom("A").
				AddWeightedRule('A', "B", 0, nil).
				AddWeightedRule('A', "C", -2, nil),
			count:  2,
			reason: "weight must be positive",
		},
		{
			name:    "brackets inside parameters are ignored",
			grammar: arbor.New(1).SetAxiom("F{[}]"),
			count:   1,
			reason:  "unmatched closing bracket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.grammar)
			require.Error(t, err)

			var aggr *AggregateError
			require.True(t, errors.As(err, &aggr))
			assert.Len(t, ValidationErrors(err), tt.count)

			var ve *ValidationError
			require.True(t, errors.As(aggr.Errors[0], &ve))
			assert.Equal(t, tt.reason, ve.Reason)
		})
	}
}

func TestValidate_UnknownSymbolsAreFine(t *testing.T) {
	g := arbor.New(1).SetAxiom("XYZ")
	assert.NoError(t, Validate(g))
}

func TestAggregateError_Message(t *testing.T) {
	single := &AggregateError{Errors: []error{&ValidationError{Key: "axiom", Reason: "bad"}}}
	assert.Equal(t, "axiom: bad", single.Error())

	multi := &AggregateError{Errors: []error{
		&ValidationError{Key: "axiom", Reason: "bad"},
		&ValidationError{Key: "rule F#0", Reason: "worse", Value: 0.0},
	}}
	assert.Contains(t, multi.Error(), "2 validation errors")
	assert.Contains(t, multi.Error(), "rule F#0: worse (got 0)")

	assert.Nil(t, ValidationErrors(errors.New("plain")))
}

func TestValidationErrors_Wrapped(t *testing.T) {
	g := arbor.New(1).SetAxiom("[[F]")
	err := fmt.Errorf("preset tree: %w", Validate(g))

	errs := ValidationErrors(err)
	require.Len(t, errs, 1)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "axiom", verr.Key)
}
