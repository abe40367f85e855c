// Package rules implements named business rules: boolean predicates over the
// data store used to gate which sections and questions of a form are shown.
// A rule combines parts under match-any or match-all semantics; parts are
// pluggable through the Part interface, with a comparison-based built-in.
package rules

import (
	"github.com/goliatone/go-formflow/pkg/datastore"
)

// MatchType selects how a rule combines its parts.
type MatchType int

const (
	// MatchAny passes when at least one part passes.
	MatchAny MatchType = iota
	// MatchAll passes only when every part passes.
	MatchAll
)

// Part is one atomic predicate within a rule.
type Part interface {
	Evaluate(store *datastore.Store) bool
}

// PartFunc adapts a function into a Part.
type PartFunc func(store *datastore.Store) bool

// Evaluate delegates to the underlying function.
func (fn PartFunc) Evaluate(store *datastore.Store) bool {
	return fn(store)
}

// Rule is a named combination of parts.
type Rule struct {
	Name  string
	Match MatchType
	Parts []Part
}

// AddPart appends a built-in comparison part and returns the rule for
// chaining.
func (r *Rule) AddPart(field string, comparison Comparison, value any) *Rule {
	return r.AddPartFrom(&ComparisonPart{Field: field, Comparison: comparison, Value: value})
}

// AddBetweenPart appends a built-in range part (inclusive bounds) and returns
// the rule for chaining.
func (r *Rule) AddBetweenPart(field string, min, max any) *Rule {
	return r.AddPartFrom(&ComparisonPart{Field: field, Comparison: Between, Min: min, Max: max})
}

// AddPartFrom appends an externally supplied part.
func (r *Rule) AddPartFrom(part Part) *Rule {
	if part != nil {
		r.Parts = append(r.Parts, part)
	}
	return r
}

// Evaluate runs the rule's parts in declaration order against store. MatchAny
// short-circuits true on the first passing part; MatchAll short-circuits
// false on the first failing one. Either way the outcome of the final
// evaluated part decides the result, so an empty rule evaluates to false.
func (r *Rule) Evaluate(store *datastore.Store) bool {
	result := false
	for _, part := range r.Parts {
		result = part.Evaluate(store)
		if r.Match == MatchAny && result {
			return true
		}
		if r.Match == MatchAll && !result {
			return false
		}
	}
	return result
}
