// Package validate evaluates the synchronous and asynchronous checks attached
// to form controls. Synchronous validators run in declaration order with the
// first failure winning; asynchronous validators round-trip to a remote
// checker and cache the verdict for the last value they saw.
package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/internal/datetime"
	"github.com/goliatone/go-formflow/pkg/datastore"
)

// Kind discriminates the validator variants.
type Kind int

const (
	KindRequired Kind = iota
	KindEmail
	KindDate
	KindTime
	KindDateTime
	KindAnswerMustMatch
	KindAnswerAfterDate
	KindAnswerBeforeDate
	KindAnswerAfterTime
	KindAnswerBeforeTime
	KindAnswerBetween
	KindExceedWordCount
)

// Target describes the control a validator is attached to, as far as
// validation cares: whether it holds temporal data (AnswerBetween compares
// dates instead of numbers) and, for choice controls, how many options are
// currently resolvable (Required is vacuous when the user has nothing to
// pick from).
type Target struct {
	Temporal    bool
	Choice      bool
	OptionCount int
}

// Validator is a tagged variant over the synchronous checks. Operand, Min,
// and Max accept a literal, a `[field]` reference, or a `%TOKEN` variable;
// the fields are always present (possibly empty) rather than probed.
type Validator struct {
	Kind    Kind
	Message string
	Operand string
	Min     string
	Max     string
	Limit   int
}

// Constructors for each variant. They return pointers so a validator can be
// built once and shared across a control's declaration chain.

func Required(message string) *Validator {
	return &Validator{Kind: KindRequired, Message: message}
}

func Email(message string) *Validator {
	return &Validator{Kind: KindEmail, Message: message}
}

func Date(message string) *Validator {
	return &Validator{Kind: KindDate, Message: message}
}

func Time(message string) *Validator {
	return &Validator{Kind: KindTime, Message: message}
}

func DateTime(message string) *Validator {
	return &Validator{Kind: KindDateTime, Message: message}
}

func AnswerMustMatch(operand, message string) *Validator {
	return &Validator{Kind: KindAnswerMustMatch, Message: message, Operand: operand}
}

func AnswerAfterDate(operand, message string) *Validator {
	return &Validator{Kind: KindAnswerAfterDate, Message: message, Operand: operand}
}

func AnswerBeforeDate(operand, message string) *Validator {
	return &Validator{Kind: KindAnswerBeforeDate, Message: message, Operand: operand}
}

func AnswerAfterTime(operand, message string) *Validator {
	return &Validator{Kind: KindAnswerAfterTime, Message: message, Operand: operand}
}

func AnswerBeforeTime(operand, message string) *Validator {
	return &Validator{Kind: KindAnswerBeforeTime, Message: message, Operand: operand}
}

func AnswerBetween(min, max, message string) *Validator {
	return &Validator{Kind: KindAnswerBetween, Message: message, Min: min, Max: max}
}

func ExceedWordCount(limit int, message string) *Validator {
	return &Validator{Kind: KindExceedWordCount, Message: message, Limit: limit}
}

// ReferencedFields lists the field names this validator's operands reference,
// feeding the dependency resolver's reference edges.
func (v *Validator) ReferencedFields() []string {
	var fields []string
	for _, operand := range []string{v.Operand, v.Min, v.Max} {
		if name := fieldReference(operand); name != "" {
			fields = append(fields, name)
		}
	}
	return fields
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Valid evaluates the validator against value. Cross-field operands are read
// from store at call time, never cached between calls.
func (v *Validator) Valid(value string, store *datastore.Store, target Target) bool {
	switch v.Kind {
	case KindRequired:
		if target.Choice && target.OptionCount == 0 {
			// Nothing to pick from must not block completion.
			return true
		}
		return value != ""
	case KindEmail:
		return value == "" || emailPattern.MatchString(value)
	case KindDate:
		_, ok := datetime.ParseDate(value)
		return ok
	case KindTime:
		_, ok := datetime.ParseTime(value)
		return ok
	case KindDateTime:
		return validDateTime(value)
	case KindAnswerMustMatch:
		operand, ok := resolveOperand(v.Operand, store)
		if !ok {
			return true
		}
		return value == operand
	case KindAnswerAfterDate:
		return v.compareDates(value, store, func(delta int) bool { return delta > 0 })
	case KindAnswerBeforeDate:
		return v.compareDates(value, store, func(delta int) bool { return delta < 0 })
	case KindAnswerAfterTime:
		return v.compareTimes(value, store, func(delta int) bool { return delta > 0 })
	case KindAnswerBeforeTime:
		return v.compareTimes(value, store, func(delta int) bool { return delta < 0 })
	case KindAnswerBetween:
		return v.between(value, store, target)
	case KindExceedWordCount:
		return len(strings.Fields(value)) <= v.Limit
	default:
		return true
	}
}

func validDateTime(value string) bool {
	parts := strings.SplitN(strings.TrimSpace(value), " ", 2)
	if len(parts) != 2 {
		return false
	}
	if _, ok := datetime.ParseDate(parts[0]); !ok {
		return false
	}
	_, ok := datetime.ParseTime(parts[1])
	return ok
}

func (v *Validator) compareDates(value string, store *datastore.Store, accept func(delta int) bool) bool {
	operand, resolved := resolveOperand(v.Operand, store)
	if !resolved {
		return true
	}
	answer, ok := datetime.ParseDate(value)
	if !ok {
		return false
	}
	bound, ok := datetime.ParseDate(operand)
	if !ok {
		return false
	}
	return accept(answer.Compare(bound))
}

func (v *Validator) compareTimes(value string, store *datastore.Store, accept func(delta int) bool) bool {
	operand, resolved := resolveOperand(v.Operand, store)
	if !resolved {
		return true
	}
	answer, ok := datetime.ParseTime(value)
	if !ok {
		return false
	}
	bound, ok := datetime.ParseTime(operand)
	if !ok {
		return false
	}
	switch {
	case answer > bound:
		return accept(1)
	case answer < bound:
		return accept(-1)
	default:
		return accept(0)
	}
}

// between applies strict exclusive bounds: dates for temporal controls,
// numbers after coercion for everything else.
func (v *Validator) between(value string, store *datastore.Store, target Target) bool {
	min, minOK := resolveOperand(v.Min, store)
	max, maxOK := resolveOperand(v.Max, store)
	if !minOK || !maxOK {
		return true
	}

	if target.Temporal {
		answer, ok := datetime.ParseDate(value)
		if !ok {
			return false
		}
		lower, ok := datetime.ParseDate(min)
		if !ok {
			return false
		}
		upper, ok := datetime.ParseDate(max)
		if !ok {
			return false
		}
		return answer.After(lower) && answer.Before(upper)
	}

	answer, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return false
	}
	lower, err := strconv.ParseFloat(strings.TrimSpace(min), 64)
	if err != nil {
		return false
	}
	upper, err := strconv.ParseFloat(strings.TrimSpace(max), 64)
	if err != nil {
		return false
	}
	return answer > lower && answer < upper
}

// Run evaluates validators in declaration order against value. The first
// failing validator stops the scan and its message is returned; ok is true
// when every validator passed.
func Run(validators []*Validator, value string, store *datastore.Store, target Target) (message string, ok bool) {
	for _, v := range validators {
		if !v.Valid(value, store, target) {
			return v.Message, false
		}
	}
	return "", true
}
