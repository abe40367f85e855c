package rules

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formflow/internal/datetime"
	"github.com/goliatone/go-formflow/pkg/datastore"
)

// Comparison identifies the operator applied by a built-in rule part.
type Comparison int

const (
	Equals Comparison = iota
	NotEquals
	GreaterThan
	Between
	Contains
)

// ComparisonPart is the built-in Part: it reads one field from the store and
// compares it against a literal. Equals and NotEquals dispatch on the
// literal's runtime type; Between carries Min/Max instead of Value and is
// inclusive on both ends; Contains checks membership in a comma-joined value.
type ComparisonPart struct {
	Field      string
	Comparison Comparison
	Value      any
	Min        any
	Max        any

	// Logger reports non-fatal operand problems. Nil falls back to the
	// package default.
	Logger *log.Logger
}

// Evaluate implements Part.
func (p *ComparisonPart) Evaluate(store *datastore.Store) bool {
	stored := store.GetValue(p.Field)
	switch p.Comparison {
	case Equals:
		return equalsLiteral(stored, p.Value)
	case NotEquals:
		return !equalsLiteral(stored, p.Value)
	case GreaterThan:
		return p.greaterThan(stored)
	case Between:
		return p.between(stored)
	case Contains:
		return containsLiteral(stored, p.Value)
	default:
		return false
	}
}

func (p *ComparisonPart) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.Default()
}

func equalsLiteral(stored string, literal any) bool {
	switch v := literal.(type) {
	case bool:
		parsed, err := strconv.ParseBool(strings.TrimSpace(stored))
		return err == nil && parsed == v
	case time.Time:
		parsed, ok := datetime.ParseDate(stored)
		return ok && parsed.Equal(v)
	case string:
		return stored == v
	default:
		literalNum, ok := asNumber(literal)
		if !ok {
			return false
		}
		storedNum, err := strconv.ParseFloat(strings.TrimSpace(stored), 64)
		return err == nil && storedNum == literalNum
	}
}

func (p *ComparisonPart) greaterThan(stored string) bool {
	literal, ok := asNumber(p.Value)
	if !ok {
		p.logger().Error("rules: GreaterThan requires a numeric operand",
			"field", p.Field, "value", p.Value)
		return false
	}
	storedNum, err := strconv.ParseFloat(strings.TrimSpace(stored), 64)
	if err != nil {
		return false
	}
	return storedNum > literal
}

func (p *ComparisonPart) between(stored string) bool {
	if minDate, maxDate, ok := dateBounds(p.Min, p.Max); ok {
		value, parsed := datetime.ParseDate(stored)
		if !parsed {
			return false
		}
		return !value.Before(minDate) && !value.After(maxDate)
	}

	minNum, minOK := asNumber(p.Min)
	maxNum, maxOK := asNumber(p.Max)
	if !minOK || !maxOK {
		p.logger().Error("rules: Between requires numeric or date bounds",
			"field", p.Field, "min", p.Min, "max", p.Max)
		return false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(stored), 64)
	if err != nil {
		return false
	}
	return value >= minNum && value <= maxNum
}

func containsLiteral(stored string, literal any) bool {
	needle := literalString(literal)
	if strings.Contains(stored, ",") {
		for _, item := range strings.Split(stored, ",") {
			if strings.TrimSpace(item) == needle {
				return true
			}
		}
		return false
	}
	return stored == needle
}

func dateBounds(min, max any) (time.Time, time.Time, bool) {
	minDate, ok := asDate(min)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	maxDate, ok := asDate(max)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return minDate, maxDate, true
}

func asDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		return datetime.ParseDate(t)
	default:
		return time.Time{}, false
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func literalString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case time.Time:
		return datetime.Format(s)
	default:
		return ""
	}
}
