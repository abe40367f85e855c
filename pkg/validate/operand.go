package validate

import (
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formflow/internal/datetime"
	"github.com/goliatone/go-formflow/pkg/datastore"
)

// nowFunc is swapped out by tests that pin the clock.
var nowFunc = time.Now

// resolveOperand turns a validator operand into a concrete comparison value.
// Operands come in three shapes: a bracketed field reference `[name]` read
// from the store at evaluation time, a percent-prefixed variable token such
// as `%TODAY+7D`, or a plain literal. The boolean is false when the operand
// cannot be resolved (the referenced field was never set, or the token is
// unknown); callers treat an unresolved operand as an unconstrained check.
func resolveOperand(operand string, store *datastore.Store) (string, bool) {
	switch {
	case strings.HasPrefix(operand, "["):
		name := fieldReference(operand)
		if name == "" || store == nil || !store.Has(name) {
			return "", false
		}
		return store.GetValue(name), true
	case strings.HasPrefix(operand, "%"):
		return resolveVariable(operand[1:])
	default:
		return operand, true
	}
}

// fieldReference extracts the name from a `[name]` operand, or returns the
// empty string when the operand is not a reference.
func fieldReference(operand string) string {
	if len(operand) < 3 || operand[0] != '[' || operand[len(operand)-1] != ']' {
		return ""
	}
	return operand[1 : len(operand)-1]
}

// resolveVariable computes the value of a variable token (without the leading
// percent sign). Supported tokens are TODAY and TODAY±N followed by a D, W,
// or Y unit, giving today's date offset by days, weeks, or years.
func resolveVariable(token string) (string, bool) {
	if !strings.HasPrefix(token, "TODAY") {
		return "", false
	}
	today := nowFunc()
	rest := token[len("TODAY"):]
	if rest == "" {
		return datetime.Format(today), true
	}

	sign := 1
	switch rest[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return "", false
	}
	rest = rest[1:]
	if len(rest) < 2 {
		return "", false
	}

	unit := rest[len(rest)-1]
	n, err := strconv.Atoi(rest[:len(rest)-1])
	if err != nil || n < 0 {
		return "", false
	}
	n *= sign

	switch unit {
	case 'D':
		today = today.AddDate(0, 0, n)
	case 'W':
		today = today.AddDate(0, 0, n*7)
	case 'Y':
		today = today.AddDate(n, 0, 0)
	default:
		return "", false
	}
	return datetime.Format(today), true
}
