package validate

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Checker performs the remote half of an async validator: POST the candidate
// value to url and report whether the service accepted it.
type Checker interface {
	Check(ctx context.Context, url, value string) (bool, error)
}

// CheckerFunc adapts a function into a Checker.
type CheckerFunc func(ctx context.Context, url, value string) (bool, error)

// Check delegates to the underlying function.
func (fn CheckerFunc) Check(ctx context.Context, url, value string) (bool, error) {
	return fn(ctx, url, value)
}

// AsyncValidator checks a value against a remote endpoint and caches the
// verdict keyed by the last value checked. Each outbound check carries a
// request token; a response whose token no longer matches the validator's
// current one raced with a newer value and is discarded instead of
// overwriting the fresher verdict.
type AsyncValidator struct {
	URL     string
	Message string

	// Logger reports discarded stale responses. Nil falls back to the
	// package default.
	Logger *log.Logger

	mu         sync.Mutex
	lastValue  string
	lastResult bool
	cached     bool
	token      uuid.UUID
}

// Async constructs an AsyncValidator for url.
func Async(url, message string) *AsyncValidator {
	return &AsyncValidator{URL: url, Message: message}
}

// Valid reports whether value passes the remote check. A value equal to the
// last one checked answers from cache without a round trip. Checker errors
// propagate without touching the cache.
func (a *AsyncValidator) Valid(ctx context.Context, value string, checker Checker) (bool, error) {
	a.mu.Lock()
	if a.cached && a.lastValue == value {
		result := a.lastResult
		a.mu.Unlock()
		return result, nil
	}
	token := uuid.New()
	a.token = token
	a.mu.Unlock()

	result, err := checker.Check(ctx, a.URL, value)
	if err != nil {
		return false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token != token {
		a.logger().Debug("validate: stale async response discarded",
			"url", a.URL, "value", value)
		return a.cached && a.lastResult, nil
	}
	a.lastValue = value
	a.lastResult = result
	a.cached = true
	return result, nil
}

// LastResult exposes the cached verdict, if any, without a remote check.
func (a *AsyncValidator) LastResult() (result, cached bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastResult, a.cached
}

func (a *AsyncValidator) logger() *log.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return log.Default()
}

// RunAsync evaluates async validators in order; the first failing validator
// stops the scan and its message is returned. It mirrors Run for the remote
// checks and should only be called after synchronous validation passed.
func RunAsync(ctx context.Context, validators []*AsyncValidator, value string, checker Checker) (message string, ok bool, err error) {
	for _, v := range validators {
		valid, err := v.Valid(ctx, value, checker)
		if err != nil {
			return "", false, err
		}
		if !valid {
			return v.Message, false, nil
		}
	}
	return "", true, nil
}
