package validate

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

type countingChecker struct {
	calls   int
	results map[string]bool
}

func (c *countingChecker) Check(_ context.Context, _ string, value string) (bool, error) {
	c.calls++
	return c.results[value], nil
}

func TestAsyncValidatorCachesByLastValue(t *testing.T) {
	t.Parallel()

	checker := &countingChecker{results: map[string]bool{"taken": false, "free": true}}
	v := Async("https://api.example/usernames", "username taken")
	v.Logger = log.New(io.Discard)

	ctx := context.Background()
	ok, err := v.Valid(ctx, "taken", checker)
	if err != nil || ok {
		t.Fatalf("first check: ok=%v err=%v, want invalid", ok, err)
	}
	ok, err = v.Valid(ctx, "taken", checker)
	if err != nil || ok {
		t.Fatalf("cached check: ok=%v err=%v, want invalid", ok, err)
	}
	if checker.calls != 1 {
		t.Fatalf("repeat value hit the remote service %d times, want 1", checker.calls)
	}

	ok, err = v.Valid(ctx, "free", checker)
	if err != nil || !ok {
		t.Fatalf("new value: ok=%v err=%v, want valid", ok, err)
	}
	if checker.calls != 2 {
		t.Fatalf("new value should trigger exactly one more check, got %d", checker.calls)
	}
}

func TestAsyncValidatorDiscardsStaleResponse(t *testing.T) {
	t.Parallel()

	v := Async("https://api.example/usernames", "username taken")
	v.Logger = log.New(io.Discard)
	ctx := context.Background()

	// The slow checker for the first value kicks off a second, newer check
	// while the first is still "in flight"; the first response must not
	// overwrite the newer verdict.
	var inner Checker = CheckerFunc(func(_ context.Context, _, value string) (bool, error) {
		return value == "newer", nil
	})
	fired := false
	slow := CheckerFunc(func(ctx context.Context, url, value string) (bool, error) {
		if value == "older" && !fired {
			fired = true
			if _, err := v.Valid(ctx, "newer", inner); err != nil {
				return false, err
			}
		}
		return inner.Check(ctx, url, value)
	})

	if _, err := v.Valid(ctx, "older", slow); err != nil {
		t.Fatalf("Valid returned error: %v", err)
	}

	result, cached := v.LastResult()
	if !cached || !result {
		t.Fatalf("stale response overwrote the newer verdict: result=%v cached=%v", result, cached)
	}

	// The cache must still answer for the newer value without a round trip.
	calls := 0
	probe := CheckerFunc(func(context.Context, string, string) (bool, error) {
		calls++
		return false, nil
	})
	ok, err := v.Valid(ctx, "newer", probe)
	if err != nil || !ok {
		t.Fatalf("cached newer value: ok=%v err=%v", ok, err)
	}
	if calls != 0 {
		t.Fatalf("cached value still hit the remote service %d times", calls)
	}
}

func TestAsyncValidatorErrorLeavesCacheUntouched(t *testing.T) {
	t.Parallel()

	v := Async("https://api.example/usernames", "username taken")
	boom := errors.New("transport down")
	_, err := v.Valid(context.Background(), "value", CheckerFunc(
		func(context.Context, string, string) (bool, error) { return false, boom }))
	if !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if _, cached := v.LastResult(); cached {
		t.Fatalf("a failed check must not populate the cache")
	}
}

func TestRunAsyncFirstFailureWins(t *testing.T) {
	t.Parallel()

	validators := []*AsyncValidator{
		Async("https://api.example/a", "a failed"),
		Async("https://api.example/b", "b failed"),
	}
	checker := CheckerFunc(func(_ context.Context, url, _ string) (bool, error) {
		return url != "https://api.example/a", nil
	})

	msg, ok, err := RunAsync(context.Background(), validators, "v", checker)
	if err != nil {
		t.Fatalf("RunAsync returned error: %v", err)
	}
	if ok || msg != "a failed" {
		t.Fatalf("expected the first failing validator's message, got %q ok=%v", msg, ok)
	}
}
