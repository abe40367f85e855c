// Package source provides the HTTP implementations of the collaborator
// interfaces the engine consumes: remote option lists, remote rule sets, and
// remote value checks. The engine core enforces no timeouts of its own, so
// the transport bounds every call here.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/rules"
	"github.com/goliatone/go-formflow/pkg/wire"
)

// Options configures the clients. A nil Client falls back to
// http.DefaultClient; a zero Timeout leaves deadlines to the caller's
// context.
type Options struct {
	Client  *http.Client
	Timeout time.Duration
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return http.DefaultClient
}

func (o Options) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.Timeout > 0 {
		return context.WithTimeout(ctx, o.Timeout)
	}
	return ctx, func() {}
}

func get(ctx context.Context, opts Options, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("source: url is required")
	}
	reqCtx, cancel := opts.bound(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("source: unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// OptionClient fetches option lists for choice controls.
type OptionClient struct {
	opts Options
}

// NewOptionClient constructs an OptionClient.
func NewOptionClient(opts Options) *OptionClient {
	return &OptionClient{opts: opts}
}

// FetchOptions implements model.OptionClient: GET url, expecting a JSON array
// of {code, description} entries.
func (c *OptionClient) FetchOptions(ctx context.Context, url string) ([]model.Option, error) {
	data, err := get(ctx, c.opts, url)
	if err != nil {
		return nil, err
	}
	var items []wire.OptionItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("source: decoding option list from %s: %w", url, err)
	}
	options := make([]model.Option, 0, len(items))
	for _, item := range items {
		options = append(options, model.Option{Code: item.Code, Description: item.Description})
	}
	return options, nil
}

// RuleClient fetches business rule definitions.
type RuleClient struct {
	opts Options
}

// NewRuleClient constructs a RuleClient.
func NewRuleClient(opts Options) *RuleClient {
	return &RuleClient{opts: opts}
}

// Load fetches the rule document at url and registers its rules.
func (c *RuleClient) Load(ctx context.Context, url string, registry *rules.Registry) error {
	data, err := get(ctx, c.opts, url)
	if err != nil {
		return err
	}
	return wire.DecodeRules(data, registry)
}

// CheckClient performs remote validation checks.
type CheckClient struct {
	opts Options
}

// NewCheckClient constructs a CheckClient.
func NewCheckClient(opts Options) *CheckClient {
	return &CheckClient{opts: opts}
}

type checkRequest struct {
	Check string `json:"check"`
}

type checkResponse struct {
	Valid bool `json:"valid"`
}

// Check implements validate.Checker: POST {check: value} to url and report
// the service's verdict.
func (c *CheckClient) Check(ctx context.Context, url, value string) (bool, error) {
	if url == "" {
		return false, errors.New("source: url is required")
	}
	body, err := json.Marshal(checkRequest{Check: value})
	if err != nil {
		return false, err
	}

	reqCtx, cancel := c.opts.bound(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.opts.client().Do(req)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, errors.New("source: unexpected status " + resp.Status)
	}

	var verdict checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return false, fmt.Errorf("source: decoding check response from %s: %w", url, err)
	}
	return verdict.Valid, nil
}
