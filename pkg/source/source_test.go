package source

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/rules"
)

func TestFetchOptions(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("option source hit with %s, want GET", r.Method)
		}
		_, _ = w.Write([]byte(`[
			{"code": "BY", "description": "Bavaria"},
			{"code": "BE", "description": "Berlin"}
		]`))
	}))
	defer server.Close()

	client := NewOptionClient(Options{Client: server.Client()})
	options, err := client.FetchOptions(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchOptions: %v", err)
	}

	want := []model.Option{
		{Code: "BY", Description: "Bavaria"},
		{Code: "BE", Description: "Berlin"},
	}
	if diff := cmp.Diff(want, options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchOptionsRejectsBadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewOptionClient(Options{Client: server.Client()})
	if _, err := client.FetchOptions(context.Background(), server.URL); err == nil {
		t.Fatalf("expected an error for a non-2xx response")
	}
}

func TestRuleClientLoadsRegistry(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"name": "eu-applicant", "matchType": 0, "parts": [
				{"name": "countryCode", "comparison": 0, "value": "PL"}
			]}
		]`))
	}))
	defer server.Close()

	registry := rules.NewRegistry(log.New(io.Discard))
	client := NewRuleClient(Options{Client: server.Client()})
	if err := client.Load(context.Background(), server.URL, registry); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if registry.Rule("eu-applicant") == nil {
		t.Fatalf("rule source payload was not registered")
	}
}

func TestCheckClientPostsValue(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("check endpoint hit with %s, want POST", r.Method)
		}
		var body struct {
			Check string `json:"check"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"valid": body.Check == "free"})
	}))
	defer server.Close()

	client := NewCheckClient(Options{Client: server.Client()})
	ok, err := client.Check(context.Background(), server.URL, "free")
	if err != nil || !ok {
		t.Fatalf("Check(free) = %v, %v; want true", ok, err)
	}
	ok, err = client.Check(context.Background(), server.URL, "taken")
	if err != nil || ok {
		t.Fatalf("Check(taken) = %v, %v; want false", ok, err)
	}
}
