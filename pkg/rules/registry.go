package rules

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formflow/pkg/datastore"
)

// Registry holds business rules by name. It is an explicit value shared by
// the forms attached to it; never a hidden global. Registration normally
// happens during the definition phase, but the registry is lock-guarded so a
// late rule load (for example from a remote rule source) is safe.
type Registry struct {
	mu     sync.RWMutex
	rules  map[string]*Rule
	logger *log.Logger
}

// NewRegistry returns an empty registry. A nil logger falls back to the
// package default.
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{rules: make(map[string]*Rule), logger: logger}
}

// AddRule registers a rule under name and returns it for part chaining. A
// duplicate name is rejected with a warning and the already-registered rule
// is returned instead, so chained AddPart calls stay safe.
func (r *Registry) AddRule(name string, match MatchType) *Rule {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.rules[name]; ok {
		r.logger.Warn("rules: duplicate rule registration ignored", "rule", name)
		return existing
	}
	rule := &Rule{Name: name, Match: match}
	r.rules[name] = rule
	return rule
}

// Rule looks up a rule by name, returning nil when absent.
func (r *Registry) Rule(name string) *Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[name]
}

// Names returns the registered rule names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	return names
}

// Evaluate runs the named rule against store. A name with no registered rule
// evaluates to false; that is logged but never fatal, so a misconfigured
// gate simply hides its content.
func (r *Registry) Evaluate(name string, store *datastore.Store) bool {
	rule := r.Rule(name)
	if rule == nil {
		r.logger.Warn("rules: rule not found", "rule", name)
		return false
	}
	return rule.Evaluate(store)
}
