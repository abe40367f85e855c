package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/datastore"
)

// Initialise closes the definition phase. It indexes every control by name
// (rejecting duplicates), derives the two dependency edge sets (reference
// edges from validator operands like `[field]`, dependency edges from
// `[field]` segments in option-source URLs), and subscribes to the data
// store so changes propagate along those edges. Call it exactly once, after
// building and before interaction.
func (f *Form) Initialise() error {
	if f.initialised {
		return nil
	}

	f.controls = make(map[string]*Control)
	for _, question := range f.Questions {
		for _, control := range question.Controls {
			if _, exists := f.controls[control.Name]; exists {
				return fmt.Errorf("%w: %q", ErrDuplicateControl, control.Name)
			}
			f.controls[control.Name] = control
		}
	}

	f.referencedBy = make(map[string][]*Control)
	f.dependents = make(map[string][]*Control)

	// Walk questions in declaration order so edge lists, and therefore
	// propagation order, are deterministic.
	for _, question := range f.Questions {
		for _, control := range question.Controls {
			f.deriveEdges(control)
		}
	}

	f.unsubscribe = f.store.Subscribe(f.onChange)
	f.initialised = true
	return nil
}

func (f *Form) deriveEdges(control *Control) {
	for _, validator := range control.Validators {
		for _, field := range validator.ReferencedFields() {
			target, ok := f.controls[field]
			if !ok {
				f.logger.Warn("model: validator references unknown control",
					"form", f.Name, "control", control.Name, "field", field)
				continue
			}
			target.IsReferencedBy = append(target.IsReferencedBy, control.Name)
			f.referencedBy[field] = append(f.referencedBy[field], control)
		}
	}

	if control.Choice == nil || control.Choice.SourceURL == "" {
		return
	}
	for _, field := range urlFields(control.Choice.SourceURL) {
		control.Dependencies = append(control.Dependencies, field)
		f.dependents[field] = append(f.dependents[field], control)
	}
}

// Close detaches the form from its data store. Rarely needed; forms
// normally live until scope exit.
func (f *Form) Close() {
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
}

// onChange propagates a store change along the derived edges. Synthetic
// notifications re-enter this handler through the store, so propagation
// tracks the controls already visited during the current update; a control
// seen twice means a reference cycle, and its edges are not followed again.
func (f *Form) onChange(change datastore.Change) {
	top := f.visiting == nil
	if top {
		f.visiting = make(map[string]bool)
		defer func() { f.visiting = nil }()
	}
	if f.visiting[change.Name] {
		return
	}
	f.visiting[change.Name] = true

	for _, control := range f.referencedBy[change.Name] {
		control.IsValid()
		// Synthetic change so downstream consumers see the dependent
		// control's state move too.
		f.store.Notify(control.Name)
	}
	for _, control := range f.dependents[change.Name] {
		f.reloadOptions(context.Background(), control)
	}
}

// ReloadOptions resolves the named control's option source and replaces its
// option list. Useful for the initial population before any value changes.
func (f *Form) ReloadOptions(ctx context.Context, name string) error {
	control := f.Control(name)
	if control == nil {
		return fmt.Errorf("model: no control named %q", name)
	}
	return f.reloadOptions(ctx, control)
}

func (f *Form) reloadOptions(ctx context.Context, control *Control) error {
	if control.Choice == nil || control.Choice.SourceURL == "" {
		return nil
	}
	url, ok := f.resolveURL(control.Choice.SourceURL)
	if !ok {
		// Degrade gracefully: an upstream field is still empty, so the
		// reload is skipped rather than retried or failed.
		f.logger.Debug("model: option reload skipped, url unresolved",
			"form", f.Name, "control", control.Name, "url", control.Choice.SourceURL)
		return nil
	}
	if f.opts.OptionClient == nil {
		return nil
	}
	options, err := f.opts.OptionClient.FetchOptions(ctx, url)
	if err != nil {
		f.logger.Warn("model: option reload failed",
			"form", f.Name, "control", control.Name, "url", url, "err", err)
		return err
	}
	control.Choice.List = options
	return nil
}

// resolveURL substitutes `[field]` path segments with current store values.
// Resolution fails when any referenced field is still empty.
func (f *Form) resolveURL(template string) (string, bool) {
	segments := strings.Split(template, "/")
	for i, segment := range segments {
		field := bracketedField(segment)
		if field == "" {
			continue
		}
		value := f.store.GetValue(field)
		if value == "" {
			return "", false
		}
		segments[i] = value
	}
	return strings.Join(segments, "/"), true
}

func urlFields(template string) []string {
	var fields []string
	for _, segment := range strings.Split(template, "/") {
		if field := bracketedField(segment); field != "" {
			fields = append(fields, field)
		}
	}
	return fields
}

func bracketedField(segment string) string {
	if len(segment) < 3 || segment[0] != '[' || segment[len(segment)-1] != ']' {
		return ""
	}
	return segment[1 : len(segment)-1]
}
