package model

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/datastore"
	"github.com/goliatone/go-formflow/pkg/validate"
)

// ID returns the control's identifier, unique form-wide: the form name and
// control name joined by a colon. Initialise enforces the name uniqueness
// this relies on.
func (c *Control) ID() string {
	if c.form == nil {
		return c.Name
	}
	return c.form.Name + ":" + c.Name
}

// Value reads the control's current value from the data store.
func (c *Control) Value() string {
	if c.form == nil {
		return ""
	}
	return c.form.store.GetValue(c.Name)
}

// ErrorMessage returns the message attached by the most recent validation,
// preferring the synchronous one. Empty when the control is clean.
func (c *Control) ErrorMessage() string {
	if c.errorMessage != "" {
		return c.errorMessage
	}
	return c.asyncError
}

func (c *Control) target() validate.Target {
	t := validate.Target{}
	switch c.Kind {
	case KindDate, KindTime, KindDateTime:
		t.Temporal = true
	case KindOption, KindOptionMulti:
		t.Choice = true
		if c.Choice != nil {
			t.OptionCount = len(c.Choice.List)
		}
	}
	return t
}

// IsValid runs the control's synchronous validators in declaration order.
// The first failure becomes the control's current error message; a full pass
// clears it.
func (c *Control) IsValid() bool {
	message, ok := validate.Run(c.Validators, c.Value(), c.storeOrNil(), c.target())
	if ok {
		c.errorMessage = ""
		return true
	}
	c.errorMessage = message
	return false
}

// CheckValid evaluates the synchronous validators without touching the
// control's error state. Navigation uses this to decide whether moving
// forward is allowed before the user has interacted with the control.
func (c *Control) CheckValid() bool {
	_, ok := validate.Run(c.Validators, c.Value(), c.storeOrNil(), c.target())
	return ok
}

// IsValidAsync runs the asynchronous validators, provided synchronous
// validation passes first. Results are cached per validator by last checked
// value; without a configured checker the control is reported valid.
func (c *Control) IsValidAsync(ctx context.Context) (bool, error) {
	if !c.CheckValid() {
		return false, nil
	}
	if len(c.Async) == 0 {
		return true, nil
	}
	if c.form == nil || c.form.opts.Checker == nil {
		return true, nil
	}
	message, ok, err := validate.RunAsync(ctx, c.Async, c.Value(), c.form.opts.Checker)
	if err != nil {
		return false, err
	}
	if ok {
		c.asyncError = ""
		return true, nil
	}
	c.asyncError = message
	return false, nil
}

func (c *Control) storeOrNil() *datastore.Store {
	if c.form == nil {
		return nil
	}
	return c.form.store
}
