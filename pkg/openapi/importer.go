// Package openapi imports form definitions from OpenAPI documents: each
// request-body property of an operation becomes a question with one control,
// with schema constraints mapped onto validators. The import produces a
// definition-phase form; callers attach rules and run Initialise as usual.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/rules"
	"github.com/goliatone/go-formflow/pkg/validate"
)

// Options configures an import.
type Options struct {
	// Labeler turns a property name into a question caption. Defaults to
	// a camelCase humanizer.
	Labeler func(name string) string
	// Registry is attached to the resulting form.
	Registry *rules.Registry
	// Form carries the interaction-phase collaborators for the form.
	Form model.Options
	// Mode selects the draw mode; defaults to EntireForm.
	Mode model.DrawMode
}

// ImportOperation builds a form from the named operation's request body.
func ImportOperation(ctx context.Context, data []byte, operationID string, opts Options) (*model.Form, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	if opts.Labeler == nil {
		opts.Labeler = humanize
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return nil, fmt.Errorf("openapi: operation %q not found", operationID)
	}
	schema := requestSchema(operation)
	if schema == nil {
		return nil, fmt.Errorf("openapi: operation %q has no request body schema", operationID)
	}

	form := model.New(operationID, operation.Summary, opts.Mode, opts.Registry, opts.Form)
	form.AddSection(firstNonEmpty(operation.Summary, "Default"))

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		addControl(form, name, opts.Labeler(name), ref.Value, isRequired)
	}

	if len(form.Questions) == 0 {
		return nil, fmt.Errorf("openapi: operation %q yielded no controls", operationID)
	}
	return form, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Patch,
		} {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := operation.RequestBody.Value.Content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func addControl(form *model.Form, name, caption string, schema *openapi3.Schema, required bool) {
	question := form.AddQuestion(caption, schema.Description, "")
	var control *model.Control
	var formatValidator *validate.Validator

	switch {
	case len(schema.Enum) > 0:
		options := make([]model.Option, 0, len(schema.Enum))
		for _, entry := range schema.Enum {
			code := fmt.Sprint(entry)
			options = append(options, model.Option{Code: code, Description: code})
		}
		control = question.AddOptionControl(name, options...)
	case typeIs(schema, "boolean"):
		control = question.AddToggleControl(name)
	case typeIs(schema, "integer"), typeIs(schema, "number"):
		if schema.Min != nil && schema.Max != nil {
			control = question.AddSliderControl(name, *schema.Min, *schema.Max, 1)
		} else {
			control = question.AddTextControl(name)
			control.Text.TextType = "number"
		}
	case schema.Format == "date":
		control = question.AddDateControl(name)
		formatValidator = validate.Date(caption + " must be a valid date")
	case schema.Format == "date-time":
		control = question.AddDateTimeControl(name)
		formatValidator = validate.DateTime(caption + " must be a valid date and time")
	case schema.Format == "email":
		control = question.AddTextControl(name)
		control.Text.TextType = "email"
		formatValidator = validate.Email(caption + " must be a valid email address")
	default:
		control = question.AddTextControl(name)
		if schema.MaxLength != nil {
			control.Text.MaxLength = int(*schema.MaxLength)
		}
	}

	// Required runs first so an empty answer reports as missing, not as a
	// format failure.
	if required {
		control.AddValidator(validate.Required(caption + " is required"))
	}
	control.AddValidator(formatValidator)
}

func typeIs(schema *openapi3.Schema, want string) bool {
	return schema.Type != nil && schema.Type.Is(want)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// humanize turns camelCase property names into captions: "arrivalDate"
// becomes "Arrival date".
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
