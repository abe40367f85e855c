package wire

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/rules"
	"github.com/goliatone/go-formflow/pkg/validate"
)

// Validator type names used on the wire.
const (
	TypeRequired         = "Required"
	TypeEmail            = "Email"
	TypeDate             = "Date"
	TypeTime             = "Time"
	TypeDateTime         = "DateTime"
	TypeAnswerMustMatch  = "AnswerMustMatch"
	TypeAnswerAfterDate  = "AnswerAfterDate"
	TypeAnswerBeforeDate = "AnswerBeforeDate"
	TypeAnswerAfterTime  = "AnswerAfterTime"
	TypeAnswerBeforeTime = "AnswerBeforeTime"
	TypeAnswerBetween    = "AnswerBetween"
	TypeExceedWordCount  = "ExceedWordCount"
	TypeAsync            = "Async"
)

// Encode serialises a form definition as an indented JSON document.
func Encode(form *model.Form) ([]byte, error) {
	if form == nil {
		return nil, fmt.Errorf("wire: form is nil")
	}
	return json.MarshalIndent(ToDocument(form), "", "  ")
}

// Decode parses a JSON or YAML form document and rebuilds the definition.
// The registry is attached to the form, not consumed; opts carries the
// interaction-phase collaborators.
func Decode(data []byte, registry *rules.Registry, opts model.Options) (*model.Form, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		if yamlErr := yaml.Unmarshal(data, &doc); yamlErr != nil {
			return nil, fmt.Errorf("wire: document is neither JSON (%v) nor YAML (%v)", err, yamlErr)
		}
	}
	return FromDocument(doc, registry, opts)
}

// ToDocument converts a form definition into its wire shape, dropping
// runtime-only state.
func ToDocument(form *model.Form) Document {
	doc := Document{
		Name:         form.Name,
		DrawType:     int(form.Mode),
		Version:      form.Version,
		DataSource:   form.DataSource,
		DateModified: form.DateModified,
		Title:        form.Title,
	}
	for _, section := range form.Sections {
		doc.Sections = append(doc.Sections, Section{
			ID:          section.ID,
			Title:       section.Title,
			RuleToMatch: section.RuleToMatch,
		})
	}
	for _, question := range form.Questions {
		doc.Questions = append(doc.Questions, questionToWire(question))
	}
	return doc
}

func questionToWire(question *model.Question) Question {
	out := Question{
		SectionID:       question.SectionID,
		Caption:         question.Caption,
		CaptionFootnote: question.Footnote,
		RuleToMatch:     question.RuleToMatch,
		ControlLayout:   question.Layout,
	}
	for _, control := range question.Controls {
		out.Controls = append(out.Controls, controlToWire(control))
	}
	return out
}

func controlToWire(control *model.Control) Control {
	out := Control{
		ControlType: int(control.Kind),
		Name:        control.Name,
		ReadOnly:    control.ReadOnly,
	}
	for _, v := range control.Validators {
		out.Validators = append(out.Validators, validatorToWire(v))
	}
	for _, v := range control.Async {
		out.ValidatorsAsync = append(out.ValidatorsAsync, AsyncValidator{
			Type:    TypeAsync,
			URL:     v.URL,
			Message: v.Message,
		})
	}

	switch {
	case control.Label != nil:
		out.Text = control.Label.Text
	case control.Html != nil:
		out.Text = control.Html.Content
	}
	if control.Text != nil {
		out.TextType = control.Text.TextType
		out.MaxLength = control.Text.MaxLength
		out.Placeholder = control.Text.Placeholder
	}
	if control.Date != nil {
		out.DateType = control.Date.DateType
	}
	if control.Time != nil {
		out.HourStart = control.Time.HourStart
		out.HourEnd = control.Time.HourEnd
		out.MinuteStep = control.Time.MinuteStep
	}
	if control.Choice != nil {
		options := &OptionList{
			ExpandOptions: control.Choice.ExpandOptions,
			NullItem:      control.Choice.NullItem,
		}
		for _, option := range control.Choice.List {
			options.List = append(options.List, OptionItem{
				Code:        option.Code,
				Description: option.Description,
			})
		}
		if control.Choice.SourceURL != "" {
			options.OptionSource = &OptionSource{URL: control.Choice.SourceURL}
		}
		out.Options = options
	}
	if control.Slider != nil {
		out.Min = control.Slider.Min
		out.Max = control.Slider.Max
		out.Step = control.Slider.Step
	}
	return out
}

func validatorToWire(v *validate.Validator) Validator {
	out := Validator{Message: v.Message}
	switch v.Kind {
	case validate.KindRequired:
		out.Type = TypeRequired
	case validate.KindEmail:
		out.Type = TypeEmail
	case validate.KindDate:
		out.Type = TypeDate
	case validate.KindTime:
		out.Type = TypeTime
	case validate.KindDateTime:
		out.Type = TypeDateTime
	case validate.KindAnswerMustMatch:
		out.Type = TypeAnswerMustMatch
		out.Value = v.Operand
	case validate.KindAnswerAfterDate:
		out.Type = TypeAnswerAfterDate
		out.Value = v.Operand
	case validate.KindAnswerBeforeDate:
		out.Type = TypeAnswerBeforeDate
		out.Value = v.Operand
	case validate.KindAnswerAfterTime:
		out.Type = TypeAnswerAfterTime
		out.Value = v.Operand
	case validate.KindAnswerBeforeTime:
		out.Type = TypeAnswerBeforeTime
		out.Value = v.Operand
	case validate.KindAnswerBetween:
		out.Type = TypeAnswerBetween
		out.Value = v.Min + "," + v.Max
	case validate.KindExceedWordCount:
		out.Type = TypeExceedWordCount
		out.Value = strconv.Itoa(v.Limit)
	}
	return out
}

// FromDocument rebuilds a form definition from its wire shape. The returned
// form is in the definition phase; callers run Initialise before use.
func FromDocument(doc Document, registry *rules.Registry, opts model.Options) (*model.Form, error) {
	form := model.New(doc.Name, doc.Title, model.DrawMode(doc.DrawType), registry, opts)
	form.Version = doc.Version
	form.DataSource = doc.DataSource
	form.DateModified = doc.DateModified

	for _, section := range doc.Sections {
		built := form.AddSection(section.Title)
		built.RuleToMatch = section.RuleToMatch
		if built.ID != section.ID {
			return nil, fmt.Errorf("wire: section ids must be dense and ordered, got %d at position %d",
				section.ID, built.ID)
		}
	}

	for _, question := range doc.Questions {
		built := form.AddQuestion(question.Caption, question.CaptionFootnote, question.ControlLayout)
		built.SetSection(question.SectionID)
		built.RuleToMatch = question.RuleToMatch
		for _, control := range question.Controls {
			if err := controlFromWire(built, control); err != nil {
				return nil, err
			}
		}
	}
	return form, nil
}

func controlFromWire(question *model.Question, in Control) error {
	var control *model.Control
	switch model.ControlKind(in.ControlType) {
	case model.KindLabel:
		control = question.AddLabelControl(in.Name, in.Text)
	case model.KindHtml:
		control = question.AddHtmlControl(in.Name, in.Text)
	case model.KindText:
		control = question.AddTextControl(in.Name)
		control.Text.TextType = in.TextType
		control.Text.MaxLength = in.MaxLength
		control.Text.Placeholder = in.Placeholder
	case model.KindOption:
		control = question.AddOptionControl(in.Name)
		applyOptions(control, in.Options)
	case model.KindOptionMulti:
		control = question.AddOptionMultiControl(in.Name)
		applyOptions(control, in.Options)
	case model.KindDate:
		control = question.AddDateControl(in.Name)
		control.Date.DateType = in.DateType
	case model.KindTime:
		control = question.AddTimeControl(in.Name, in.HourStart, in.HourEnd, in.MinuteStep)
	case model.KindDateTime:
		control = question.AddDateTimeControl(in.Name)
		control.Date.DateType = in.DateType
		control.Time.HourStart = in.HourStart
		control.Time.HourEnd = in.HourEnd
		control.Time.MinuteStep = in.MinuteStep
	case model.KindTelephone:
		control = question.AddTelephoneControl(in.Name)
	case model.KindToggle:
		control = question.AddToggleControl(in.Name)
	case model.KindSlider:
		control = question.AddSliderControl(in.Name, in.Min, in.Max, in.Step)
	default:
		return fmt.Errorf("wire: unknown control type %d for %q", in.ControlType, in.Name)
	}

	control.ReadOnly = in.ReadOnly
	for _, v := range in.Validators {
		built, err := validatorFromWire(v)
		if err != nil {
			return fmt.Errorf("wire: control %q: %w", in.Name, err)
		}
		control.AddValidator(built)
	}
	for _, v := range in.ValidatorsAsync {
		control.AddValidatorAsync(validate.Async(v.URL, v.Message))
	}
	return nil
}

func applyOptions(control *model.Control, options *OptionList) {
	if options == nil {
		return
	}
	control.Choice.ExpandOptions = options.ExpandOptions
	control.Choice.NullItem = options.NullItem
	for _, item := range options.List {
		control.Choice.List = append(control.Choice.List, model.Option{
			Code:        item.Code,
			Description: item.Description,
		})
	}
	if options.OptionSource != nil {
		control.Choice.SourceURL = options.OptionSource.URL
	}
}

func validatorFromWire(in Validator) (*validate.Validator, error) {
	switch in.Type {
	case TypeRequired:
		return validate.Required(in.Message), nil
	case TypeEmail:
		return validate.Email(in.Message), nil
	case TypeDate:
		return validate.Date(in.Message), nil
	case TypeTime:
		return validate.Time(in.Message), nil
	case TypeDateTime:
		return validate.DateTime(in.Message), nil
	case TypeAnswerMustMatch:
		return validate.AnswerMustMatch(in.Value, in.Message), nil
	case TypeAnswerAfterDate:
		return validate.AnswerAfterDate(in.Value, in.Message), nil
	case TypeAnswerBeforeDate:
		return validate.AnswerBeforeDate(in.Value, in.Message), nil
	case TypeAnswerAfterTime:
		return validate.AnswerAfterTime(in.Value, in.Message), nil
	case TypeAnswerBeforeTime:
		return validate.AnswerBeforeTime(in.Value, in.Message), nil
	case TypeAnswerBetween:
		min, max, ok := strings.Cut(in.Value, ",")
		if !ok {
			return nil, fmt.Errorf("AnswerBetween value %q is not a min,max pair", in.Value)
		}
		return validate.AnswerBetween(min, max, in.Message), nil
	case TypeExceedWordCount:
		limit, err := strconv.Atoi(in.Value)
		if err != nil {
			return nil, fmt.Errorf("ExceedWordCount value %q is not a number", in.Value)
		}
		return validate.ExceedWordCount(limit, in.Message), nil
	default:
		return nil, fmt.Errorf("unknown validator type %q", in.Type)
	}
}

// DecodeRules parses a rule-source payload (JSON or YAML) and registers its
// rules. Duplicate names follow registry semantics: the first registration
// wins with a warning.
func DecodeRules(data []byte, registry *rules.Registry) error {
	var list []BusinessRule
	if err := json.Unmarshal(data, &list); err != nil {
		if yamlErr := yaml.Unmarshal(data, &list); yamlErr != nil {
			return fmt.Errorf("wire: rule payload is neither JSON (%v) nor YAML (%v)", err, yamlErr)
		}
	}
	for _, entry := range list {
		duplicate := registry.Rule(entry.Name) != nil
		rule := registry.AddRule(entry.Name, rules.MatchType(entry.MatchType))
		if duplicate {
			// AddRule already warned; do not graft parts onto the original.
			continue
		}
		for _, part := range entry.Parts {
			comparison := rules.Comparison(part.Comparison)
			if comparison == rules.Between {
				rule.AddBetweenPart(part.Name, part.Min, part.Max)
				continue
			}
			rule.AddPart(part.Name, comparison, part.Value)
		}
	}
	return nil
}
