package model

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formflow/pkg/datastore"
	"github.com/goliatone/go-formflow/pkg/rules"
	"github.com/goliatone/go-formflow/pkg/validate"
)

// OptionClient fetches a choice control's option list from a resolved source
// URL. Implementations live outside this package; pkg/source provides the
// HTTP one.
type OptionClient interface {
	FetchOptions(ctx context.Context, url string) ([]Option, error)
}

// Options carries the collaborators a form needs at interaction time. All
// fields are optional: without an OptionClient option reloads are skipped,
// without a Checker async validators report valid, and a nil Logger falls
// back to the package default.
type Options struct {
	OptionClient OptionClient
	Checker      validate.Checker
	Logger       *log.Logger
}

// Form is the top-level container: ordered sections and questions, one data
// store, and a shared (explicitly passed, never ambient) rule registry.
type Form struct {
	Name         string
	Title        string
	Version      string
	DataSource   string
	DateModified string
	Mode         DrawMode

	Sections  []*Section
	Questions []*Question

	store    *datastore.Store
	registry *rules.Registry
	opts     Options
	logger   *log.Logger

	// Inverse edges derived by Initialise, keyed by field name.
	referencedBy map[string][]*Control
	dependents   map[string][]*Control
	controls     map[string]*Control

	initialised bool
	unsubscribe func()
	visiting    map[string]bool
}

// New creates an empty form in the definition phase.
func New(name, title string, mode DrawMode, registry *rules.Registry, opts Options) *Form {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Form{
		Name:     name,
		Title:    title,
		Mode:     mode,
		store:    datastore.New(),
		registry: registry,
		opts:     opts,
		logger:   logger,
	}
}

// Store returns the form's data store.
func (f *Form) Store() *datastore.Store {
	return f.store
}

// Registry returns the shared rule registry, which may be nil when the form
// carries no gated content.
func (f *Form) Registry() *rules.Registry {
	return f.registry
}

// SetValue writes a field value into the data store, triggering dependent
// revalidation and option reloads once the form is initialised.
func (f *Form) SetValue(name, value string) {
	f.store.SetValue(name, value)
}

// AddSection appends a section; ids are 1-based and follow assignment order.
func (f *Form) AddSection(title string) *Section {
	section := &Section{ID: len(f.Sections) + 1, Title: title}
	f.Sections = append(f.Sections, section)
	return section
}

// AddQuestion appends a question assigned to the most recently added section.
// A form with no sections yet gets an implicit one titled "Default".
func (f *Form) AddQuestion(caption, footnote, layout string) *Question {
	if len(f.Sections) == 0 {
		f.AddSection("Default")
	}
	question := &Question{
		SectionID: f.Sections[len(f.Sections)-1].ID,
		Caption:   caption,
		Footnote:  footnote,
		Layout:    layout,
		form:      f,
	}
	f.Questions = append(f.Questions, question)
	return question
}

// Section looks up a section by id, returning nil when absent.
func (f *Form) Section(id int) *Section {
	for _, section := range f.Sections {
		if section.ID == id {
			return section
		}
	}
	return nil
}

// Question looks up a question by caption, returning nil when absent.
// Callers must check.
func (f *Form) Question(caption string) *Question {
	for _, question := range f.Questions {
		if question.Caption == caption {
			return question
		}
	}
	return nil
}

// Control looks up a control by name anywhere in the form, returning nil
// when absent. Callers must check.
func (f *Form) Control(name string) *Control {
	if f.controls != nil {
		return f.controls[name]
	}
	for _, question := range f.Questions {
		for _, control := range question.Controls {
			if control.Name == name {
				return control
			}
		}
	}
	return nil
}

func (q *Question) addControl(kind ControlKind, name string) *Control {
	control := &Control{Kind: kind, Name: name, form: q.form}
	q.Controls = append(q.Controls, control)
	return control
}

// AddLabelControl attaches static text to the question.
func (q *Question) AddLabelControl(name, text string) *Control {
	control := q.addControl(KindLabel, name)
	control.Label = &LabelPayload{Text: text}
	return control
}

// AddHtmlControl attaches rich markup to the question. The content is
// sanitised before it is stored; anything outside the allowed user-generated
// markup policy is stripped.
func (q *Question) AddHtmlControl(name, content string) *Control {
	control := q.addControl(KindHtml, name)
	control.Html = &HtmlPayload{Content: sanitizeMarkup(content)}
	return control
}

// AddTextControl adds a free-text input.
func (q *Question) AddTextControl(name string) *Control {
	control := q.addControl(KindText, name)
	control.Text = &TextPayload{}
	return control
}

// AddOptionControl adds a single-choice control.
func (q *Question) AddOptionControl(name string, options ...Option) *Control {
	control := q.addControl(KindOption, name)
	control.Choice = &ChoicePayload{List: options}
	return control
}

// AddOptionMultiControl adds a multi-choice control; its value is the
// comma-joined list of selected codes.
func (q *Question) AddOptionMultiControl(name string, options ...Option) *Control {
	control := q.addControl(KindOptionMulti, name)
	control.Choice = &ChoicePayload{List: options}
	return control
}

// AddDateControl adds a date input.
func (q *Question) AddDateControl(name string) *Control {
	control := q.addControl(KindDate, name)
	control.Date = &DatePayload{}
	return control
}

// AddTimeControl adds a time input spanning the given hour range.
func (q *Question) AddTimeControl(name string, hourStart, hourEnd, minuteStep int) *Control {
	control := q.addControl(KindTime, name)
	control.Time = &TimePayload{HourStart: hourStart, HourEnd: hourEnd, MinuteStep: minuteStep}
	return control
}

// AddDateTimeControl adds a combined date and time input.
func (q *Question) AddDateTimeControl(name string) *Control {
	control := q.addControl(KindDateTime, name)
	control.Date = &DatePayload{}
	control.Time = &TimePayload{}
	return control
}

// AddTelephoneControl adds a telephone number input.
func (q *Question) AddTelephoneControl(name string) *Control {
	return q.addControl(KindTelephone, name)
}

// AddToggleControl adds an on/off input.
func (q *Question) AddToggleControl(name string) *Control {
	return q.addControl(KindToggle, name)
}

// AddSliderControl adds a numeric slider.
func (q *Question) AddSliderControl(name string, min, max, step float64) *Control {
	control := q.addControl(KindSlider, name)
	control.Slider = &SliderPayload{Min: min, Max: max, Step: step}
	return control
}

// AddValidator appends a synchronous validator, preserving declaration order.
func (c *Control) AddValidator(v *validate.Validator) *Control {
	if v != nil {
		c.Validators = append(c.Validators, v)
	}
	return c
}

// AddValidatorAsync appends an asynchronous validator.
func (c *Control) AddValidatorAsync(v *validate.AsyncValidator) *Control {
	if v != nil {
		c.Async = append(c.Async, v)
	}
	return c
}

// WithOptionSource points a choice control at a remote option source. The
// URL may embed `[field]` path segments resolved against the data store.
func (c *Control) WithOptionSource(url string) *Control {
	if c.Choice != nil {
		c.Choice.SourceURL = url
	}
	return c
}

// SetReadOnly toggles the read-only flag; the only structural mutation
// permitted after the definition phase.
func (c *Control) SetReadOnly(readOnly bool) {
	c.ReadOnly = readOnly
}
