// Package model holds the structural definition of a form: sections,
// questions, and controls assembled through a fluent builder during the
// definition phase. Initialise derives the dependency graph between controls
// and, from then on, keeps validity and option lists consistent as values
// move through the data store.
package model

import (
	"errors"

	"github.com/goliatone/go-formflow/pkg/validate"
)

// DrawMode governs how much of a form is presented at once.
type DrawMode int

const (
	SingleQuestion DrawMode = iota
	SingleSection
	EntireForm
)

// ControlKind discriminates the control variants.
type ControlKind int

const (
	KindLabel ControlKind = iota
	KindHtml
	KindText
	KindOption
	KindOptionMulti
	KindDate
	KindTime
	KindDateTime
	KindTelephone
	KindToggle
	KindSlider
)

// ErrDuplicateControl is returned by Initialise when two controls share a
// name. The dependency graph and control identifiers both key on the name,
// so duplicates are a configuration defect.
var ErrDuplicateControl = errors.New("model: duplicate control name")

// Option is one selectable entry of a choice control.
type Option struct {
	Code        string
	Description string
}

// Per-kind payloads. Exactly one is populated, matching the control's Kind.

type LabelPayload struct {
	Text string
}

type HtmlPayload struct {
	Content string
}

type TextPayload struct {
	TextType    string
	MaxLength   int
	Placeholder string
}

// ChoicePayload backs Option and OptionMulti controls. List holds the
// currently resolved options; SourceURL, when set, is the remote option
// source and may embed `[field]` path segments that tie the control to other
// fields' values.
type ChoicePayload struct {
	ExpandOptions bool
	NullItem      string
	List          []Option
	SourceURL     string
}

type DatePayload struct {
	DateType string
}

type TimePayload struct {
	HourStart  int
	HourEnd    int
	MinuteStep int
}

type SliderPayload struct {
	Min  float64
	Max  float64
	Step float64
}

// Control is a single data-entry element bound to one data store field. The
// Kind selects which payload pointer is set; validators and async validators
// run against the field's current value.
type Control struct {
	Kind       ControlKind
	Name       string
	Validators []*validate.Validator
	Async      []*validate.AsyncValidator
	ReadOnly   bool

	Label  *LabelPayload
	Html   *HtmlPayload
	Text   *TextPayload
	Choice *ChoicePayload
	Date   *DatePayload
	Time   *TimePayload
	Slider *SliderPayload

	// IsReferencedBy names the controls whose validators reference this
	// control's value; Dependencies names the controls whose values feed
	// this control's option source. Both are derived by Initialise.
	IsReferencedBy []string
	Dependencies   []string

	form         *Form
	errorMessage string
	asyncError   string
}

// Section groups questions under a title, optionally gated by a rule.
type Section struct {
	ID          int
	Title       string
	RuleToMatch string
}

// SetDisplayRule gates the whole section behind the named rule.
func (s *Section) SetDisplayRule(name string) *Section {
	s.RuleToMatch = name
	return s
}

// Question is a captioned group of controls belonging to one section.
type Question struct {
	SectionID   int
	Caption     string
	Footnote    string
	RuleToMatch string
	Layout      string
	Controls    []*Control

	form *Form
}

// SetSection reassigns the question to the section with the given id.
func (q *Question) SetSection(id int) *Question {
	q.SectionID = id
	return q
}

// SetDisplayRule gates the question behind the named rule.
func (q *Question) SetDisplayRule(name string) *Question {
	q.RuleToMatch = name
	return q
}
