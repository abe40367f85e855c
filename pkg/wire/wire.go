// Package wire serialises form definitions to and from the interchange
// document shape: a JSON-keyed schema also accepted as YAML. Runtime-only
// state (error messages, async caches, change subscribers) never crosses the
// wire; a decode of an encode is structurally equal to the original
// definition.
package wire

// Document is the serialised form.
type Document struct {
	Name         string     `json:"name" yaml:"name"`
	DrawType     int        `json:"drawType" yaml:"drawType"`
	Version      string     `json:"version,omitempty" yaml:"version,omitempty"`
	DataSource   string     `json:"dataSource,omitempty" yaml:"dataSource,omitempty"`
	DateModified string     `json:"dateModified,omitempty" yaml:"dateModified,omitempty"`
	Sections     []Section  `json:"sections" yaml:"sections"`
	Questions    []Question `json:"questions" yaml:"questions"`
	Title        string     `json:"title" yaml:"title"`
}

type Section struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	RuleToMatch string `json:"ruleToMatch,omitempty" yaml:"ruleToMatch,omitempty"`
}

type Question struct {
	SectionID       int       `json:"sectionId" yaml:"sectionId"`
	Caption         string    `json:"caption" yaml:"caption"`
	CaptionFootnote string    `json:"captionFootnote,omitempty" yaml:"captionFootnote,omitempty"`
	RuleToMatch     string    `json:"ruleToMatch,omitempty" yaml:"ruleToMatch,omitempty"`
	ControlLayout   string    `json:"controlLayout,omitempty" yaml:"controlLayout,omitempty"`
	Controls        []Control `json:"controls" yaml:"controls"`
}

type Control struct {
	ControlType     int              `json:"controlType" yaml:"controlType"`
	Name            string           `json:"name" yaml:"name"`
	Validators      []Validator      `json:"validators,omitempty" yaml:"validators,omitempty"`
	ValidatorsAsync []AsyncValidator `json:"validatorsAsync,omitempty" yaml:"validatorsAsync,omitempty"`
	ReadOnly        bool             `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`

	// Type-specific fields; which ones apply follows ControlType.
	Text        string      `json:"text,omitempty" yaml:"text,omitempty"`
	TextType    string      `json:"textType,omitempty" yaml:"textType,omitempty"`
	MaxLength   int         `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Placeholder string      `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	DateType    string      `json:"dateType,omitempty" yaml:"dateType,omitempty"`
	HourStart   int         `json:"hourStart,omitempty" yaml:"hourStart,omitempty"`
	HourEnd     int         `json:"hourEnd,omitempty" yaml:"hourEnd,omitempty"`
	MinuteStep  int         `json:"minuteStep,omitempty" yaml:"minuteStep,omitempty"`
	Options     *OptionList `json:"options,omitempty" yaml:"options,omitempty"`
	Min         float64     `json:"min,omitempty" yaml:"min,omitempty"`
	Max         float64     `json:"max,omitempty" yaml:"max,omitempty"`
	Step        float64     `json:"step,omitempty" yaml:"step,omitempty"`
}

type OptionList struct {
	ExpandOptions bool          `json:"expandOptions,omitempty" yaml:"expandOptions,omitempty"`
	NullItem      string        `json:"nullItem,omitempty" yaml:"nullItem,omitempty"`
	List          []OptionItem  `json:"list,omitempty" yaml:"list,omitempty"`
	OptionSource  *OptionSource `json:"optionSource,omitempty" yaml:"optionSource,omitempty"`
}

type OptionItem struct {
	Code        string `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
}

type OptionSource struct {
	URL string `json:"url" yaml:"url"`
}

type Validator struct {
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
}

type AsyncValidator struct {
	Type    string `json:"type" yaml:"type"`
	URL     string `json:"url" yaml:"url"`
	Message string `json:"message" yaml:"message"`
}

// BusinessRule is the rule-source document entry.
type BusinessRule struct {
	Name      string     `json:"name" yaml:"name"`
	MatchType int        `json:"matchType" yaml:"matchType"`
	Parts     []RulePart `json:"parts" yaml:"parts"`
}

type RulePart struct {
	Name       string `json:"name" yaml:"name"`
	Comparison int    `json:"comparison" yaml:"comparison"`
	Value      any    `json:"value,omitempty" yaml:"value,omitempty"`
	Min        any    `json:"min,omitempty" yaml:"min,omitempty"`
	Max        any    `json:"max,omitempty" yaml:"max,omitempty"`
}
