package model

// Lang is a supported interface language.
type Lang string

const (
	LangRU Lang = "ru"
	LangEN Lang = "en"
	LangDE Lang = "de"
)

// DefaultLang is used for operator-facing text and as the label fallback.
const DefaultLang = LangRU

// SupportedLangs lists languages in preference order.
var SupportedLangs = []Lang{LangRU, LangEN, LangDE}

// ParseLang returns the matching Lang, or DefaultLang for anything else.
func ParseLang(s string) Lang {
	for _, l := range SupportedLangs {
		if string(l) == s {
			return l
		}
	}
	return DefaultLang
}

// LocalizedText holds one string per supported language.
type LocalizedText struct {
	RU string `json:"ru" yaml:"ru"`
	EN string `json:"en" yaml:"en"`
	DE string `json:"de" yaml:"de"`
}

// Get returns the text for lang, falling back to Russian when missing.
func (t LocalizedText) Get(lang Lang) string {
	var s string
	switch lang {
	case LangEN:
		s = t.EN
	case LangDE:
		s = t.DE
	default:
		s = t.RU
	}
	if s == "" {
		return t.RU
	}
	return s
}

// QuestionnaireType is the patient category a questionnaire is written for.
type QuestionnaireType string

const (
	QuestionnaireInfant QuestionnaireType = "infant"
	QuestionnaireChild  QuestionnaireType = "child"
	QuestionnaireWoman  QuestionnaireType = "woman"
	QuestionnaireMan    QuestionnaireType = "man"
)

// QuestionType is the input kind of a question.
type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"
	QuestionTypeNumber   QuestionType = "number"
	QuestionTypeTextarea QuestionType = "textarea"
	QuestionTypeRadio    QuestionType = "radio"
	QuestionTypeCheckbox QuestionType = "checkbox"
)

// IsChoice reports whether answers are picked from an option list.
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeRadio || t == QuestionTypeCheckbox
}

// ConditionOperator is the comparison used by a visibility predicate.
type ConditionOperator string

const (
	OpEquals      ConditionOperator = "equals"
	OpNotEquals   ConditionOperator = "notEquals"
	OpIncludes    ConditionOperator = "includes"
	OpNotIncludes ConditionOperator = "notIncludes"
)

// Condition decides whether a question is shown based on another question's answer.
type Condition struct {
	QuestionID string            `json:"question_id" yaml:"question_id"`
	Operator   ConditionOperator `json:"operator,omitempty" yaml:"operator"`
	Values     []string          `json:"values" yaml:"values"`
}

// Option is one selectable answer of a choice question.
type Option struct {
	Value string        `json:"value" yaml:"value"`
	Label LocalizedText `json:"label" yaml:"label"`
}

// Question is a single field of a questionnaire section.
type Question struct {
	ID            string         `json:"id" yaml:"id"`
	Type          QuestionType   `json:"type" yaml:"type"`
	Number        string         `json:"number,omitempty" yaml:"number"`
	Label         LocalizedText  `json:"label" yaml:"label"`
	Icon          string         `json:"icon,omitempty" yaml:"icon"`
	Options       []Option       `json:"options,omitempty" yaml:"options"`
	Required      bool           `json:"required" yaml:"required"`
	HasAdditional bool           `json:"has_additional" yaml:"has_additional"`
	ShowIf        *Condition     `json:"show_if,omitempty" yaml:"show_if"`
	Placeholder   *LocalizedText `json:"placeholder,omitempty" yaml:"placeholder"`
	Min           *float64       `json:"min,omitempty" yaml:"min"`
	Max           *float64       `json:"max,omitempty" yaml:"max"`
}

// OptionLabel returns the localized label for value and whether it was found.
func (q *Question) OptionLabel(value string, lang Lang) (string, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o.Label.Get(lang), true
		}
	}
	return "", false
}

// Section is an ordered group of questions shown as one wizard step.
type Section struct {
	ID        string        `json:"id" yaml:"id"`
	Title     LocalizedText `json:"title" yaml:"title"`
	Icon      string        `json:"icon,omitempty" yaml:"icon"`
	Questions []Question    `json:"questions" yaml:"questions"`
}

// Questionnaire is the full schema for one patient category.
type Questionnaire struct {
	Type     QuestionnaireType `json:"type" yaml:"type"`
	Title    LocalizedText     `json:"title" yaml:"title"`
	Sections []Section         `json:"sections" yaml:"sections"`
}
