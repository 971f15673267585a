package questionnaire

import (
	"math"
	"strconv"
	"strings"

	"github.com/stemsi/intake-backend/internal/model"
)

// NoIssues is the exclusive "nothing to report" option of checkbox questions.
const NoIssues = "no_issues"

var (
	msgRequired = model.LocalizedText{
		RU: "Это поле обязательно",
		EN: "This field is required",
		DE: "Dieses Feld ist erforderlich",
	}
	msgNotNumber = model.LocalizedText{
		RU: "Введите число",
		EN: "Enter a number",
		DE: "Geben Sie eine Zahl ein",
	}
	msgOutOfRange = model.LocalizedText{
		RU: "Значение вне допустимого диапазона",
		EN: "Value is out of range",
		DE: "Wert außerhalb des zulässigen Bereichs",
	}
)

// ValidateRequired returns one error per visible required question whose
// answer is absent, blank or an empty selection.
func (s *Schema) ValidateRequired(questions []model.Question, answers model.AnswerSet, lang model.Lang) map[string]string {
	errs := make(map[string]string)
	for i := range questions {
		q := &questions[i]
		if !q.Required || !s.IsVisible(q, answers) {
			continue
		}
		a, ok := answers.Get(q.ID)
		if !ok || a.IsEmpty() {
			errs[q.ID] = msgRequired.Get(lang)
		}
	}
	return errs
}

// ValidateSection checks required answers and number ranges of one wizard step.
func (s *Schema) ValidateSection(index int, answers model.AnswerSet, lang model.Lang) (map[string]string, bool) {
	if index < 0 || index >= len(s.Sections) {
		return nil, false
	}
	questions := s.Sections[index].Questions
	errs := s.ValidateRequired(questions, answers, lang)
	s.validateNumbers(questions, answers, lang, errs)
	return errs, true
}

// Validate checks the whole questionnaire.
func (s *Schema) Validate(answers model.AnswerSet, lang model.Lang) map[string]string {
	errs := make(map[string]string)
	for i := range s.Sections {
		sectionErrs, _ := s.ValidateSection(i, answers, lang)
		for id, msg := range sectionErrs {
			errs[id] = msg
		}
	}
	return errs
}

func (s *Schema) validateNumbers(questions []model.Question, answers model.AnswerSet, lang model.Lang, errs map[string]string) {
	for i := range questions {
		q := &questions[i]
		if q.Type != model.QuestionTypeNumber {
			continue
		}
		if _, failed := errs[q.ID]; failed {
			continue
		}
		a, ok := answers.Get(q.ID)
		if !ok || a.IsEmpty() || !s.IsVisible(q, answers) {
			continue
		}
		n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(a.String()), ",", "."), 64)
		if err != nil || a.IsMulti() || math.IsNaN(n) || math.IsInf(n, 0) {
			errs[q.ID] = msgNotNumber.Get(lang)
			continue
		}
		if (q.Min != nil && n < *q.Min) || (q.Max != nil && n > *q.Max) {
			errs[q.ID] = msgOutOfRange.Get(lang)
		}
	}
}

// ToggleOption applies a checkbox click to the current selection. NoIssues
// is exclusive: checking it clears everything else, checking anything else
// drops it. Unchecking an option removes only that option.
func ToggleOption(current []string, value string, checked bool) []string {
	if value == NoIssues {
		if checked {
			return []string{NoIssues}
		}
		return []string{}
	}

	out := make([]string, 0, len(current)+1)
	for _, v := range current {
		if v == value || (checked && v == NoIssues) {
			continue
		}
		out = append(out, v)
	}
	if checked {
		out = append(out, value)
	}
	return out
}

// ShowsAdditional reports whether the free-text elaboration field applies
// to the question given its current answer.
func ShowsAdditional(q *model.Question, a model.Answer) bool {
	if !q.HasAdditional {
		return false
	}
	if q.ID == "weight_goal" {
		return a.Contains("lose") || a.Contains("gain")
	}
	switch q.Type {
	case model.QuestionTypeCheckbox:
		return a.Contains("other")
	case model.QuestionTypeRadio:
		return a.Contains("yes")
	default:
		return false
	}
}

// AdditionalFields lists the visible questions whose elaboration field applies.
func (s *Schema) AdditionalFields(answers model.AnswerSet) []string {
	var ids []string
	for si := range s.Sections {
		for qi := range s.Sections[si].Questions {
			q := &s.Sections[si].Questions[qi]
			a, ok := answers.Get(q.ID)
			if ok && s.IsVisible(q, answers) && ShowsAdditional(q, a) {
				ids = append(ids, q.ID)
			}
		}
	}
	return ids
}
