package questionnaire

import (
	"fmt"
	"strings"

	"github.com/stemsi/intake-backend/internal/model"
)

var answersHeader = model.LocalizedText{
	RU: "📝 Ответы на вопросы анкеты:",
	EN: "📝 Questionnaire Answers:",
	DE: "📝 Fragebogen-Antworten:",
}

// FormatAnswer renders an answer as display text. Choice values are mapped
// to their localized option label, falling back to the raw value.
func FormatAnswer(q *model.Question, a model.Answer, lang model.Lang) string {
	values := a.Values()
	if len(q.Options) == 0 {
		return strings.Join(values, ", ")
	}

	labels := make([]string, len(values))
	for i, v := range values {
		if label, ok := q.OptionLabel(v, lang); ok {
			labels[i] = label
		} else {
			labels[i] = v
		}
	}
	return strings.Join(labels, ", ")
}

// FormatSubmission renders every visible, answered question grouped by
// section in schema order. Sections with nothing to show are omitted.
func (s *Schema) FormatSubmission(answers model.AnswerSet, lang model.Lang) string {
	lines := []string{answersHeader.Get(lang), ""}

	for si := range s.Sections {
		section := &s.Sections[si]

		var body []string
		for qi := range section.Questions {
			q := &section.Questions[qi]
			a, ok := answers.Get(q.ID)
			if !ok || a.IsEmpty() || !s.IsVisible(q, answers) {
				continue
			}
			body = append(body, formatLine(q, a, answers.AdditionalFor(q.ID), lang))
		}
		if len(body) == 0 {
			continue
		}

		lines = append(lines, fmt.Sprintf("📋 %s:", section.Title.Get(lang)))
		lines = append(lines, body...)
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func formatLine(q *model.Question, a model.Answer, additional string, lang model.Lang) string {
	line := fmt.Sprintf("• %s: %s", q.Label.Get(lang), FormatAnswer(q, a, lang))
	if additional == "" {
		return line
	}
	switch q.ID {
	case "weight_goal":
		return line + fmt.Sprintf(" (%s кг)", additional)
	case "regular_medications":
		return line + fmt.Sprintf(" (%s)", additional)
	default:
		return line + " — " + additional
	}
}

// ComposeMessage builds the operator-facing message: a header identifying the
// patient followed by the formatted answers.
func ComposeMessage(title string, user model.TelegramUser, answersText string) string {
	handle := user.Handle()
	if handle == "" {
		handle = "не указан"
	}

	var b strings.Builder
	b.WriteString("🔔 Новая анкета!\n\n")
	fmt.Fprintf(&b, "📋 Тип: %s\n", title)
	fmt.Fprintf(&b, "👤 Имя: %s\n", user.FullName())
	fmt.Fprintf(&b, "🆔 Telegram: %s\n", handle)
	fmt.Fprintf(&b, "🆔 ID: %d\n\n", user.ID)
	b.WriteString(answersText)
	return b.String()
}
