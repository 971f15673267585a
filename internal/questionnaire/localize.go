package questionnaire

import "github.com/stemsi/intake-backend/internal/model"

// LocalizedOption is an option rendered in one language.
type LocalizedOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LocalizedQuestion is a question rendered in one language.
type LocalizedQuestion struct {
	ID            string             `json:"id"`
	Type          model.QuestionType `json:"type"`
	Number        string             `json:"number,omitempty"`
	Label         string             `json:"label"`
	Icon          string             `json:"icon,omitempty"`
	Options       []LocalizedOption  `json:"options,omitempty"`
	Required      bool               `json:"required"`
	HasAdditional bool               `json:"has_additional"`
	ShowIf        *model.Condition   `json:"show_if,omitempty"`
	Placeholder   string             `json:"placeholder,omitempty"`
	Min           *float64           `json:"min,omitempty"`
	Max           *float64           `json:"max,omitempty"`
}

// LocalizedSection is a section rendered in one language.
type LocalizedSection struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Icon      string              `json:"icon,omitempty"`
	Questions []LocalizedQuestion `json:"questions"`
}

// LocalizedQuestionnaire is the client rendering payload.
type LocalizedQuestionnaire struct {
	Type     model.QuestionnaireType `json:"type"`
	Lang     model.Lang              `json:"lang"`
	Title    string                  `json:"title"`
	Sections []LocalizedSection      `json:"sections"`
}

// Localize renders the schema in lang.
func (s *Schema) Localize(lang model.Lang) LocalizedQuestionnaire {
	out := LocalizedQuestionnaire{
		Type:     s.Type,
		Lang:     lang,
		Title:    s.Title.Get(lang),
		Sections: make([]LocalizedSection, 0, len(s.Sections)),
	}

	for _, section := range s.Sections {
		ls := LocalizedSection{
			ID:        section.ID,
			Title:     section.Title.Get(lang),
			Icon:      section.Icon,
			Questions: make([]LocalizedQuestion, 0, len(section.Questions)),
		}
		for _, q := range section.Questions {
			lq := LocalizedQuestion{
				ID:            q.ID,
				Type:          q.Type,
				Number:        q.Number,
				Label:         q.Label.Get(lang),
				Icon:          q.Icon,
				Required:      q.Required,
				HasAdditional: q.HasAdditional,
				ShowIf:        q.ShowIf,
				Min:           q.Min,
				Max:           q.Max,
			}
			if q.Placeholder != nil {
				lq.Placeholder = q.Placeholder.Get(lang)
			}
			for _, o := range q.Options {
				lq.Options = append(lq.Options, LocalizedOption{Value: o.Value, Label: o.Label.Get(lang)})
			}
			ls.Questions = append(ls.Questions, lq)
		}
		out.Sections = append(out.Sections, ls)
	}
	return out
}
