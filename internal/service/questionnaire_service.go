package service

import (
	"errors"
	"fmt"

	"github.com/stemsi/intake-backend/internal/model"
	"github.com/stemsi/intake-backend/internal/questionnaire"
)

var (
	ErrUnknownQuestionnaire = errors.New("unknown questionnaire type")
	ErrInvalidSection       = errors.New("questionnaire section out of range")
)

// QuestionnaireService serves schemas and evaluates answers against them.
type QuestionnaireService struct {
	registry *questionnaire.Registry
}

// NewQuestionnaireService creates a new QuestionnaireService.
func NewQuestionnaireService(registry *questionnaire.Registry) *QuestionnaireService {
	return &QuestionnaireService{registry: registry}
}

// Schema returns the schema for a patient category.
func (s *QuestionnaireService) Schema(t model.QuestionnaireType) (*questionnaire.Schema, error) {
	schema, err := s.registry.Get(t)
	if err != nil {
		if errors.Is(err, questionnaire.ErrUnknownType) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionnaire, t)
		}
		return nil, err
	}
	return schema, nil
}

// Types lists the available patient categories.
func (s *QuestionnaireService) Types() []model.QuestionnaireType {
	return s.registry.Types()
}

// Localized returns the schema rendered for the client in lang.
func (s *QuestionnaireService) Localized(t model.QuestionnaireType, lang model.Lang) (*questionnaire.LocalizedQuestionnaire, error) {
	schema, err := s.Schema(t)
	if err != nil {
		return nil, err
	}
	out := schema.Localize(lang)
	return &out, nil
}

// Validate checks one wizard step, or the whole questionnaire when no
// section is given.
func (s *QuestionnaireService) Validate(t model.QuestionnaireType, req *model.ValidateRequest, lang model.Lang) (*model.ValidateResponse, error) {
	schema, err := s.Schema(t)
	if err != nil {
		return nil, err
	}

	answers := model.AnswerSet{Answers: req.Answers, Additional: req.Additional}

	var errs map[string]string
	if req.Section != nil {
		var ok bool
		if errs, ok = schema.ValidateSection(*req.Section, answers, lang); !ok {
			return nil, fmt.Errorf("%w: %d", ErrInvalidSection, *req.Section)
		}
	} else {
		errs = schema.Validate(answers, lang)
	}

	visible := schema.VisibleQuestions(answers)
	if visible == nil {
		visible = []string{}
	}
	additional := schema.AdditionalFields(answers)
	if additional == nil {
		additional = []string{}
	}

	return &model.ValidateResponse{
		Valid:            len(errs) == 0,
		Errors:           errs,
		Visible:          visible,
		AdditionalFields: additional,
	}, nil
}

// Preview renders the answers exactly as the operator will read them.
func (s *QuestionnaireService) Preview(t model.QuestionnaireType, answers model.AnswerSet, lang model.Lang) (string, error) {
	schema, err := s.Schema(t)
	if err != nil {
		return "", err
	}
	return schema.FormatSubmission(answers, lang), nil
}
