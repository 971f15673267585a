// Package questionnaire loads the per-category intake schemas and evaluates
// visibility, validation and formatting over a client's answers.
package questionnaire

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/stemsi/intake-backend/internal/model"
)

//go:embed schemas/*.yaml
var schemaFS embed.FS

// ErrUnknownType is returned for a patient category without a schema.
var ErrUnknownType = errors.New("questionnaire: unknown type")

// Schema is a validated questionnaire with a question index.
type Schema struct {
	*model.Questionnaire
	index map[string]*model.Question
}

// NewSchema indexes q and checks it for duplicate ids, dangling show_if
// references, unknown operators and choice questions without options.
func NewSchema(q *model.Questionnaire) (*Schema, error) {
	s := &Schema{Questionnaire: q, index: make(map[string]*model.Question)}

	for si := range q.Sections {
		for qi := range q.Sections[si].Questions {
			question := &q.Sections[si].Questions[qi]
			if question.ID == "" {
				return nil, fmt.Errorf("%s: section %q: question #%d has no id", q.Type, q.Sections[si].ID, qi)
			}
			if _, dup := s.index[question.ID]; dup {
				return nil, fmt.Errorf("%s: duplicate question id %q", q.Type, question.ID)
			}
			switch {
			case question.Type.IsChoice():
				if len(question.Options) == 0 {
					return nil, fmt.Errorf("%s: question %q: %s without options", q.Type, question.ID, question.Type)
				}
			case question.Type == model.QuestionTypeText,
				question.Type == model.QuestionTypeNumber,
				question.Type == model.QuestionTypeTextarea:
			default:
				return nil, fmt.Errorf("%s: question %q: unknown type %q", q.Type, question.ID, question.Type)
			}
			s.index[question.ID] = question
		}
	}

	for _, question := range s.index {
		cond := question.ShowIf
		if cond == nil {
			continue
		}
		if cond.Operator == "" {
			cond.Operator = model.OpEquals
		}
		switch cond.Operator {
		case model.OpEquals, model.OpNotEquals, model.OpIncludes, model.OpNotIncludes:
		default:
			return nil, fmt.Errorf("%s: question %q: unknown operator %q", q.Type, question.ID, cond.Operator)
		}
		if _, ok := s.index[cond.QuestionID]; !ok {
			return nil, fmt.Errorf("%s: question %q depends on unknown question %q", q.Type, question.ID, cond.QuestionID)
		}
		if len(cond.Values) == 0 {
			return nil, fmt.Errorf("%s: question %q: show_if without values", q.Type, question.ID)
		}
	}

	return s, nil
}

// Question returns the question with the given id.
func (s *Schema) Question(id string) (*model.Question, bool) {
	q, ok := s.index[id]
	return q, ok
}

// Registry holds one schema per patient category.
type Registry struct {
	schemas map[model.QuestionnaireType]*Schema
}

// LoadEmbedded parses the schemas compiled into the binary.
func LoadEmbedded() (*Registry, error) {
	sub, err := fs.Sub(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("open embedded schemas: %w", err)
	}
	return LoadFS(sub)
}

// LoadFS parses every *.yaml file at the root of fsys.
func LoadFS(fsys fs.FS) (*Registry, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}

	r := &Registry{schemas: make(map[model.QuestionnaireType]*Schema, len(names))}
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		s, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path.Base(name), err)
		}
		if _, dup := r.schemas[s.Type]; dup {
			return nil, fmt.Errorf("parse %s: duplicate questionnaire type %q", name, s.Type)
		}
		r.schemas[s.Type] = s
	}
	return r, nil
}

// Parse decodes and validates a single YAML schema document.
func Parse(raw []byte) (*Schema, error) {
	var q model.Questionnaire
	if err := yaml.Unmarshal(raw, &q); err != nil {
		return nil, err
	}
	if q.Type == "" {
		return nil, errors.New("missing type")
	}
	return NewSchema(&q)
}

// Get returns the schema for t.
func (r *Registry) Get(t model.QuestionnaireType) (*Schema, error) {
	s, ok := r.schemas[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return s, nil
}

// Types lists the registered categories in lexical order.
func (r *Registry) Types() []model.QuestionnaireType {
	out := make([]model.QuestionnaireType, 0, len(r.schemas))
	for t := range r.schemas {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
