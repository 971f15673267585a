package questionnaire

import "github.com/stemsi/intake-backend/internal/model"

// IsVisible reports whether q is shown for the given answers.
//
// A question without a predicate is always visible. Otherwise its dependency
// must be visible itself and answered, and the predicate must hold. Cycles
// and unknown dependencies resolve to hidden.
func (s *Schema) IsVisible(q *model.Question, answers model.AnswerSet) bool {
	return s.visible(q, answers, nil)
}

func (s *Schema) visible(q *model.Question, answers model.AnswerSet, seen map[string]struct{}) bool {
	if q.ShowIf == nil {
		return true
	}
	if _, loop := seen[q.ID]; loop {
		return false
	}
	if seen == nil {
		seen = make(map[string]struct{})
	}
	seen[q.ID] = struct{}{}

	dep, ok := s.index[q.ShowIf.QuestionID]
	if !ok || !s.visible(dep, answers, seen) {
		return false
	}

	current, ok := answers.Get(dep.ID)
	if !ok {
		return false
	}
	return Evaluate(*q.ShowIf, current)
}

// Evaluate applies a predicate to the dependency's current answer.
//
// notIncludes matches notEquals (no target present), not the complement
// of includes.
func Evaluate(cond model.Condition, current model.Answer) bool {
	values := current.Values()
	switch cond.Operator {
	case model.OpEquals, "":
		return intersects(values, cond.Values)
	case model.OpNotEquals, model.OpNotIncludes:
		return !intersects(values, cond.Values)
	case model.OpIncludes:
		return containsAll(values, cond.Values)
	default:
		return true
	}
}

// VisibleQuestions returns the ids of every visible question in schema order.
func (s *Schema) VisibleQuestions(answers model.AnswerSet) []string {
	var ids []string
	for si := range s.Sections {
		for qi := range s.Sections[si].Questions {
			q := &s.Sections[si].Questions[qi]
			if s.IsVisible(q, answers) {
				ids = append(ids, q.ID)
			}
		}
	}
	return ids
}

func intersects(current, targets []string) bool {
	for _, t := range targets {
		for _, c := range current {
			if c == t {
				return true
			}
		}
	}
	return false
}

func containsAll(current, targets []string) bool {
	for _, t := range targets {
		found := false
		for _, c := range current {
			if c == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
