package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Answer is either a single value (text, number, radio) or a set of values
// (checkbox). The zero value is an absent answer.
type Answer struct {
	values []string
	multi  bool
}

// Single builds a single-value answer.
func Single(v string) Answer {
	return Answer{values: []string{v}}
}

// Multi builds a multi-choice answer. Duplicates are dropped, order kept.
func Multi(vs ...string) Answer {
	out := make([]string, 0, len(vs))
	seen := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return Answer{values: out, multi: true}
}

// IsZero reports whether no answer was given at all.
func (a Answer) IsZero() bool { return !a.multi && a.values == nil }

// IsMulti reports whether the answer came from a multi-choice question.
func (a Answer) IsMulti() bool { return a.multi }

// Values returns the answer coerced to a list.
func (a Answer) Values() []string {
	out := make([]string, len(a.values))
	copy(out, a.values)
	return out
}

// String returns the single value, or the values joined with ", ".
func (a Answer) String() string {
	return strings.Join(a.values, ", ")
}

// IsEmpty reports an absent answer, a blank string or an empty selection.
func (a Answer) IsEmpty() bool {
	if a.multi {
		return len(a.values) == 0
	}
	return len(a.values) == 0 || strings.TrimSpace(a.values[0]) == ""
}

// Contains reports whether v is one of the answer's values.
func (a Answer) Contains(v string) bool {
	for _, x := range a.values {
		if x == v {
			return true
		}
	}
	return false
}

// MarshalJSON encodes a single answer as a string and a multi answer as an array.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.multi {
		if a.values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.values)
	}
	if len(a.values) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(a.values[0])
}

// UnmarshalJSON accepts a string, a number or an array of strings.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = Answer{}
		return nil
	case len(data) > 0 && data[0] == '[':
		var vs []string
		if err := json.Unmarshal(data, &vs); err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		*a = Multi(vs...)
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		*a = Single(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer: expected string, number or array: %w", err)
		}
		*a = Single(n.String())
		return nil
	}
}

// AnswerSet is the client-held collection of answers to one questionnaire.
type AnswerSet struct {
	Answers map[string]Answer `json:"answers"`
	// Additional holds free-text elaborations keyed by question id.
	Additional map[string]string `json:"additional,omitempty"`
}

// additionalSuffix is how the browser form keys elaboration fields.
const additionalSuffix = "_additional"

// Get returns the answer for id and whether one was given. A JSON null
// counts as not given.
func (s AnswerSet) Get(id string) (Answer, bool) {
	a, ok := s.Answers[id]
	if !ok || a.IsZero() {
		return Answer{}, false
	}
	return a, true
}

// AdditionalFor returns the trimmed elaboration text for a question id,
// accepting both the bare id and the "<id>_additional" form.
func (s AnswerSet) AdditionalFor(id string) string {
	if v, ok := s.Additional[id]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(s.Additional[id+additionalSuffix])
}
