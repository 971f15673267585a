package questionnaire

import (
	"reflect"
	"testing"

	"github.com/stemsi/intake-backend/internal/model"
)

func TestValidateRequired(t *testing.T) {
	s := mustTestSchema(t)
	health := s.Sections[1].Questions

	t.Run("hidden required questions are skipped", func(t *testing.T) {
		errs := s.ValidateRequired(health, answers(map[string]model.Answer{
			"weight_satisfaction": model.Single("satisfied"),
			"digestion":           model.Multi("bloating"),
			"had_covid":           model.Single("no"),
		}), model.LangRU)
		if len(errs) != 0 {
			t.Fatalf("want no errors, got %v", errs)
		}
	})

	t.Run("visible required question must be answered", func(t *testing.T) {
		errs := s.ValidateRequired(health, answers(map[string]model.Answer{
			"weight_satisfaction": model.Single("satisfied"),
			"digestion":           model.Multi("bloating"),
			"had_covid":           model.Single("yes"),
		}), model.LangEN)
		if len(errs) != 1 || errs["covid_times"] != "This field is required" {
			t.Fatalf("want covid_times required, got %v", errs)
		}
	})

	t.Run("blank and empty selections count as missing", func(t *testing.T) {
		errs := s.ValidateRequired(health, answers(map[string]model.Answer{
			"weight_satisfaction": model.Single("  "),
			"digestion":           model.Multi(),
			"had_covid":           {},
		}), model.LangRU)
		for _, id := range []string{"weight_satisfaction", "digestion", "had_covid"} {
			if errs[id] != "Это поле обязательно" {
				t.Errorf("%s: want required error, got %q", id, errs[id])
			}
		}
	})
}

func TestValidateSection(t *testing.T) {
	s := mustTestSchema(t)

	tests := []struct {
		name string
		age  string
		want string
	}{
		{"in range", "30", ""},
		{"decimal comma", "30,5", ""},
		{"not a number", "thirty", "Enter a number"},
		{"below min", "0", "Value is out of range"},
		{"above max", "121", "Value is out of range"},
		{"nan", "NaN", "Enter a number"},
		{"infinity", "Inf", "Enter a number"},
		{"negative infinity", "-inf", "Enter a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, ok := s.ValidateSection(0, answers(map[string]model.Answer{
				"name": model.Single("Ana"),
				"age":  model.Single(tt.age),
			}), model.LangEN)
			if !ok {
				t.Fatal("section 0 should exist")
			}
			if errs["age"] != tt.want {
				t.Fatalf("want %q, got %q", tt.want, errs["age"])
			}
		})
	}

	if _, ok := s.ValidateSection(len(s.Sections), answers(nil), model.LangRU); ok {
		t.Fatal("out of range section index must be rejected")
	}
}

func TestValidateWholeQuestionnaire(t *testing.T) {
	s := mustTestSchema(t)

	errs := s.Validate(answers(nil), model.LangRU)
	want := []string{"name", "age", "weight_satisfaction", "digestion", "had_covid"}
	if len(errs) != len(want) {
		t.Fatalf("want errors for %v, got %v", want, errs)
	}
	for _, id := range want {
		if _, ok := errs[id]; !ok {
			t.Errorf("missing error for %s", id)
		}
	}
}

func TestToggleOption(t *testing.T) {
	tests := []struct {
		name    string
		current []string
		value   string
		checked bool
		want    []string
	}{
		{"checking another option drops no_issues", []string{"no_issues"}, "bloating", true, []string{"bloating"}},
		{"checking no_issues clears the rest", []string{"bloating", "other"}, "no_issues", true, []string{"no_issues"}},
		{"unchecking no_issues", []string{"no_issues"}, "no_issues", false, []string{}},
		{"append keeps order", []string{"bloating"}, "other", true, []string{"bloating", "other"}},
		{"unchecking removes", []string{"bloating", "other"}, "bloating", false, []string{"other"}},
		{"checking twice is idempotent", []string{"bloating"}, "bloating", true, []string{"bloating"}},
		{"unchecking another option keeps no_issues", []string{"no_issues"}, "bloating", false, []string{"no_issues"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToggleOption(tt.current, tt.value, tt.checked); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestShowsAdditional(t *testing.T) {
	s := mustTestSchema(t)

	tests := []struct {
		id   string
		a    model.Answer
		want bool
	}{
		{"weight_goal", model.Single("lose"), true},
		{"weight_goal", model.Single("gain"), true},
		{"digestion", model.Multi("bloating"), false},
		{"digestion", model.Multi("bloating", "other"), true},
		{"regular_medications", model.Single("yes"), true},
		{"regular_medications", model.Single("no"), false},
		{"had_covid", model.Single("yes"), false},
	}

	for _, tt := range tests {
		if got := ShowsAdditional(mustQuestion(t, s, tt.id), tt.a); got != tt.want {
			t.Errorf("%s=%v: want %v, got %v", tt.id, tt.a.Values(), tt.want, got)
		}
	}
}

func TestAdditionalFields(t *testing.T) {
	s := mustTestSchema(t)

	got := s.AdditionalFields(answers(map[string]model.Answer{
		// weight_goal is hidden, so its elaboration does not apply.
		"weight_satisfaction": model.Single("satisfied"),
		"weight_goal":         model.Single("lose"),
		"digestion":           model.Multi("other"),
		"regular_medications": model.Single("yes"),
	}))
	want := []string{"digestion", "regular_medications"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}
