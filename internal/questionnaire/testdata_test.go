package questionnaire

import (
	"testing"

	"github.com/stemsi/intake-backend/internal/model"
)

const testSchemaYAML = `
type: woman
title: { ru: "Тестовая анкета", en: "Test questionnaire", de: "Testfragebogen" }
sections:
  - id: personal
    title: { ru: "Личные данные", en: "Personal", de: "Persönlich" }
    questions:
      - id: name
        type: text
        label: { ru: "Имя", en: "Name", de: "Vorname" }
        required: true
      - id: age
        type: number
        label: { ru: "Возраст", en: "Age", de: "Alter" }
        required: true
        min: 1
        max: 120
  - id: health
    title: { ru: "Здоровье", en: "Health", de: "Gesundheit" }
    questions:
      - id: weight_satisfaction
        type: radio
        label: { ru: "Довольны ли весом?", en: "Satisfied with weight?", de: "Zufrieden mit Gewicht?" }
        required: true
        options:
          - { value: "satisfied", label: { ru: "Да", en: "Yes", de: "Ja" } }
          - { value: "not_satisfied", label: { ru: "Нет", en: "No", de: "Nein" } }
      - id: weight_goal
        type: radio
        label: { ru: "Что хотите сделать?", en: "Goal?", de: "Ziel?" }
        has_additional: true
        show_if: { question_id: weight_satisfaction, values: ["not_satisfied"] }
        options:
          - { value: "lose", label: { ru: "Сбросить", en: "Lose", de: "Abnehmen" } }
          - { value: "gain", label: { ru: "Набрать", en: "Gain", de: "Zunehmen" } }
      - id: digestion
        type: checkbox
        label: { ru: "Пищеварение", en: "Digestion", de: "Verdauung" }
        required: true
        has_additional: true
        options:
          - { value: "no_issues", label: { ru: "Нет проблем", en: "No issues", de: "Keine Beschwerden" } }
          - { value: "bloating", label: { ru: "Вздутие", en: "Bloating", de: "Blähungen" } }
          - { value: "other", label: { ru: "Другое", en: "Other", de: "Andere" } }
      - id: had_covid
        type: radio
        label: { ru: "Был ковид?", en: "Had COVID?", de: "COVID gehabt?" }
        required: true
        options:
          - { value: "yes", label: { ru: "Да", en: "Yes", de: "Ja" } }
          - { value: "no", label: { ru: "Нет", en: "No", de: "Nein" } }
      - id: covid_times
        type: number
        label: { ru: "Сколько раз?", en: "How many times?", de: "Wie oft?" }
        required: true
        min: 1
        max: 10
        show_if: { question_id: had_covid, operator: equals, values: ["yes"] }
      - id: covid_details
        type: textarea
        label: { ru: "Подробности", en: "Details", de: "Details" }
        required: true
        show_if: { question_id: covid_times, operator: notEquals, values: ["1"] }
      - id: regular_medications
        type: radio
        label: { ru: "Лекарства", en: "Medications", de: "Medikamente" }
        has_additional: true
        options:
          - { value: "yes", label: { ru: "Да", en: "Yes", de: "Ja" } }
          - { value: "no", label: { ru: "Нет", en: "No", de: "Nein" } }
  - id: extra
    title: { ru: "Дополнительно", en: "Extra", de: "Zusätzlich" }
    questions:
      - id: main_concern
        type: textarea
        label: { ru: "Главный вопрос", en: "Main concern", de: "Hauptanliegen" }
`

func mustTestSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := Parse([]byte(testSchemaYAML))
	if err != nil {
		t.Fatalf("parse test schema: %v", err)
	}
	return s
}

func mustQuestion(t *testing.T, s *Schema, id string) *model.Question {
	t.Helper()
	q, ok := s.Question(id)
	if !ok {
		t.Fatalf("question %q not in schema", id)
	}
	return q
}

func answers(kv map[string]model.Answer) model.AnswerSet {
	return model.AnswerSet{Answers: kv, Additional: map[string]string{}}
}
