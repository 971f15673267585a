package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stemsi/intake-backend/internal/questionnaire"
	"github.com/stemsi/intake-backend/internal/telegram"
)

const testSchema = `
type: man
title: { ru: "Мужская анкета", en: "Men's questionnaire", de: "Fragebogen für Männer" }
sections:
  - id: general
    title: { ru: "Общее", en: "General", de: "Allgemein" }
    questions:
      - id: name
        type: text
        label: { ru: "Имя", en: "Name", de: "Name" }
        required: true
      - id: smoking
        type: radio
        label: { ru: "Курите?", en: "Smoking?", de: "Rauchen?" }
        required: true
        options:
          - { value: "yes", label: { ru: "Да", en: "Yes", de: "Ja" } }
          - { value: "no", label: { ru: "Нет", en: "No", de: "Nein" } }
      - id: cigarettes
        type: number
        label: { ru: "Сигарет в день", en: "Cigarettes per day", de: "Zigaretten pro Tag" }
        required: true
        min: 1
        max: 100
        show_if: { question_id: smoking, values: ["yes"] }
  - id: notes
    title: { ru: "Заметки", en: "Notes", de: "Notizen" }
    questions:
      - id: comment
        type: textarea
        label: { ru: "Комментарий", en: "Comment", de: "Kommentar" }
`

func newTestQuestionnaires(t *testing.T) *QuestionnaireService {
	t.Helper()
	reg, err := questionnaire.LoadFS(fstest.MapFS{"man.yaml": {Data: []byte(testSchema)}})
	if err != nil {
		t.Fatalf("load test schema: %v", err)
	}
	return NewQuestionnaireService(reg)
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// fakeMessenger records every call. Documents named in failFiles fail.
type fakeMessenger struct {
	mu         sync.Mutex
	configured bool
	failText   bool
	failFiles  map[string]bool
	texts      []string
	docs       []telegram.Document
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{configured: true, failFiles: map[string]bool{}}
}

func (m *fakeMessenger) Configured() bool { return m.configured }

func (m *fakeMessenger) SendMessage(_ context.Context, text string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	if m.failText {
		return 0, errors.New("Bad Request: chat not found")
	}
	return 1001, nil
}

func (m *fakeMessenger) SendDocument(_ context.Context, doc telegram.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, doc)
	if m.failFiles[doc.FileName] {
		return 0, errors.New("upload failed")
	}
	return int64(2000 + len(m.docs)), nil
}
