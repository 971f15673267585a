package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/stemsi/intake-backend/internal/logger"
	"github.com/stemsi/intake-backend/internal/model"
	"github.com/stemsi/intake-backend/internal/questionnaire"
	"github.com/stemsi/intake-backend/internal/telegram"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotConfigured   = errors.New("delivery not configured")
	ErrDeliveryFailed  = errors.New("delivery failed")
	ErrEmptySubmission = errors.New("message or answers required")
	ErrMissingAnswers  = errors.New("required answers missing")
)

// MissingAnswersError lists the required questions left unanswered, keyed by
// question id.
type MissingAnswersError struct {
	Fields map[string]string
}

func (e *MissingAnswersError) Error() string {
	ids := make([]string, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("%s: %s", ErrMissingAnswers, strings.Join(ids, ", "))
}

func (e *MissingAnswersError) Is(target error) bool { return target == ErrMissingAnswers }

// Messenger delivers text and files to the operator chat.
type Messenger interface {
	Configured() bool
	SendMessage(ctx context.Context, text string) (int64, error)
	SendDocument(ctx context.Context, doc telegram.Document) (int64, error)
}

// SubmissionOptions tunes delivery.
type SubmissionOptions struct {
	// Workers bounds concurrent attachment uploads.
	Workers int
	// EscapeHTML escapes server-composed messages for parse_mode=HTML.
	EscapeHTML bool
}

// SubmissionService relays finished questionnaires to the operator chat.
type SubmissionService struct {
	messenger      Messenger
	questionnaires *QuestionnaireService
	opts           SubmissionOptions
	log            zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	messenger Messenger,
	questionnaires *QuestionnaireService,
	opts SubmissionOptions,
	log zerolog.Logger,
) *SubmissionService {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &SubmissionService{
		messenger:      messenger,
		questionnaires: questionnaires,
		opts:           opts,
		log:            logger.Component(log, "submission_service"),
	}
}

// Submit sends the questionnaire text, then every attachment. A failed text
// send fails the submission; failed attachments are only counted.
func (s *SubmissionService) Submit(ctx context.Context, req *model.SubmitRequest, files []model.Attachment) (*model.SubmitResult, error) {
	if !s.messenger.Configured() {
		return nil, ErrNotConfigured
	}

	text, err := s.message(req)
	if err != nil {
		return nil, err
	}

	log := s.log.With().
		Int64("user_id", req.UserID).
		Str("type", string(req.Type)).
		Logger()

	// Delivery runs to completion once started, even if the client goes away.
	ctx = context.WithoutCancel(ctx)

	messageID, err := s.messenger.SendMessage(ctx, text)
	if err != nil {
		log.Error().Err(err).Msg("Failed to deliver questionnaire")
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	success := s.sendAttachments(ctx, log, files, attachmentCaption(req))

	log.Info().
		Int64("message_id", messageID).
		Int("files_total", len(files)).
		Int("files_success", success).
		Msg("Questionnaire delivered")

	return &model.SubmitResult{
		MessageID:    messageID,
		FilesTotal:   len(files),
		FilesSuccess: success,
	}, nil
}

// message returns the browser-composed text, or composes one from structured
// answers after validating them.
func (s *SubmissionService) message(req *model.SubmitRequest) (string, error) {
	if strings.TrimSpace(req.Message) != "" {
		return req.Message, nil
	}
	if len(req.Answers) == 0 {
		return "", ErrEmptySubmission
	}

	schema, err := s.questionnaires.Schema(req.Type)
	if err != nil {
		return "", err
	}

	lang := model.ParseLang(req.Lang)
	answers := req.AnswerSet()
	if missing := schema.Validate(answers, lang); len(missing) > 0 {
		return "", &MissingAnswersError{Fields: missing}
	}

	user := model.TelegramUser{
		ID:        req.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
	}
	text := questionnaire.ComposeMessage(schema.Title.Get(model.DefaultLang), user, schema.FormatSubmission(answers, lang))
	if s.opts.EscapeHTML {
		text = html.EscapeString(text)
	}
	return text, nil
}

func (s *SubmissionService) sendAttachments(ctx context.Context, log zerolog.Logger, files []model.Attachment, caption string) int {
	if len(files) == 0 {
		return 0
	}

	var success atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.opts.Workers)

	for _, file := range files {
		g.Go(func() error {
			doc := telegram.Document{
				FileName:    file.FileName,
				ContentType: contentType(file),
				Data:        file.Data,
				Caption:     caption,
			}
			if _, err := s.messenger.SendDocument(ctx, doc); err != nil {
				log.Warn().Err(err).Str("file", file.FileName).Msg("Failed to deliver attachment")
				return nil
			}
			success.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return int(success.Load())
}

func contentType(f model.Attachment) string {
	if f.ContentType != "" && f.ContentType != "application/octet-stream" {
		return f.ContentType
	}
	return mimetype.Detect(f.Data).String()
}

func attachmentCaption(req *model.SubmitRequest) string {
	from := fmt.Sprintf("ID: %d", req.UserID)
	if req.Username != "" {
		from = "@" + req.Username
	}
	return fmt.Sprintf("📎 Файл от пользователя %s\n📋 Тип анкеты: %s", from, req.Type)
}
