package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
	"github.com/stemsi/intake-backend/internal/middleware"
	"github.com/stemsi/intake-backend/internal/model"
	"github.com/stemsi/intake-backend/internal/response"
	"github.com/stemsi/intake-backend/internal/service"
	"github.com/stemsi/intake-backend/internal/validator"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// jsonBodyLimit caps JSON submissions, which carry no files.
const jsonBodyLimit = 1 << 20

// SubmissionHandler accepts finished questionnaires.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
	maxFiles          int
	maxFileBytes      int64
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService, maxFiles int, maxFileBytes int64) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		maxFiles:          maxFiles,
		maxFileBytes:      maxFileBytes,
	}
}

// Submit godoc
// POST /api/v1/questionnaires/submit
// Accepts multipart (message, user_id, username, type, file_* parts) or JSON
// and relays it to the operator chat. userId is accepted for user_id.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req model.SubmitRequest
	var files []model.Attachment

	if c.ContentType() == binding.MIMEJSON {
		if !bindJSON(c, &req) {
			return
		}
	} else {
		var ok bool
		if files, ok = h.bindForm(c, &req); !ok {
			return
		}
	}
	req.ResolveUserID()

	if req.Lang == "" {
		req.Lang = string(middleware.LangFromContext(c))
	}

	res, err := h.submissionService.Submit(c.Request.Context(), &req, files)
	if err != nil {
		var missing *service.MissingAnswersError
		switch {
		case errors.As(err, &missing):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrMissingAnswers, missing.Fields)
		case errors.Is(err, service.ErrEmptySubmission):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
				"message": "message or answers is required",
			})
		case errors.Is(err, service.ErrUnknownQuestionnaire):
			response.Fail(c, http.StatusBadRequest, response.ErrUnknownQuestionnaire)
		case errors.Is(err, service.ErrNotConfigured):
			zerolog.Ctx(c.Request.Context()).Error().Msg("Telegram credentials not configured")
			response.Fail(c, http.StatusInternalServerError, response.ErrNotConfigured)
		case errors.Is(err, service.ErrDeliveryFailed):
			response.Fail(c, http.StatusInternalServerError, response.ErrDeliveryFailed)
		default:
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to submit questionnaire")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}

// bindJSON decodes a JSON submission under jsonBodyLimit. It writes the
// error response itself and reports false on failure.
func bindJSON(c *gin.Context, req *model.SubmitRequest) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, jsonBodyLimit)
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrBodyTooLarge)
			return false
		}
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return false
	}
	return true
}

// bindForm parses a multipart or urlencoded submission. It writes the error
// response itself and reports false on failure.
func (h *SubmissionHandler) bindForm(c *gin.Context, req *model.SubmitRequest) ([]model.Attachment, bool) {
	if limit := h.bodyLimit(); limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return nil, false
		}
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return nil, false
	}

	if fields := validator.BindForm(c, req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return nil, false
	}

	// Structured answers travel as JSON-encoded form fields.
	if raw := c.PostForm("answers"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Answers); err != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, map[string]string{"answers": err.Error()})
			return nil, false
		}
	}
	if raw := c.PostForm("additional"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Additional); err != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, map[string]string{"additional": err.Error()})
			return nil, false
		}
	}

	files, err := readAttachments(c.Request.MultipartForm, h.maxFiles, h.maxFileBytes)
	switch {
	case errors.Is(err, errTooManyFiles):
		response.Fail(c, http.StatusBadRequest, response.ErrTooManyFiles)
		return nil, false
	case errors.Is(err, errFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return nil, false
	case err != nil:
		response.Fail(c, http.StatusBadRequest, response.ErrFileUnreadable)
		return nil, false
	}
	return files, true
}

// bodyLimit caps the whole request at every allowed file plus form overhead.
func (h *SubmissionHandler) bodyLimit() int64 {
	if h.maxFileBytes <= 0 || h.maxFiles <= 0 {
		return 0
	}
	return h.maxFileBytes*int64(h.maxFiles) + 1<<20
}
