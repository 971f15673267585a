package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/intake-backend/internal/middleware"
	"github.com/stemsi/intake-backend/internal/model"
	"github.com/stemsi/intake-backend/internal/response"
	"github.com/stemsi/intake-backend/internal/service"
	"github.com/stemsi/intake-backend/internal/validator"
)

// QuestionnaireHandler serves schemas and evaluates answers for the wizard.
type QuestionnaireHandler struct {
	questionnaireService *service.QuestionnaireService
}

// NewQuestionnaireHandler creates a new QuestionnaireHandler.
func NewQuestionnaireHandler(questionnaireService *service.QuestionnaireService) *QuestionnaireHandler {
	return &QuestionnaireHandler{questionnaireService: questionnaireService}
}

// ListTypes godoc
// GET /api/v1/questionnaires
func (h *QuestionnaireHandler) ListTypes(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"types": h.questionnaireService.Types()})
}

// GetSchema godoc
// GET /api/v1/questionnaires/:type
// Returns the schema localized by the lang query or Accept-Language.
func (h *QuestionnaireHandler) GetSchema(c *gin.Context) {
	out, err := h.questionnaireService.Localized(model.QuestionnaireType(c.Param("type")), middleware.LangFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, out)
}

// Validate godoc
// POST /api/v1/questionnaires/:type/validate
// Checks one wizard step, or the whole questionnaire without "section".
func (h *QuestionnaireHandler) Validate(c *gin.Context) {
	var req model.ValidateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.questionnaireService.Validate(model.QuestionnaireType(c.Param("type")), &req, middleware.LangFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// Preview godoc
// POST /api/v1/questionnaires/:type/preview
// Renders the answers the way the operator will receive them.
func (h *QuestionnaireHandler) Preview(c *gin.Context) {
	var answers model.AnswerSet
	if fields := validator.Bind(c, &answers); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}

	text, err := h.questionnaireService.Preview(model.QuestionnaireType(c.Param("type")), answers, middleware.LangFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"text": text})
}

func (h *QuestionnaireHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownQuestionnaire):
		response.Fail(c, http.StatusBadRequest, response.ErrUnknownQuestionnaire)
	case errors.Is(err, service.ErrInvalidSection):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidSection)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
