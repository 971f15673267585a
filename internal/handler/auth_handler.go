package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/intake-backend/internal/model"
	"github.com/stemsi/intake-backend/internal/response"
	"github.com/stemsi/intake-backend/internal/service"
	"github.com/stemsi/intake-backend/internal/telegram"
	"github.com/stemsi/intake-backend/internal/validator"
)

// AuthHandler handles the Telegram login endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CreateSession godoc
// POST /api/v1/auth/session
// Opens a pending login session for the browser.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	sess, err := h.authService.CreateSession(c.Request.Context())
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to create login session")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, sess)
}

// Confirm godoc
// POST /api/v1/auth/confirm
// Binds the Telegram identity posted by the Mini App to a live session.
func (h *AuthHandler) Confirm(c *gin.Context) {
	var req model.ConfirmRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.authService.Confirm(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.Fail(c, http.StatusBadRequest, response.ErrSessionNotFound)
		case errors.Is(err, service.ErrInvalidUser):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidUser)
		case errors.Is(err, service.ErrInitDataRequired):
			response.Fail(c, http.StatusBadRequest, response.ErrInitDataRequired)
		case errors.Is(err, telegram.ErrInvalidInitData),
			errors.Is(err, telegram.ErrInitDataExpired),
			errors.Is(err, service.ErrInitDataMismatch):
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Int64("user_id", req.User.ID).Msg("Rejected init data")
			response.Fail(c, http.StatusBadRequest, response.ErrInitDataInvalid)
		case errors.Is(err, service.ErrNotConfigured):
			response.Fail(c, http.StatusInternalServerError, response.ErrNotConfigured)
		default:
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to confirm login")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}

// Redeem godoc
// GET /api/v1/auth/redeem?token=
// Exchanges a one-time token for the confirmed identity.
func (h *AuthHandler) Redeem(c *gin.Context) {
	var req model.RedeemRequest
	if fields := validator.BindQuery(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrTokenRequired, fields)
		return
	}

	user, err := h.authService.Redeem(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			response.Fail(c, http.StatusBadRequest, response.ErrTokenInvalid)
			return
		}
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to redeem token")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}
