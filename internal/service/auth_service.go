package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/intake-backend/internal/config"
	"github.com/stemsi/intake-backend/internal/logger"
	"github.com/stemsi/intake-backend/internal/model"
	"github.com/stemsi/intake-backend/internal/telegram"
	"github.com/stemsi/intake-backend/internal/tokenstore"
)

// Common auth errors.
var (
	ErrSessionNotFound  = errors.New("login session not found or expired")
	ErrInvalidUser      = errors.New("invalid user data")
	ErrInitDataRequired = errors.New("signed init data required")
	ErrInitDataMismatch = errors.New("init data belongs to another user")
	ErrInvalidToken     = errors.New("auth token invalid, expired or already used")
)

// AuthService runs the cross-surface login: a browser opens a session, the
// Telegram Mini App confirms it with the user's identity, and the browser
// redeems the resulting one-time token.
type AuthService struct {
	cfg   *config.Config
	store tokenstore.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, store tokenstore.Store, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:   cfg,
		store: store,
		log:   logger.Component(log, "auth_service"),
		now:   time.Now,
	}
}

// CreateSession opens a pending login session. The login URL deep-links into
// the bot's Mini App when a bot name is configured.
func (s *AuthService) CreateSession(ctx context.Context) (*model.SessionResponse, error) {
	sess, err := s.store.CreateSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	resp := &model.SessionResponse{SessionID: sess.ID, ExpiresAt: sess.ExpiresAt}
	if s.cfg.BotName != "" {
		resp.LoginURL = fmt.Sprintf("https://t.me/%s/app?startapp=%s", s.cfg.BotName, url.QueryEscape(sess.ID))
	}
	return resp, nil
}

// Confirm binds a Telegram identity to a live session and returns the token
// the browser will redeem.
func (s *AuthService) Confirm(ctx context.Context, req *model.ConfirmRequest) (*model.ConfirmResponse, error) {
	if !req.User.Valid() {
		return nil, ErrInvalidUser
	}

	if _, err := s.store.GetSession(ctx, req.SessionID); err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	user, err := s.verifiedUser(req)
	if err != nil {
		return nil, err
	}

	var token string
	if s.cfg.StatelessTokens() {
		token, err = telegram.EncodeIdentity(user, s.now())
	} else {
		token, err = s.store.MintUserDataToken(ctx, user, req.SessionID)
		if errors.Is(err, tokenstore.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
	}
	if err != nil {
		return nil, fmt.Errorf("issue auth token: %w", err)
	}

	s.log.Info().
		Int64("user_id", user.ID).
		Bool("init_data", req.InitData != "").
		Msg("Login confirmed")

	return &model.ConfirmResponse{AuthToken: token, RedirectURL: s.redirectURL(token)}, nil
}

// verifiedUser checks the signed init data, when present or required, and
// returns the identity to bind. A verified payload wins over the posted user.
func (s *AuthService) verifiedUser(req *model.ConfirmRequest) (model.TelegramUser, error) {
	if req.InitData == "" {
		if s.cfg.RequireInitData {
			return model.TelegramUser{}, ErrInitDataRequired
		}
		return req.User, nil
	}

	if s.cfg.BotToken == "" {
		if s.cfg.RequireInitData {
			return model.TelegramUser{}, ErrNotConfigured
		}
		s.log.Warn().Msg("Bot token not configured, init data not verified")
		return req.User, nil
	}

	signed, err := telegram.VerifyInitData(req.InitData, s.cfg.BotToken, s.now())
	if err != nil {
		return model.TelegramUser{}, fmt.Errorf("verify init data: %w", err)
	}
	if signed.ID != req.User.ID {
		return model.TelegramUser{}, ErrInitDataMismatch
	}
	return *signed, nil
}

func (s *AuthService) redirectURL(token string) string {
	if s.cfg.SiteURL == "" {
		return ""
	}
	u, err := url.Parse(s.cfg.SiteURL)
	if err != nil {
		s.log.Warn().Err(err).Str("site_url", s.cfg.SiteURL).Msg("Invalid SITE_URL")
		return ""
	}
	q := u.Query()
	q.Set("auth_token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// Redeem exchanges a token for the identity bound to it. Store tokens work
// exactly once; stateless tokens are accepted while fresh.
func (s *AuthService) Redeem(ctx context.Context, token string) (*model.TelegramUser, error) {
	user, err := s.store.RedeemUserDataToken(ctx, token)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, tokenstore.ErrNotFound) {
		return nil, fmt.Errorf("redeem token: %w", err)
	}

	if s.cfg.StatelessTokens() {
		user, err := telegram.DecodeIdentity(token, s.now())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return user, nil
	}
	return nil, ErrInvalidToken
}
