package model

import "time"

// SessionStatus is the lifecycle state of a login session.
type SessionStatus string

const (
	SessionPending SessionStatus = "pending"
)

// Session links a login attempt started in the browser to its confirmation
// inside Telegram.
type Session struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
	Status    SessionStatus `json:"status"`
}

// UserData is a confirmed identity waiting to be picked up by the browser.
type UserData struct {
	User      TelegramUser `json:"user"`
	AuthToken string       `json:"auth_token"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
	Used      bool         `json:"used"`
}

// ConfirmRequest is the payload posted by the Telegram Mini App.
type ConfirmRequest struct {
	SessionID string       `json:"session_id" binding:"required,alphanum,max=64"`
	User      TelegramUser `json:"user"`
	// InitData is the raw, signed Telegram WebApp init string.
	InitData string `json:"init_data"`
}

// RedeemRequest carries the one-time token back from the redirect URL.
type RedeemRequest struct {
	Token string `form:"token" binding:"required,max=4096"`
}

// SessionResponse is returned when a login session is created.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
	LoginURL  string    `json:"login_url,omitempty"`
}

// ConfirmResponse is returned once an identity is bound to a token.
type ConfirmResponse struct {
	AuthToken   string `json:"auth_token"`
	RedirectURL string `json:"redirect_url,omitempty"`
}
