// Package tokenstore hands out short-lived login sessions and one-time
// user data tokens.
package tokenstore

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/stemsi/intake-backend/internal/model"
)

// ErrNotFound covers missing, expired and already used entries alike.
var ErrNotFound = errors.New("tokenstore: not found")

const (
	// SessionTTL is how long a login session waits for confirmation.
	SessionTTL = 5 * time.Minute
	// UserDataTTL is how long a confirmed identity waits to be redeemed.
	UserDataTTL = 24 * time.Hour

	SessionIDLength = 24
	AuthTokenLength = 32
)

// Store is the token registry used by the auth flow.
type Store interface {
	CreateSession(ctx context.Context) (*model.Session, error)
	GetSession(ctx context.Context, id string) (*model.Session, error)
	// MintUserDataToken binds user to a new one-time token and consumes the session.
	MintUserDataToken(ctx context.Context, user model.TelegramUser, sessionID string) (string, error)
	// RedeemUserDataToken returns the bound identity at most once per token.
	RedeemUserDataToken(ctx context.Context, token string) (*model.TelegramUser, error)
}

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// maxUnbiased is the largest multiple of len(alphabet) that fits in a byte.
const maxUnbiased = 256 - 256%len(alphabet)

// GenerateToken returns n symbols drawn uniformly from [A-Za-z0-9].
func GenerateToken(n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n+n/4)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("tokenstore: read random: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxUnbiased {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
