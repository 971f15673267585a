package telegram

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/intake-backend/internal/model"
)

// IdentityTokenMaxAge bounds how long a stateless identity token is honoured.
const IdentityTokenMaxAge = 24 * time.Hour

// ErrInvalidToken covers malformed, incomplete and expired identity tokens.
var ErrInvalidToken = errors.New("telegram: invalid identity token")

// EncodeIdentity serializes u as unpadded base64url JSON, stamped with now.
func EncodeIdentity(u model.TelegramUser, now time.Time) (string, error) {
	u.AuthDate = now.Unix()
	raw, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode identity: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeIdentity parses a token produced by EncodeIdentity. Padded input is
// tolerated.
func DecodeIdentity(token string, now time.Time) (*model.TelegramUser, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var u model.TelegramUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if u.AuthDate <= 0 || now.Sub(time.Unix(u.AuthDate, 0)) > IdentityTokenMaxAge {
		return nil, fmt.Errorf("%w: expired", ErrInvalidToken)
	}
	if !u.Valid() {
		return nil, fmt.Errorf("%w: incomplete user", ErrInvalidToken)
	}
	return &u, nil
}
