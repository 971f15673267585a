package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/stemsi/intake-backend/internal/model"
)

// InitDataMaxAge is how old a signed login payload may be.
const InitDataMaxAge = 24 * time.Hour

var (
	ErrInvalidInitData = errors.New("telegram: invalid init data")
	ErrInitDataExpired = errors.New("telegram: init data expired")
)

// SignInitData returns the hex HMAC-SHA256 hash Telegram attaches to a
// Mini App initData payload. The "hash" key itself is never signed.
// Used to mint signed payloads in tests.
func SignInitData(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + values.Get(k)
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyInitData checks the signature and freshness of a raw initData query
// string and returns the user it carries, with AuthDate set.
func VerifyInitData(initData, botToken string, now time.Time) (*model.TelegramUser, error) {
	if initData == "" || botToken == "" {
		return nil, ErrInvalidInitData
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInitData, err)
	}

	if values.Get("hash") == "" {
		return nil, fmt.Errorf("%w: missing hash", ErrInvalidInitData)
	}
	// The validator deletes the hash key from the values it is given.
	if _, ok := bot.ValidateWebappRequest(maps.Clone(values), botToken); !ok {
		return nil, fmt.Errorf("%w: hash mismatch", ErrInvalidInitData)
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil || authDate <= 0 {
		return nil, fmt.Errorf("%w: missing auth_date", ErrInvalidInitData)
	}
	if now.Sub(time.Unix(authDate, 0)) > InitDataMaxAge {
		return nil, ErrInitDataExpired
	}

	raw := values.Get("user")
	if raw == "" {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidInitData)
	}
	var user model.TelegramUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("%w: user: %v", ErrInvalidInitData, err)
	}
	if !user.Valid() {
		return nil, fmt.Errorf("%w: incomplete user", ErrInvalidInitData)
	}
	user.AuthDate = authDate
	return &user, nil
}
