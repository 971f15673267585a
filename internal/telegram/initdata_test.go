package telegram

import (
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"
)

const testBotToken = "123456:TEST-token"

func signedInitData(t *testing.T, authDate time.Time, user string) url.Values {
	t.Helper()
	v := url.Values{}
	v.Set("query_id", "AAHdF6IQAAAAAN0XohDhrOrc")
	v.Set("user", user)
	v.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	v.Set("hash", SignInitData(v, testBotToken))
	return v
}

func TestVerifyInitData(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := signedInitData(t, now.Add(-time.Hour), `{"id":42,"first_name":"Ana","username":"ana"}`)

	user, err := VerifyInitData(v.Encode(), testBotToken, now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.ID != 42 || user.FirstName != "Ana" || user.Username != "ana" {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.AuthDate != now.Add(-time.Hour).Unix() {
		t.Fatalf("auth_date not carried over: %d", user.AuthDate)
	}
}

func TestVerifyInitDataRejects(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	user := `{"id":42,"first_name":"Ana"}`

	tampered := signedInitData(t, now, user)
	tampered.Set("user", `{"id":43,"first_name":"Eve"}`)

	wrongKey := signedInitData(t, now, user)

	noUser := url.Values{}
	noUser.Set("auth_date", strconv.FormatInt(now.Unix(), 10))
	noUser.Set("hash", SignInitData(noUser, testBotToken))

	incomplete := signedInitData(t, now, `{"id":42}`)

	tests := []struct {
		name     string
		initData string
		token    string
		want     error
	}{
		{"empty", "", testBotToken, ErrInvalidInitData},
		{"tampered", tampered.Encode(), testBotToken, ErrInvalidInitData},
		{"wrong bot token", wrongKey.Encode(), "other:token", ErrInvalidInitData},
		{"missing hash", "auth_date=1&user=%7B%7D", testBotToken, ErrInvalidInitData},
		{"stale", signedInitData(t, now.Add(-25*time.Hour), user).Encode(), testBotToken, ErrInitDataExpired},
		{"missing user", noUser.Encode(), testBotToken, ErrInvalidInitData},
		{"incomplete user", incomplete.Encode(), testBotToken, ErrInvalidInitData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyInitData(tt.initData, tt.token, now); !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSignInitDataIgnoresOrderAndHash(t *testing.T) {
	a := url.Values{}
	a.Set("b", "2")
	a.Set("a", "1")

	b := url.Values{}
	b.Set("a", "1")
	b.Set("b", "2")
	b.Set("hash", "whatever")

	if SignInitData(a, testBotToken) != SignInitData(b, testBotToken) {
		t.Fatal("signature must not depend on key order or the hash field")
	}
}
