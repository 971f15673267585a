package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/intake-backend/internal/config"
	"github.com/stemsi/intake-backend/internal/model"
)

// RedisStore keeps sessions and user data in Redis with native key TTLs.
// Session consumption and token redemption use GETDEL so each key can be
// taken by exactly one caller across every process sharing the instance.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a Redis-backed Store.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) CreateSession(ctx context.Context) (*model.Session, error) {
	id, err := GenerateToken(SessionIDLength)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &model.Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
		Status:    model.SessionPending,
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	// Never overwrite a live session.
	ok, err := s.rdb.SetNX(ctx, config.CacheKey.LoginSessionKey(id), payload, SessionTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("store session: id collision")
	}
	return sess, nil
}

func (s *RedisStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.LoginSessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if !time.Now().Before(sess.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *RedisStore) MintUserDataToken(ctx context.Context, user model.TelegramUser, sessionID string) (string, error) {
	raw, err := s.rdb.GetDel(ctx, config.CacheKey.LoginSessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("consume session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return "", fmt.Errorf("unmarshal session: %w", err)
	}
	now := time.Now()
	if !now.Before(sess.ExpiresAt) {
		return "", ErrNotFound
	}

	token, err := GenerateToken(AuthTokenLength)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(model.UserData{
		User:      user,
		AuthToken: token,
		CreatedAt: now,
		ExpiresAt: now.Add(UserDataTTL),
	})
	if err != nil {
		return "", fmt.Errorf("marshal user data: %w", err)
	}

	if err := s.rdb.Set(ctx, config.CacheKey.UserDataKey(token), payload, UserDataTTL).Err(); err != nil {
		return "", fmt.Errorf("store user data: %w", err)
	}
	return token, nil
}

func (s *RedisStore) RedeemUserDataToken(ctx context.Context, token string) (*model.TelegramUser, error) {
	raw, err := s.rdb.GetDel(ctx, config.CacheKey.UserDataKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redeem token: %w", err)
	}

	var data model.UserData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal user data: %w", err)
	}
	if data.Used || !time.Now().Before(data.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &data.User, nil
}

// Ping checks the connection to Redis.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
