package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/stemsi/intake-backend/internal/model"
)

// MemoryStore keeps sessions and user data in process memory.
// Expired entries are swept lazily on every mutating call.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	userData map[string]*model.UserData
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.Session),
		userData: make(map[string]*model.UserData),
		now:      time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

func (s *MemoryStore) CreateSession(_ context.Context) (*model.Session, error) {
	id, err := GenerateToken(SessionIDLength)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &model.Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
		Status:    model.SessionPending,
	}
	s.sessions[id] = sess
	s.sweepLocked(now)

	out := *sess
	return &out, nil
}

func (s *MemoryStore) GetSession(_ context.Context, id string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.liveSessionLocked(id, s.now())
	if !ok {
		return nil, ErrNotFound
	}
	out := *sess
	return &out, nil
}

func (s *MemoryStore) MintUserDataToken(_ context.Context, user model.TelegramUser, sessionID string) (string, error) {
	token, err := GenerateToken(AuthTokenLength)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, ok := s.liveSessionLocked(sessionID, now); !ok {
		return "", ErrNotFound
	}
	delete(s.sessions, sessionID)

	s.userData[token] = &model.UserData{
		User:      user,
		AuthToken: token,
		CreatedAt: now,
		ExpiresAt: now.Add(UserDataTTL),
	}
	s.sweepLocked(now)

	return token, nil
}

func (s *MemoryStore) RedeemUserDataToken(_ context.Context, token string) (*model.TelegramUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	defer s.sweepLocked(now)

	data, ok := s.userData[token]
	if !ok {
		return nil, ErrNotFound
	}
	if data.Used || !now.Before(data.ExpiresAt) {
		delete(s.userData, token)
		return nil, ErrNotFound
	}

	data.Used = true
	user := data.User
	return &user, nil
}

// liveSessionLocked returns the session if present and unexpired, evicting it otherwise.
func (s *MemoryStore) liveSessionLocked(id string, now time.Time) (*model.Session, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if !now.Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		return nil, false
	}
	return sess, true
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
	for token, data := range s.userData {
		if data.Used || !now.Before(data.ExpiresAt) {
			delete(s.userData, token)
		}
	}
}

// Len reports the number of physically stored sessions and user data records.
func (s *MemoryStore) Len() (sessions, userData int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions), len(s.userData)
}
