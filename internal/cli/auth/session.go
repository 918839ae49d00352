package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"Portal/internal/cli/model"
	"Portal/internal/cli/repo"
)

// StoreKey: фиксированный ключ, под которым сессия сохраняется в KeyValueStore.
const StoreKey = "user-store"

// persisted: формат записи сессии в хранилище.
type persisted struct {
	Token    string             `json:"token"`
	UserInfo *model.UserProfile `json:"userInfo"`
}

// SessionStore holds the current token and user profile and persists them
// through a KeyValueStore. It is safe for concurrent use: writes are applied
// and persisted one at a time, reads never wait for the store.
type SessionStore struct {
	// writeMu упорядочивает мутации вместе с записью в kv, чтобы порядок
	// записей в хранилище совпадал с порядком изменений в памяти.
	writeMu sync.Mutex
	mu      sync.RWMutex
	token   string
	profile *model.UserProfile

	kv     repo.KeyValueStore
	logger *zap.SugaredLogger
}

// NewSessionStore creates the store and restores state persisted under StoreKey.
// Missing entry means empty session; an undecodable one is logged and ignored.
func NewSessionStore(kv repo.KeyValueStore, logger *zap.SugaredLogger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &SessionStore{kv: kv, logger: logger}
	s.restore()
	return s
}

func (s *SessionStore) restore() {
	b, err := s.kv.Get(StoreKey)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			s.logger.Warnw("failed to read persisted session", "error", err)
		}
		return
	}
	var p persisted
	if err := json.Unmarshal(b, &p); err != nil {
		s.logger.Warnw("persisted session is corrupted, starting empty", "error", err)
		return
	}
	s.token = p.Token
	s.profile = copyProfile(p.UserInfo)
	s.logger.Debugw("session restored", "logged_in", s.token != "")
}

// Token returns the current bearer token or "" when nobody is logged in.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Profile returns a copy of the current profile, nil if absent.
func (s *SessionStore) Profile() *model.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProfile(s.profile)
}

// IsLoggedIn reports whether a token is held.
func (s *SessionStore) IsLoggedIn() bool {
	return s.Token() != ""
}

// Username returns the display name of the current user.
func (s *SessionStore) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return ""
	}
	return s.profile.Name
}

// LoginName returns the login of the current user.
func (s *SessionStore) LoginName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return ""
	}
	return s.profile.Login
}

// SetUser replaces the session and persists it, overwriting any prior entry.
// The in-memory state is updated even if persisting fails; the error is returned.
func (s *SessionStore) SetUser(token string, profile *model.UserProfile) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.token = token
	s.profile = copyProfile(profile)
	b, err := json.Marshal(persisted{Token: s.token, UserInfo: s.profile})
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(StoreKey, b); err != nil {
		s.logger.Errorw("failed to persist session", "error", err)
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// ClearUser resets the session and removes the persisted entry.
func (s *SessionStore) ClearUser() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.token = ""
	s.profile = nil
	s.mu.Unlock()
	if err := s.kv.Delete(StoreKey); err != nil {
		s.logger.Errorw("failed to remove persisted session", "error", err)
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func copyProfile(p *model.UserProfile) *model.UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
