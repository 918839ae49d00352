package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"Portal/internal/cli/model"
)

// ErrEmptyToken is returned when the server accepted the login but sent no token.
var ErrEmptyToken = errors.New("server returned empty token")

// SessionError: локальную сессию не удалось сохранить или удалить.
// Состояние в памяти при этом уже изменено.
type SessionError struct {
	Op  string // "save" или "clear"
	Err error
}

func (e *SessionError) Error() string { return e.Op + " session: " + e.Err.Error() }

func (e *SessionError) Unwrap() error { return e.Err }

// AuthService описывает юзкейс-уровень аутентификации для CLI.
type AuthService interface {
	// Login аутентифицирует пользователя и сохраняет сессию.
	Login(ctx context.Context, username, password string) (*model.UserProfile, error)

	// Logout завершает сессию на сервере и очищает локальный контекст.
	Logout(ctx context.Context) error

	// CurrentUser возвращает профиль текущего пользователя, если сессия установлена.
	CurrentUser() (*model.UserProfile, bool)
}

// AuthAPI is the remote side used by the service.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*model.LoginResult, error)
	Logout(ctx context.Context) error
}

// Session is the session store the service drives.
type Session interface {
	IsLoggedIn() bool
	Profile() *model.UserProfile
	SetUser(token string, profile *model.UserProfile) error
	ClearUser() error
}

// RemoteAuthService implements AuthService on top of the HTTP auth API.
type RemoteAuthService struct {
	api     AuthAPI
	session Session
	logger  *zap.SugaredLogger
}

var _ AuthService = (*RemoteAuthService)(nil)

// NewAuthService wires the auth API to the session store.
func NewAuthService(api AuthAPI, session Session, logger *zap.SugaredLogger) *RemoteAuthService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &RemoteAuthService{api: api, session: session, logger: logger}
}

// Login calls the API and stores the token together with the first profile
// of the result. An empty profile list leaves the profile absent.
func (s *RemoteAuthService) Login(ctx context.Context, username, password string) (*model.UserProfile, error) {
	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, ErrEmptyToken
	}
	profile := ActiveProfile(res)
	if err := s.session.SetUser(res.Token, profile); err != nil {
		// сессия в памяти уже установлена, не сохранилась только копия на диске
		s.logger.Warnw("session not persisted", "error", err)
		return profile, &SessionError{Op: "save", Err: err}
	}
	s.logger.Infow("logged in", "login", username, "profiles", len(res.UserInfo))
	return profile, nil
}

// Logout calls the API and clears the local session whatever the server says.
// The remote error, if any, is returned.
func (s *RemoteAuthService) Logout(ctx context.Context) error {
	remoteErr := s.api.Logout(ctx)
	if remoteErr != nil {
		s.logger.Warnw("remote logout failed, clearing local session anyway", "error", remoteErr)
	}
	if err := s.session.ClearUser(); err != nil {
		return errors.Join(remoteErr, &SessionError{Op: "clear", Err: err})
	}
	return remoteErr
}

// CurrentUser returns the stored profile and whether a session exists.
func (s *RemoteAuthService) CurrentUser() (*model.UserProfile, bool) {
	if !s.session.IsLoggedIn() {
		return nil, false
	}
	return s.session.Profile(), true
}

// ActiveProfile выбирает профиль, который станет активным: первый из списка.
func ActiveProfile(res *model.LoginResult) *model.UserProfile {
	if res == nil || len(res.UserInfo) == 0 {
		return nil
	}
	p := res.UserInfo[0]
	return &p
}
