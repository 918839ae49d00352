package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"Portal/internal/model"
	"Portal/internal/repo"
)

// ErrInvalidCredentials is returned for an unknown login or a wrong password.
var ErrInvalidCredentials = errors.New("bad credentials")

// UserService: бизнес-логика пользователей dev-сервера.
type UserService struct {
	repo repo.UserRepository
}

// NewUserService создаёт сервис пользователей.
func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

// Authenticate проверяет логин и пароль.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*model.User, error) {
	u, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetByLogin returns the user with the given login.
func (s *UserService) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	return s.repo.GetUserByLogin(ctx, login)
}

// EnsureUser создаёт пользователя, если его ещё нет. Используется для seed-пользователя.
func (s *UserService) EnsureUser(ctx context.Context, login, password, name string) (*model.User, error) {
	if login == "" || password == "" {
		return nil, errors.New("login and password are required")
	}
	u, err := s.repo.GetUserByLogin(ctx, login)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, &model.User{
		Login:    login,
		Password: string(hash),
		Name:     name,
	})
}
