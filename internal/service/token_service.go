package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"Portal/internal/repo"
)

var (
	// ErrInvalidToken is returned for malformed, expired or wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenRevoked is returned for tokens invalidated by logout.
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims: содержимое bearer-токена dev-сервера.
type Claims struct {
	UserID int64  `json:"uid"`
	Login  string `json:"login"`
	jwt.RegisteredClaims
}

// TokenService выпускает, проверяет и отзывает HS256 JWT.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	repo   repo.TokenRepository
	now    func() time.Time
}

// NewTokenService создаёт сервис токенов.
func NewTokenService(secret string, ttl time.Duration, r repo.TokenRepository) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, repo: r, now: time.Now}
}

// Issue выпускает токен для пользователя.
func (s *TokenService) Issue(userID int64, login string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		Login:  login,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse проверяет подпись, срок и отзыв токена.
func (s *TokenService) Parse(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	revoked, err := s.repo.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke отзывает токен до истечения его срока.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	exp := s.now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return s.repo.Revoke(ctx, claims.ID, exp)
}

// PurgeExpired удаляет из списка отозванных токены с истёкшим сроком.
func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}
