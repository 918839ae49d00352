package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Portal/internal/model"
)

// TokenRepository хранит отозванные токены.
type TokenRepository interface {
	// Revoke помечает jti отозванным. Повторный вызов ничего не делает.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error

	// IsRevoked сообщает, отозван ли jti.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// DeleteExpired удаляет записи, чей срок истёк раньше now, и возвращает их число.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type tokenRepo struct {
	db *gorm.DB
}

// NewTokenRepository создаёт реализацию репозитория отозванных токенов.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepo{db: db}
}

func (r *tokenRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	rt := &model.RevokedToken{JTI: jti, ExpiresAt: expiresAt.UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "jti"}},
		DoNothing: true,
	}).Create(rt).Error
}

func (r *tokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.RevokedToken{}).Where("jti = ?", jti).Count(&n).Error
	return n > 0, err
}

func (r *tokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Where("expires_at < ?", now.UTC()).Delete(&model.RevokedToken{})
	return tx.RowsAffected, tx.Error
}
