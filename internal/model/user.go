package model

import "time"

// User: серверная модель пользователя dev-сервера.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Login    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"` // bcrypt hash

	Name string
	Sex  string
	HKey string
	RKey string

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// RevokedToken: отозванный при logout JWT (по jti). Хранится до истечения срока токена.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
