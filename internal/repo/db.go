package repo

import (
	"strings"

	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"Portal/internal/model"
)

// MemoryDSN: in-memory SQLite, используется при пустом DATABASE_URI.
const MemoryDSN = "file::memory:?cache=shared"

// InitDB открывает БД и выполняет миграции. postgres:// DSN открывается через pgx,
// всё остальное считается путём (или DSN) SQLite на драйвере modernc.org/sqlite.
func InitDB(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var dial gorm.Dialector
	if isPostgres(dsn) {
		dial = gormpostgres.Open(dsn)
	} else {
		if dsn == "" {
			dsn = MemoryDSN
		}
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}

	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.RevokedToken{}); err != nil {
		return nil, err
	}
	return db, nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}
