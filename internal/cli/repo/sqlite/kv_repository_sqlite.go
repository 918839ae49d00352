package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"Portal/internal/cli/repo"

	_ "modernc.org/sqlite"
)

// DBFileName: имя файла локальной БД клиента.
const DBFileName = "client.sqlite"

// KVRepositorySQLite: key/value хранилище состояния клиента в локальной БД SQLite.
type KVRepositorySQLite struct {
	db *sql.DB
}

var _ repo.KeyValueStore = (*KVRepositorySQLite)(nil)

// Open открывает (и создаёт при необходимости) файл БД в каталоге dir
// и возвращает репозиторий. Вторым значением возвращается путь к БД.
func Open(dir string) (*KVRepositorySQLite, string, error) {
	if dir == "" {
		return nil, "", errors.New("empty directory for client db")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	dbPath := filepath.Join(dir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	return &KVRepositorySQLite{db: db}, dbPath, nil
}

// Close закрывает соединение с БД.
func (r *KVRepositorySQLite) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Migrate гарантирует наличие необходимых таблиц.
func (r *KVRepositorySQLite) Migrate() error {
	scripts, err := migrationScripts()
	if err != nil {
		return err
	}
	for i, ddl := range scripts {
		if _, err := r.db.Exec(ddl); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Get возвращает значение ключа или repo.ErrNotFound.
func (r *KVRepositorySQLite) Get(key string) ([]byte, error) {
	var v []byte
	err := r.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// Set вставляет или перезаписывает значение ключа.
func (r *KVRepositorySQLite) Set(key string, value []byte) error {
	if key == "" {
		return errors.New("key is required")
	}
	if value == nil {
		value = []byte{}
	}
	_, err := r.db.Exec(`INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix(),
	)
	return err
}

// Delete удаляет ключ; отсутствие ключа ошибкой не считается.
func (r *KVRepositorySQLite) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}
