package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"Portal/internal/cli/repo"
)

// AppDirName: имя каталога клиента внутри пользовательского конфиг-каталога.
const AppDirName = "Portal"

// AuthFSStore: файловое хранилище состояния клиента: один файл на ключ.
// Если Dir пуст, используется <UserConfigDir>/Portal.
type AuthFSStore struct {
	Dir string
}

var _ repo.KeyValueStore = AuthFSStore{}

var keyRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func (s AuthFSStore) configDir() (string, error) {
	p := s.Dir
	if p == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(dir, AppDirName)
	}
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func (s AuthFSStore) keyPath(key string) (string, error) {
	if !keyRe.MatchString(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key: %q", key)
	}
	dir, err := s.configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, key), nil
}

// Get читает значение ключа из файла.
func (s AuthFSStore) Get(key string) ([]byte, error) {
	p, err := s.keyPath(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// Set сохраняет значение, перезаписывая прежнее. Запись идёт через временный
// файл, чтобы прерванная запись не оставила обрезанное значение.
func (s AuthFSStore) Set(key string, value []byte) error {
	p, err := s.keyPath(key)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Delete удаляет файл ключа; отсутствие файла ошибкой не считается.
func (s AuthFSStore) Delete(key string) error {
	p, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
