package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"Portal/internal/cli/repo"
)

// keyLen: длина ключа для AES-256 (в байтах).
const keyLen = 32

// KeyFileName: файл ключа шифрования сессии в каталоге состояния.
const KeyFileName = "session.key"

var (
	ErrInvalidKey  = errors.New("invalid key length")
	ErrShortCipher = errors.New("ciphertext too short")
)

// LoadOrCreateKey загружает ключ из dir или создаёт новый случайный.
func LoadOrCreateKey(dir string) ([]byte, error) {
	if dir == "" {
		return nil, errors.New("empty key directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, KeyFileName)
	if b, err := os.ReadFile(path); err == nil {
		if len(b) != keyLen {
			return nil, ErrInvalidKey
		}
		return b, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	key := make([]byte, keyLen)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	// записываем с ограниченными правами доступа
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != keyLen {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal шифрует plain с помощью AES-GCM. Результат: nonce || ciphertext.
func Seal(plain, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize(), gcm.NonceSize()+len(plain)+gcm.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

// Open расшифровывает результат Seal.
func Open(sealed, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, ErrShortCipher
	}
	nonce, ct := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ct, nil)
}

// SealedStore шифрует значения поверх любого repo.KeyValueStore.
type SealedStore struct {
	inner repo.KeyValueStore
	key   []byte
}

var _ repo.KeyValueStore = (*SealedStore)(nil)

// NewSealedStore оборачивает inner. key должен быть длиной 32 байта.
func NewSealedStore(inner repo.KeyValueStore, key []byte) (*SealedStore, error) {
	if len(key) != keyLen {
		return nil, ErrInvalidKey
	}
	return &SealedStore{inner: inner, key: append([]byte(nil), key...)}, nil
}

func (s *SealedStore) Get(key string) ([]byte, error) {
	b, err := s.inner.Get(key)
	if err != nil {
		return nil, err
	}
	plain, err := Open(b, s.key)
	if err != nil {
		return nil, fmt.Errorf("decrypt %q: %w", key, err)
	}
	return plain, nil
}

func (s *SealedStore) Set(key string, value []byte) error {
	b, err := Seal(value, s.key)
	if err != nil {
		return fmt.Errorf("encrypt %q: %w", key, err)
	}
	return s.inner.Set(key, b)
}

func (s *SealedStore) Delete(key string) error {
	return s.inner.Delete(key)
}
