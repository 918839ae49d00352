package repo

import "errors"

// ErrNotFound возвращается, когда ключ отсутствует в хранилище.
var ErrNotFound = errors.New("key not found")

// KeyValueStore абстракция долговременного локального хранилища клиента.
// Set перезаписывает прежнее значение, Delete отсутствующего ключа не является ошибкой.
type KeyValueStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
