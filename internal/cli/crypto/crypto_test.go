package crypto

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Portal/internal/cli/repo"
	"Portal/internal/cli/repo/memory"
)

func TestLoadOrCreateKey_CreateAndReuse(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	k1, err := LoadOrCreateKey(dir)
	require.NoError(t, err)
	assert.Len(t, k1, 32)

	// повторное получение: тот же ключ
	k2, err := LoadOrCreateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	st, err := os.Stat(filepath.Join(dir, KeyFileName))
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())
	}
}

func TestLoadOrCreateKey_Errors(t *testing.T) {
	_, err := LoadOrCreateKey("")
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyFileName), []byte("short"), 0o600))
	_, err = LoadOrCreateKey(dir)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestSealOpen(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)

	sealed, err := Seal([]byte("payload"), key)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "payload")

	plain, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(plain))

	// два шифрования одного текста различаются из-за nonce
	again, err := Seal([]byte("payload"), key)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again)

	_, err = Open(sealed, bytes.Repeat([]byte{8}, 32))
	assert.Error(t, err)
	_, err = Open([]byte{1, 2}, key)
	assert.ErrorIs(t, err, ErrShortCipher)
	_, err = Seal([]byte("x"), []byte("bad"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestSealedStore(t *testing.T) {
	inner := memory.New()
	key := bytes.Repeat([]byte{1}, 32)
	s, err := NewSealedStore(inner, key)
	require.NoError(t, err)

	_, err = s.Get("user-store")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, s.Set("user-store", []byte(`{"token":"t"}`)))
	raw, err := inner.Get("user-store")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "token")

	got, err := s.Get("user-store")
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"t"}`, string(got))

	// данные под другим ключом не читаются
	other, err := NewSealedStore(inner, bytes.Repeat([]byte{2}, 32))
	require.NoError(t, err)
	_, err = other.Get("user-store")
	assert.Error(t, err)

	require.NoError(t, s.Delete("user-store"))
	_, err = s.Get("user-store")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = NewSealedStore(inner, []byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}
