package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"Portal/internal/cli/repo"
)

// setTempCfg перенастраивает пользовательский конфиг-каталог в temp для изоляции тестов.
func setTempCfg(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

func TestAuthFSStore_SetGet_UsesUserConfigDir(t *testing.T) {
	dir := setTempCfg(t)
	st := AuthFSStore{}
	if err := st.Set("user-store", []byte(`{"token":"t1"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	// файл должен лежать в %CONFIG%/Portal/user-store
	if _, err := os.Stat(filepath.Join(dir, AppDirName, "user-store")); err != nil {
		t.Fatalf("value file not created: %v", err)
	}
	b, err := st.Get("user-store")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(b) != `{"token":"t1"}` {
		t.Fatalf("unexpected value: %q", b)
	}
}

func TestAuthFSStore_SetOverwrites(t *testing.T) {
	st := AuthFSStore{Dir: t.TempDir()}
	if err := st.Set("k", []byte("first-longer-value")); err != nil {
		t.Fatalf("set first: %v", err)
	}
	if err := st.Set("k", []byte("second")); err != nil {
		t.Fatalf("set second: %v", err)
	}
	b, err := st.Get("k")
	if err != nil || string(b) != "second" {
		t.Fatalf("want second, got %q err=%v", b, err)
	}
	// временный файл не должен оставаться после записи
	if _, err := os.Stat(filepath.Join(st.Dir, "k.tmp")); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind: %v", err)
	}
}

func TestAuthFSStore_Get_MissingIsNotFound(t *testing.T) {
	st := AuthFSStore{Dir: t.TempDir()}
	if _, err := st.Get("nope"); err != repo.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuthFSStore_Delete(t *testing.T) {
	st := AuthFSStore{Dir: t.TempDir()}
	_ = st.Set("k", []byte("v"))
	if err := st.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Get("k"); err != repo.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// повторное удаление: не ошибка
	if err := st.Delete("k"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestAuthFSStore_InvalidKey(t *testing.T) {
	st := AuthFSStore{Dir: t.TempDir()}
	for _, k := range []string{"", "..", "../escape", "a/b", "with space"} {
		if err := st.Set(k, []byte("x")); err == nil {
			t.Fatalf("expected error for key %q", k)
		}
	}
}
