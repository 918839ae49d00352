package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// resetFlagSet создаёт новый FlagSet перед каждым вызовом NewConfig,
// чтобы избежать повторной регистрации одних и тех же флагов между тестами.
func resetFlagSet(t *testing.T, args ...string) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(os.Stderr)
	oldArgs := os.Args
	os.Args = append([]string{oldArgs[0]}, args...)
	t.Cleanup(func() { os.Args = oldArgs })
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"API_BASE_URL", "SESSION_BACKEND", "CLIENT_STATE_DIR", "LOG_LEVEL", "SESSION_ENCRYPT",
		"SERVER_ADDRESS", "DATABASE_URI", "AUTH_SECRET", "TOKEN_TTL", "SEED_LOGIN", "SEED_PASSWORD",
	} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
}

func TestNewConfig_DefaultsWhenEnvEmpty(t *testing.T) {
	clearEnv(t)
	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Fatalf("APIBaseURL default expected %q, got %q", DefaultAPIBaseURL, cfg.APIBaseURL)
	}
	if cfg.SessionBackend != BackendFS {
		t.Fatalf("SessionBackend default expected fs, got %q", cfg.SessionBackend)
	}
	if filepath.Base(cfg.StateDir) != "Portal" {
		t.Fatalf("StateDir default must end with Portal, got %q", cfg.StateDir)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel default expected warn, got %q", cfg.LogLevel)
	}
	if cfg.ServerAddr != "localhost:8081" {
		t.Fatalf("ServerAddr default expected localhost:8081, got %q", cfg.ServerAddr)
	}
	if cfg.AuthSecret != "dev-secret-key" {
		t.Fatalf("AuthSecret default expected 'dev-secret-key', got %q", cfg.AuthSecret)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("TokenTTL default expected 24h, got %v", cfg.TokenTTL)
	}
	if cfg.SeedLogin != "demo" || cfg.SeedPassword != "demo" {
		t.Fatalf("seed defaults expected demo/demo, got %q/%q", cfg.SeedLogin, cfg.SeedPassword)
	}
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "http://localhost:9000/")
	t.Setenv("SESSION_BACKEND", "sqlite")
	t.Setenv("CLIENT_STATE_DIR", "/tmp/portal-state")
	t.Setenv("TOKEN_TTL", "90m")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.APIBaseURL != "http://localhost:9000" {
		t.Fatalf("APIBaseURL expected trimmed env value, got %q", cfg.APIBaseURL)
	}
	if cfg.SessionBackend != BackendSQLite {
		t.Fatalf("SessionBackend expected sqlite, got %q", cfg.SessionBackend)
	}
	if cfg.StateDir != "/tmp/portal-state" {
		t.Fatalf("StateDir expected from env, got %q", cfg.StateDir)
	}
	if cfg.TokenTTL != 90*time.Minute {
		t.Fatalf("TokenTTL expected 90m, got %v", cfg.TokenTTL)
	}
}

func TestNewConfig_FlagOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "http://from-env:1")
	resetFlagSet(t, "-base-url", "https://from-flag.example", "-session-backend", "memory", "home")
	cfg := NewConfig()

	if cfg.APIBaseURL != "https://from-flag.example" {
		t.Fatalf("flag must override env, got %q", cfg.APIBaseURL)
	}
	if cfg.SessionBackend != BackendMemory {
		t.Fatalf("SessionBackend expected memory, got %q", cfg.SessionBackend)
	}
	if args := flag.Args(); len(args) != 1 || args[0] != "home" {
		t.Fatalf("positional args expected [home], got %v", args)
	}
}

func TestNewConfig_InvalidValuesFallback(t *testing.T) {
	clearEnv(t)
	// без схемы и неизвестный backend: откат на значения по умолчанию
	t.Setenv("API_BASE_URL", "localhost:8081")
	t.Setenv("SESSION_BACKEND", "redis")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Fatalf("invalid API_BASE_URL must fallback, got %q", cfg.APIBaseURL)
	}
	if cfg.SessionBackend != BackendFS {
		t.Fatalf("unknown backend must fallback to fs, got %q", cfg.SessionBackend)
	}
}

func TestValidBaseURL(t *testing.T) {
	cases := map[string]bool{
		"https://api.example.com":      true,
		"http://127.0.0.1:8081/prefix": true,
		"ftp://example.com":            false,
		"example.com":                  false,
		"":                             false,
		"http://":                      false,
	}
	for in, want := range cases {
		if got := validBaseURL(in); got != want {
			t.Fatalf("validBaseURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewConfig_EncryptSession(t *testing.T) {
	clearEnv(t)
	resetFlagSet(t)
	if NewConfig().EncryptSession {
		t.Fatalf("EncryptSession must be off by default")
	}

	t.Setenv("SESSION_ENCRYPT", "true")
	resetFlagSet(t)
	if !NewConfig().EncryptSession {
		t.Fatalf("SESSION_ENCRYPT=true must enable encryption")
	}

	t.Setenv("SESSION_ENCRYPT", "")
	resetFlagSet(t, "-encrypt-session")
	if !NewConfig().EncryptSession {
		t.Fatalf("-encrypt-session flag must enable encryption")
	}
}
