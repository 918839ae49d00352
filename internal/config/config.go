package config

import (
	"flag"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL is used when API_BASE_URL / -base-url is empty or invalid.
const DefaultAPIBaseURL = "https://wfgwp01ygk.execute-api.cn-north-1.amazonaws.com.cn"

// Session backends.
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// Client-side settings
	APIBaseURL     string `env:"API_BASE_URL"`
	SessionBackend string `env:"SESSION_BACKEND"`
	StateDir       string `env:"CLIENT_STATE_DIR"`
	LogLevel       string `env:"LOG_LEVEL"`
	EncryptSession bool   `env:"SESSION_ENCRYPT"` // AES-GCM over the persisted session
	Version        bool   `env:"-"`               // show client version and exit (flag only)

	// Dev server settings
	ServerAddr   string        `env:"SERVER_ADDRESS"`
	DatabaseDSN  string        `env:"DATABASE_URI"`
	AuthSecret   string        `env:"AUTH_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL"`
	SeedLogin    string        `env:"SEED_LOGIN"`
	SeedPassword string        `env:"SEED_PASSWORD"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги переопределяют значения из env
	// Client flags
	flag.StringVar(&cfg.APIBaseURL, "base-url", cfg.APIBaseURL, "base URL of the API (http or https)")
	flag.StringVar(&cfg.SessionBackend, "session-backend", cfg.SessionBackend, "session storage: fs, sqlite or memory")
	flag.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for persisted client state")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flag.BoolVar(&cfg.EncryptSession, "encrypt-session", cfg.EncryptSession, "encrypt the persisted session with a local key")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")
	// Server flags
	flag.StringVar(&cfg.ServerAddr, "a", cfg.ServerAddr, "dev server listen address host:port")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if !validBaseURL(cfg.APIBaseURL) {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	switch cfg.SessionBackend {
	case BackendFS, BackendSQLite, BackendMemory:
	default:
		cfg.SessionBackend = BackendFS
	}
	if cfg.StateDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.StateDir = filepath.Join(dir, "Portal")
		} else {
			home, _ := os.UserHomeDir()
			cfg.StateDir = filepath.Join(home, ".portal")
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}

	if cfg.ServerAddr == "" {
		cfg.ServerAddr = "localhost:8081"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.SeedLogin == "" {
		cfg.SeedLogin = "demo"
	}
	if cfg.SeedPassword == "" {
		cfg.SeedPassword = "demo"
	}
}

// validBaseURL accepts absolute http(s) URLs with a host.
func validBaseURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
