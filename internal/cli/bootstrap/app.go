package bootstrap

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"Portal/internal/cli/api"
	"Portal/internal/cli/auth"
	"Portal/internal/cli/crypto"
	"Portal/internal/cli/notify"
	"Portal/internal/cli/repo"
	fsrepo "Portal/internal/cli/repo/fs"
	"Portal/internal/cli/repo/memory"
	reposqlite "Portal/internal/cli/repo/sqlite"
	"Portal/internal/cli/service"
	"Portal/internal/config"
)

// App: контекст сессии клиента: создаётся один раз при старте процесса
// и передаётся командам явно.
type App struct {
	Config  *config.Config
	Logger  *zap.SugaredLogger
	Session *auth.SessionStore
	Client  *api.Client
	Auth    service.AuthService

	closers []func() error
}

// New builds the logger, KV backend, session store, API client and auth service.
// Diagnostics and notifications go to errOut.
func New(cfg *config.Config, errOut io.Writer) (*App, error) {
	logger, err := NewLogger(cfg.LogLevel, errOut)
	if err != nil {
		return nil, err
	}
	kv, closeKV, err := OpenKV(cfg)
	if err != nil {
		return nil, err
	}

	session := auth.NewSessionStore(kv, logger.Named("session"))
	client := api.New(cfg.APIBaseURL, session, notify.NewConsole(errOut), api.WithLogger(logger.Named("api")))
	authSvc := service.NewAuthService(api.NewAuthAPI(client), session, logger.Named("auth"))

	logger.Debugw("client started",
		"base_url", cfg.APIBaseURL,
		"session_backend", cfg.SessionBackend,
		"logged_in", session.IsLoggedIn(),
	)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Session: session,
		Client:  client,
		Auth:    authSvc,
		closers: []func() error{closeKV, func() error { _ = logger.Sync(); return nil }},
	}, nil
}

// Close releases resources in reverse order. Повторный вызов безопасен.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewLogger builds a development-style zap logger writing to w at the given level.
func NewLogger(level string, w io.Writer) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		lvl,
	)
	return zap.New(core).Sugar(), nil
}

// OpenKV открывает хранилище состояния согласно cfg.SessionBackend
// и возвращает (store, cleanup, error). При cfg.EncryptSession значения
// шифруются ключом из cfg.StateDir.
func OpenKV(cfg *config.Config) (repo.KeyValueStore, func() error, error) {
	kv, closeKV, err := openBackend(cfg)
	if err != nil || !cfg.EncryptSession {
		return kv, closeKV, err
	}
	key, err := crypto.LoadOrCreateKey(cfg.StateDir)
	if err != nil {
		_ = closeKV()
		return nil, nil, fmt.Errorf("session key: %w", err)
	}
	sealed, err := crypto.NewSealedStore(kv, key)
	if err != nil {
		_ = closeKV()
		return nil, nil, err
	}
	return sealed, closeKV, nil
}

func openBackend(cfg *config.Config) (repo.KeyValueStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.SessionBackend {
	case config.BackendMemory:
		return memory.New(), noop, nil
	case config.BackendSQLite:
		r, _, err := reposqlite.Open(cfg.StateDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open client db: %w", err)
		}
		if err := r.Migrate(); err != nil {
			_ = r.Close()
			return nil, nil, fmt.Errorf("migrate client db: %w", err)
		}
		return r, r.Close, nil
	case config.BackendFS, "":
		return fsrepo.AuthFSStore{Dir: cfg.StateDir}, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend: %q", cfg.SessionBackend)
	}
}
