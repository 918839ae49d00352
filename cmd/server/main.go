package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"Portal/internal/config"
	"Portal/internal/handlers"
	"Portal/internal/middleware"
	"Portal/internal/repo"
	"Portal/internal/service"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userService := service.NewUserService(repo.NewUserRepository(gormDB))
	tokenService := service.NewTokenService(cfg.AuthSecret, cfg.TokenTTL, repo.NewTokenRepository(gormDB))

	if _, err := userService.EnsureUser(ctx, cfg.SeedLogin, cfg.SeedPassword, "Demo User"); err != nil {
		sugar.Fatalw("failed to seed user", "login", cfg.SeedLogin, "error", err)
	}
	if n, err := tokenService.PurgeExpired(ctx); err != nil {
		sugar.Warnw("failed to purge revoked tokens", "error", err)
	} else if n > 0 {
		sugar.Infow("purged revoked tokens", "count", n)
	}

	h := handlers.NewHandler(userService, tokenService, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow("Starting server",
		"addr", cfg.ServerAddr,
		"seedLogin", cfg.SeedLogin,
		"tokenTTL", cfg.TokenTTL,
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
}
