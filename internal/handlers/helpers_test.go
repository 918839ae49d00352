package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Portal/internal/config"
	"Portal/internal/handlers"
	"Portal/internal/repo"
	"Portal/internal/service"
)

type testServer struct {
	h      *handlers.Handler
	users  *service.UserService
	tokens *service.TokenService
}

// newTestServer собирает dev-сервер на временной sqlite-базе с пользователем demo/demo.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := repo.InitDB(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)

	users := service.NewUserService(repo.NewUserRepository(db))
	tokens := service.NewTokenService("test-secret", time.Hour, repo.NewTokenRepository(db))
	_, err = users.EnsureUser(context.Background(), "demo", "demo", "Demo User")
	require.NoError(t, err)

	cfg := &config.Config{AuthSecret: "test-secret", TokenTTL: time.Hour}
	return &testServer{
		h:      handlers.NewHandler(users, tokens, zap.NewNop().Sugar(), cfg),
		users:  users,
		tokens: tokens,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.h.Router.ServeHTTP(rr, req)
	return rr
}
