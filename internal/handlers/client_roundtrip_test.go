package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Portal/internal/cli/api"
	"Portal/internal/cli/auth"
	"Portal/internal/cli/notify"
	"Portal/internal/cli/repo/memory"
	clisvc "Portal/internal/cli/service"
)

// Клиентский конвейер целиком против dev-сервера: вход, профиль, выход, ошибки.
func TestClientAgainstDevServer(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.h.Router)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	log := zap.NewNop().Sugar()
	var errOut bytes.Buffer

	session := auth.NewSessionStore(memory.New(), log)
	client := api.New(srv.URL, session, notify.NewConsole(&errOut))
	svc := clisvc.NewAuthService(api.NewAuthAPI(client), session, log)

	// неверный пароль: сообщение сервера доходит до пользователя ровно один раз
	_, err := svc.Login(ctx, "demo", "wrong")
	var reqErr *api.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, 401, reqErr.StatusCode)
	assert.Equal(t, "error: bad credentials\n", errOut.String())
	assert.False(t, session.IsLoggedIn())

	errOut.Reset()
	profile, err := svc.Login(ctx, "demo", "demo")
	require.NoError(t, err)
	assert.Equal(t, "Demo User", profile.Name)
	assert.True(t, session.IsLoggedIn())

	// токен сессии подставляется в Authorization автоматически
	home, err := api.Do[struct {
		UserInfo []struct {
			Login string `json:"peLoginStr"`
		} `json:"userInfo"`
	}](ctx, client, api.Request{Path: "/"})
	require.NoError(t, err)
	require.Len(t, home.UserInfo, 1)
	assert.Equal(t, "demo", home.UserInfo[0].Login)

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, session.IsLoggedIn())
	assert.Empty(t, errOut.String())

	// без токена защищённый маршрут отвечает 401 с сообщением
	_, err = client.Send(ctx, api.Request{Path: "/"})
	require.Error(t, err)
	assert.Equal(t, "error: unauthorized\n", errOut.String())
}
