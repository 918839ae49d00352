package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"Portal/internal/service"
)

type ctxKey int

const claimsKey ctxKey = iota

// TokenParser проверяет bearer-токен.
type TokenParser interface {
	Parse(ctx context.Context, token string) (*service.Claims, error)
}

// WithAuth читает Authorization: Bearer <token> и, если токен валиден,
// кладёт claims в контекст. Без токена запрос проходит анонимно.
func WithAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if ok {
				claims, err := tokens.Parse(r.Context(), raw)
				if err == nil {
					r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
				} else {
					sugar.Debugw("bearer token rejected", "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth отвечает 401, если в контексте нет claims.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetClaimsFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaimsFromContext возвращает claims текущего пользователя.
func GetClaimsFromContext(ctx context.Context) (*service.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*service.Claims)
	return c, ok && c != nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
