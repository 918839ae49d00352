package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"go.uber.org/zap"

	clientmodel "Portal/internal/cli/model"
	"Portal/internal/config"
	"Portal/internal/middleware"
	"Portal/internal/model"
	"Portal/internal/service"
)

// dateLayout: формат дат профиля в ответах API.
const dateLayout = "2006-01-02 15:04:05"

type UserHandler struct {
	userService  *service.UserService
	tokenService *service.TokenService
	logger       *zap.SugaredLogger
	config       *config.Config
}

func NewUserHandler(
	us *service.UserService,
	ts *service.TokenService,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *UserHandler {
	return &UserHandler{userService: us, tokenService: ts, logger: logger, config: cfg}
}

// Login проверяет учётные данные и выдаёт bearer-токен с профилем.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req clientmodel.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
			return
		}
		h.logger.Errorw("authenticate failed", "login", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := h.tokenService.Issue(user.ID, user.Login)
	if err != nil {
		h.logger.Errorw("issue token failed", "login", user.Login, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.Infow("user logged in", "login", user.Login)
	writeJSON(w, http.StatusOK, clientmodel.LoginResult{
		Message:      "",
		UserInfo:     []clientmodel.UserProfile{toProfile(user)},
		Token:        token,
		ForwardedFor: r.Header.Get("X-Forwarded-For"),
		SourceIP:     remoteIP(r),
	})
}

// Logout отзывает текущий токен.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())
	if err := h.tokenService.Revoke(r.Context(), claims); err != nil {
		h.logger.Errorw("revoke token failed", "login", claims.Login, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.logger.Infow("user logged out", "login", claims.Login)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Home отдаёт профиль владельца токена.
func (h *UserHandler) Home(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())
	user, err := h.userService.GetByLogin(r.Context(), claims.Login)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, clientmodel.LoginResult{
		UserInfo: []clientmodel.UserProfile{toProfile(user)},
	})
}

// toProfile переводит серверную модель в профиль API. Пароль наружу не отдаётся.
func toProfile(u *model.User) clientmodel.UserProfile {
	return clientmodel.UserProfile{
		DateDat:   u.CreatedAt.Format(dateLayout),
		UpdateDat: u.UpdatedAt.Format(dateLayout),
		HKey:      u.HKey,
		Sex:       u.Sex,
		Name:      u.Name,
		RKey:      u.RKey,
		Login:     u.Login,
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
