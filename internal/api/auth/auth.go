package auth

import (
	"errors"
	"net/http"

	dto "haunted_slot/internal/api/dto/auth"
	"haunted_slot/internal/converter"
	"haunted_slot/internal/model"
	"haunted_slot/internal/repository"
	"haunted_slot/internal/service"
	"haunted_slot/pkg/req"
	"haunted_slot/pkg/resp"

	"go.uber.org/zap"
)

const (
	sessionIDCookie    = "session_id"
	refreshTokenCookie = "refresh_token"
)

type HandlerDeps struct {
	Serv service.AuthService
	Log  *zap.Logger
	// MaxAge срок жизни cookies в секундах
	MaxAge       int
	SecureCookie bool
}

type Handler struct {
	serv   service.AuthService
	log    *zap.Logger
	maxAge int
	secure bool
}

func NewHandler(deps HandlerDeps) *Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{serv: deps.Serv, log: log, maxAge: deps.MaxAge, secure: deps.SecureCookie}
}

// Register создаёт пользователя, открывает сессию
// и возвращает access_token, session_id и refresh_token уходят через cookies
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	requestBody, err := req.Decode[dto.RegisterRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}

	data, err := h.serv.Register(
		r.Context(),
		converter.RegisterRequestToUserModel(&requestBody),
	)
	switch {
	case errors.Is(err, service.ErrInvalidUser):
		resp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, repository.ErrAlreadyExists):
		resp.WriteError(w, http.StatusConflict, "login already taken")
		return
	case err != nil:
		h.log.Error("register failed", zap.Error(err))
		resp.WriteError(w, http.StatusInternalServerError, "register failed")
		return
	}

	h.setSession(w, data)
	resp.WriteJSONResponse(w, http.StatusCreated, dto.TokenResponse{AccessToken: data.AccessToken})
}

// Login создаёт новую сессию
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	requestBody, err := req.Decode[dto.LoginRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}

	data, err := h.serv.Login(r.Context(), requestBody.Login, requestBody.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.log.Error("login failed", zap.Error(err))
		}
		resp.WriteError(w, http.StatusUnauthorized, "login failed")
		return
	}

	h.setSession(w, data)
	resp.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{AccessToken: data.AccessToken})
}

// Refresh выдает новый access_token по session_id и refresh_token
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	session, err := r.Cookie(sessionIDCookie)
	if err != nil {
		resp.WriteError(w, http.StatusUnauthorized, "no session_id cookie")
		return
	}
	refresh, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		resp.WriteError(w, http.StatusUnauthorized, "no refresh_token cookie")
		return
	}

	accessToken, err := h.serv.Refresh(r.Context(), &model.AuthData{
		SessionID:    session.Value,
		RefreshToken: refresh.Value,
	})
	if err != nil {
		if !errors.Is(err, service.ErrUnauthorized) {
			h.log.Error("refresh failed", zap.Error(err))
		}
		resp.WriteError(w, http.StatusUnauthorized, "refresh failed")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{AccessToken: accessToken})
}

// Logout закрывает сессию по session_id
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionIDCookie)
	if err != nil {
		resp.WriteError(w, http.StatusUnauthorized, "no session_id cookie")
		return
	}

	if err := h.serv.Logout(r.Context(), c.Value); err != nil {
		h.log.Error("logout failed", zap.Error(err))
		resp.WriteError(w, http.StatusInternalServerError, "logout failed")
		return
	}

	h.deleteCookie(w, sessionIDCookie, "/")
	h.deleteCookie(w, refreshTokenCookie, "/auth")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setSession(w http.ResponseWriter, data *model.AuthData) {
	h.setCookie(w, sessionIDCookie, data.SessionID, "/")
	// refresh_token нужен только ручкам /auth
	h.setCookie(w, refreshTokenCookie, data.RefreshToken, "/auth")
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   h.maxAge,
	})
}

func (h *Handler) deleteCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
