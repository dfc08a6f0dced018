package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-bookshelf/internal/errors"
	"github.com/pribylovaa/go-bookshelf/internal/http/middleware"
	"github.com/pribylovaa/go-bookshelf/internal/models"
	"github.com/pribylovaa/go-bookshelf/internal/service"
)

// Входные/выходные модели auth-эндпойнтов.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	AccessExpiresAt int64  `json:"access_expires_at"` // Unix UTC
}

func tokenResponse(pair *models.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		AccessExpiresAt: pair.AccessExpiresAt.Unix(),
	}
}

// Login выдаёт пару токенов по username+паролю.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	pair, err := h.Service.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse(pair))
}

// RefreshToken выдаёт новый access-токен; refresh-токен возвращается без изменений.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var in RefreshTokenRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	pair, err := h.Service.RefreshToken(r.Context(), in.RefreshToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse(pair))
}

// Profile возвращает профиль личности, положенной bearer-гейтом в контекст.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		// Маршрут смонтирован мимо гейта — это ошибка конфигурации роутера.
		apierrors.WriteError(w, r, service.ErrMissingCredential)
		return
	}

	writeJSON(w, http.StatusOK, userResponse(user))
}
