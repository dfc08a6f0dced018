package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-bookshelf/internal/errors"
	"github.com/pribylovaa/go-bookshelf/internal/models"
	"github.com/pribylovaa/go-bookshelf/internal/service"
)

// Входные/выходные модели user-эндпойнтов.
// Хэш пароля наружу не отдаётся никогда.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Verified *bool   `json:"is_verified,omitempty"`
}

type UserResponse struct {
	UID       string `json:"uid"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Verified  bool   `json:"is_verified"`
	CreatedAt int64  `json:"created_at"` // Unix UTC
	UpdatedAt int64  `json:"updated_at"` // Unix UTC
}

func userResponse(user *models.User) UserResponse {
	return UserResponse{
		UID:       user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt.Unix(),
		UpdatedAt: user.UpdatedAt.Unix(),
	}
}

// CreateUser регистрирует нового пользователя.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in CreateUserRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	user, err := h.Service.CreateUser(r.Context(), service.CreateUserInput{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse(user))
}

// ListUsers возвращает страницу пользователей.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	users, err := h.Service.ListUsers(r.Context(), opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// GetUser возвращает пользователя по ID.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	user, err := h.Service.UserByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse(user))
}

// UpdateUser выполняет частичный апдейт пользователя.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in UpdateUserRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	user, err := h.Service.UpdateUser(r.Context(), id, service.UpdateUserInput{
		Username: in.Username,
		Email:    in.Email,
		Verified: in.Verified,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse(user))
}

// DeleteUser удаляет пользователя по ID.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Service.DeleteUser(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
