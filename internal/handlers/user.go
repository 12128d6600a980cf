package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gamestore-web/apiserver/internal/services"
	"github.com/gamestore-web/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const loginFailedMessage = "Error during login. Given email and/or password are wrong."

// UserHandler provides account endpoints.
type UserHandler struct {
	users  *services.UserService
	logger *slog.Logger
}

// NewUserHandler constructs a UserHandler with the provided dependencies.
func NewUserHandler(users *services.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// UserRouter registers account routes. authenticated guards routes that
// need any valid token, admin guards administrator routes.
func UserRouter(r chi.Router, users *services.UserService, logger *slog.Logger, authenticated, admin func(http.Handler) http.Handler) {
	handler := NewUserHandler(users, logger)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.With(authenticated).Get("/", handler.Current)
	r.Group(func(r chi.Router) {
		r.Use(authenticated, admin)
		r.Get("/all", handler.List)
		r.Get("/{userID}", handler.Get)
		r.Put("/{userID}", handler.Update)
		r.Delete("/{userID}", handler.Delete)
	})
}

// Register creates a new account. Every rule violation is a conflict.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Register(r.Context(), services.RegisterInput{
		Email:       strings.TrimSpace(req.Email),
		Username:    strings.TrimSpace(req.Username),
		Password:    req.Password,
		DateOfBirth: req.DateOfBirth.ptr(),
		Roles:       req.Roles,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and returns a signed token.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.users.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, loginFailedMessage)
			return
		}
		writeServiceError(w, h.logger, err, "")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{JWT: res.Token, User: res.User})
}

// Current returns the caller's account with roles and copies.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Update changes profile fields. A missing or null roles field keeps the
// current roles; an empty list removes them.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), id, services.UpdateInput{
		Email:       strings.TrimSpace(req.Email),
		Username:    strings.TrimSpace(req.Username),
		DateOfBirth: req.DateOfBirth.ptr(),
		Roles:       req.Roles,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type RegisterRequest struct {
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	DateOfBirth jsonDate `json:"dateOfBirth"`
	Roles       []string `json:"roles"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	JWT  string     `json:"jwt"`
	User types.User `json:"user"`
}

type UpdateUserRequest struct {
	Email       string         `json:"email"`
	Username    string         `json:"username"`
	DateOfBirth jsonDate       `json:"dateOfBirth"`
	Roles       types.NameList `json:"roles"`
}
