package handlers

import (
	"log/slog"
	"net/http"

	"github.com/constante/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

const msgRegistered = "User has been registered correctly. Now, please sign in."

// UserHandler serves registration and the caller's profile.
type UserHandler struct {
	userService *services.UserService
	logger      *slog.Logger
}

func NewUserHandler(userService *services.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// UserRouter registers user routes. Only /me requires authentication.
func UserRouter(r chi.Router, userService *services.UserService, requireAuth func(http.Handler) http.Handler, logger *slog.Logger) {
	handler := NewUserHandler(userService, logger)

	r.Post("/register", handler.Register)
	r.With(requireAuth).Get("/me", handler.Me)
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	if _, err := h.userService.Register(r.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	}); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeText(w, http.StatusCreated, msgRegistered)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	email, err := principalEmail(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	user, err := h.userService.Me(r.Context(), email)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
