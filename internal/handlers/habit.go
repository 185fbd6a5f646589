package handlers

import (
	"log/slog"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/constante/apiserver/internal/services"
	"github.com/constante/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const (
	msgHabitUpdated = "Habit has been updated correctly."
	msgHabitDeleted = "Habit has been deleted correctly."
)

// HabitHandler provides HTTP handlers for the caller's habits.
type HabitHandler struct {
	habitService *services.HabitService
	logger       *slog.Logger
}

func NewHabitHandler(habitService *services.HabitService, logger *slog.Logger) *HabitHandler {
	return &HabitHandler{habitService: habitService, logger: logger}
}

// HabitRouter registers habit routes. Every route requires authentication.
func HabitRouter(r chi.Router, habitService *services.HabitService, requireAuth func(http.Handler) http.Handler, logger *slog.Logger) {
	handler := NewHabitHandler(habitService, logger)

	r.Use(requireAuth)
	r.Post("/", handler.CreateHabit)
	r.Get("/", handler.ListHabits)
	r.Route("/{habitID}", func(r chi.Router) {
		r.Get("/", handler.GetHabit)
		r.Put("/", handler.UpdateHabit)
		r.Delete("/", handler.DeleteHabit)
	})
}

// HabitRequest is the body of create and update. Omitted fields are left
// unchanged on update.
type HabitRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	MadeSince    *civil.Date      `json:"madeSince"`
	Frequency    *string          `json:"frequency"`
	ReminderTime *types.TimeOfDay `json:"reminderTime"`
}

func (req HabitRequest) input() services.HabitInput {
	return services.HabitInput{
		Name:         req.Name,
		Description:  req.Description,
		MadeSince:    req.MadeSince,
		Frequency:    req.Frequency,
		ReminderTime: req.ReminderTime,
	}
}

func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	email, err := principalEmail(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	var req HabitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	habit, err := h.habitService.Create(r.Context(), email, req.input())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	email, err := principalEmail(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	habits, err := h.habitService.List(r.Context(), email)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	email, id, ok := h.target(w, r)
	if !ok {
		return
	}

	habit, err := h.habitService.Get(r.Context(), email, id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	email, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req HabitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	if _, err := h.habitService.Update(r.Context(), email, id, req.input()); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeText(w, http.StatusOK, msgHabitUpdated)
}

func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	email, id, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.habitService.Delete(r.Context(), email, id); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeText(w, http.StatusOK, msgHabitDeleted)
}

// target resolves the caller and the habit id in the path, writing the
// error response itself when either is unusable.
func (h *HabitHandler) target(w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	email, err := principalEmail(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return "", 0, false
	}
	id, err := parseID(r, "habitID")
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return "", 0, false
	}
	return email, id, true
}
