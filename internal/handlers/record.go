package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/constante/apiserver/internal/services"
	"github.com/constante/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// RecordHandler provides HTTP handlers for completion records.
type RecordHandler struct {
	recordService *services.RecordService
	logger        *slog.Logger
}

func NewRecordHandler(recordService *services.RecordService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{recordService: recordService, logger: logger}
}

// RecordRouter registers record routes. Every route requires authentication.
func RecordRouter(r chi.Router, recordService *services.RecordService, requireAuth func(http.Handler) http.Handler, logger *slog.Logger) {
	handler := NewRecordHandler(recordService, logger)

	r.Use(requireAuth)
	r.Get("/", handler.ListRecordsByDate)
	r.Post("/{habitID}", handler.CreateRecord)
	r.Get("/{habitID}", handler.ListRecordsByHabit)
}

// PageMetadata describes one page of a paginated listing.
type PageMetadata struct {
	Number        int `json:"number"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

type RecordPageResponse struct {
	Items []types.Record `json:"items"`
	Page  PageMetadata   `json:"page"`
}

func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	email, err := principalEmail(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	habitID, err := parseID(r, "habitID")
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	record, err := h.recordService.Create(r.Context(), email, habitID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *RecordHandler) ListRecordsByHabit(w http.ResponseWriter, r *http.Request) {
	email, err := principalEmail(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	habitID, err := parseID(r, "habitID")
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	page, err := parseQueryInt(r, "page", 0)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	size, err := parseQueryInt(r, "size", services.DefaultPageSize)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	result, err := h.recordService.ListByHabit(r.Context(), email, habitID, page, size)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, RecordPageResponse{
		Items: result.Items,
		Page: PageMetadata{
			Number:        result.Number,
			Size:          result.Size,
			TotalElements: result.TotalElements,
			TotalPages:    result.TotalPages(),
		},
	})
}

func (h *RecordHandler) ListRecordsByDate(w http.ResponseWriter, r *http.Request) {
	email, err := principalEmail(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		writeServiceError(w, r, h.logger, services.Invalid("date", "is required"))
		return
	}
	date, err := civil.ParseDate(raw)
	if err != nil {
		writeServiceError(w, r, h.logger, services.Invalid("date", "must be formatted as YYYY-MM-DD"))
		return
	}

	records, err := h.recordService.ListByDate(r.Context(), email, date)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
