package handlers

import (
	"log/slog"
	"net/http"

	"github.com/constante/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

// ExportHandler serves data exports backed by object storage.
type ExportHandler struct {
	exportService *services.ExportService
	logger        *slog.Logger
}

func NewExportHandler(exportService *services.ExportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{exportService: exportService, logger: logger}
}

// ExportRouter registers export routes. Every route requires authentication.
func ExportRouter(r chi.Router, exportService *services.ExportService, requireAuth func(http.Handler) http.Handler, logger *slog.Logger) {
	handler := NewExportHandler(exportService, logger)

	r.Use(requireAuth)
	r.Post("/", handler.CreateExport)
	r.Get("/{exportID}", handler.GetExport)
}

func (h *ExportHandler) CreateExport(w http.ResponseWriter, r *http.Request) {
	email, err := principalEmail(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	summary, err := h.exportService.Export(r.Context(), email)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (h *ExportHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	email, err := principalEmail(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	doc, err := h.exportService.Get(r.Context(), email, chi.URLParam(r, "exportID"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
