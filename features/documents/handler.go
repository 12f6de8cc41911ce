package documents

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"ogelo/backend/internal/middleware"
)

var validExts = map[string]bool{
	".pdf": true, ".md": true, ".txt": true, ".csv": true, ".html": true, ".htm": true,
}

type Handler struct {
	service       *Service
	maxUploadSize int64
}

func NewHandler(service *Service, maxUploadMB int) *Handler {
	return &Handler{service: service, maxUploadSize: int64(maxUploadMB) << 20}
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.writeError(ctx, w, "BAD_REQUEST", "File too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(ctx, w, "BAD_REQUEST", "Unable to retrieve file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !validExts[filepath.Ext(header.Filename)] {
		h.writeError(ctx, w, "BAD_REQUEST", "Unsupported file type", http.StatusBadRequest)
		return
	}

	result, err := h.service.Upload(ctx, header.Filename, file)
	if err != nil {
		slog.ErrorContext(ctx, "upload failed", "filename", header.Filename, "error", err)
		h.writeError(ctx, w, "UNPROCESSABLE", err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": result}); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load stats", "error", err)
		h.writeError(ctx, w, "INTERNAL_ERROR", "failed to load stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": stats}); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to clear documents", "error", err)
		h.writeError(ctx, w, "INTERNAL_ERROR", "failed to clear documents", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			h.writeError(ctx, w, "VALIDATION_ERROR", "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	turns, err := h.service.Conversations(ctx, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load conversations", "error", err)
		h.writeError(ctx, w, "INTERNAL_ERROR", "failed to load conversations", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": turns}); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"correlationId": middleware.GetCorrelationID(ctx),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
