package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/receiptsplit/internal/extraction"
	"github.com/mmynk/receiptsplit/internal/models"
)

// DefaultMaxUploadBytes caps receipt uploads.
const DefaultMaxUploadBytes = 10 << 20

// OCRHandlers serves the plain HTTP endpoints used by browser uploads:
// the receipt scan and the model preference routes.
type OCRHandlers struct {
	extractor *extraction.Service
	prefs     PreferenceStore
	maxUpload int64
}

// NewOCRHandlers creates the handlers. maxUpload <= 0 uses
// DefaultMaxUploadBytes.
func NewOCRHandlers(extractor *extraction.Service, prefs PreferenceStore, maxUpload int64) *OCRHandlers {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &OCRHandlers{extractor: extractor, prefs: prefs, maxUpload: maxUpload}
}

// Routes registers the endpoints, relative to the /api prefix.
func (h *OCRHandlers) Routes(r chi.Router) {
	r.Post("/ocr", h.scan)
	r.Get("/ocr/health", h.health)
	r.Get("/models", h.listModels)
	r.Get("/models/current", h.currentModel)
	r.Post("/models/select", h.selectModel)
	r.Get("/models/quota", h.quota)
}

// ocrResponse is the sanitized extraction with the model that read it.
type ocrResponse struct {
	models.RawExtraction
	ModelUsed string `json:"_modelUsed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *OCRHandlers) scan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid upload: %w", err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("no image uploaded"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	doc := extraction.Document{
		Data:     data,
		MIMEType: header.Header.Get("Content-Type"),
		Filename: header.Filename,
	}
	result, err := h.extractor.Process(r.Context(), doc, r.FormValue("model"), h.extractor.AutoFallback())
	if err != nil {
		writeError(w, httpStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, ocrResponse{RawExtraction: result.Extraction, ModelUsed: result.ModelUsed})
}

func (h *OCRHandlers) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "OCR Service Running")
}

func (h *OCRHandlers) listModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"models": h.extractor.Catalog().Models()})
}

func (h *OCRHandlers) currentModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, withDefaultModel(h.extractor.Catalog(), h.prefs.Get()))
}

func (h *OCRHandlers) selectModel(w http.ResponseWriter, r *http.Request) {
	var req SelectModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.ModelID != nil && *req.ModelID != "" {
		if _, ok := h.extractor.Catalog().Lookup(*req.ModelID); !ok {
			writeError(w, http.StatusBadRequest, errors.New("invalid model id"))
			return
		}
	}

	prefs, err := h.prefs.Update(req.ModelID, req.AutoMode)
	if err != nil {
		slog.Error("failed to save preferences", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, withDefaultModel(h.extractor.Catalog(), prefs))
}

func (h *OCRHandlers) quota(w http.ResponseWriter, r *http.Request) {
	statuses := h.extractor.CheckAvailability(r.Context(), r.URL.Query()["model"])
	writeJSON(w, http.StatusOK, map[string]any{"models": statuses})
}

// httpStatus maps extraction failures onto HTTP status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, extraction.ErrUnknownModel):
		return http.StatusBadRequest
	case errors.Is(err, extraction.ErrRateLimited), errors.Is(err, extraction.ErrQuotaExhausted):
		return http.StatusTooManyRequests
	case errors.Is(err, extraction.ErrMissingAPIKey):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
