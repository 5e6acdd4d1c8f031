package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/libra-app/ingest"
	"github.com/libra-app/ingest/extractor"
)

type handler struct {
	svc *ingest.Service
	cfg ingest.Config
}

func newHandler(svc *ingest.Service, cfg ingest.Config) *handler {
	return &handler{svc: svc, cfg: cfg}
}

type extractResponse struct {
	Text      string            `json:"text"`
	PageCount int               `json:"page_count"`
	Metadata  map[string]string `json:"metadata"`
}

// POST /extract
// Multipart upload: "file" plus form fields "mime_type" and "filename".
func (h *handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	// ParseMultipartForm's argument is only an in-memory threshold;
	// MaxBytesReader is what actually caps the request body.
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "expected multipart form upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	mimeType := r.FormValue("mime_type")
	if mimeType == "" {
		writeError(w, http.StatusBadRequest, "mime_type is required")
		return
	}
	filename := r.FormValue("filename")
	if filename == "" {
		filename = "unknown"
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read upload")
		slog.Error("reading upload", "filename", filename, "error", err)
		return
	}

	res, err := h.svc.Extract(r.Context(), mimeType, data, filename)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		slog.Error("extract error", "filename", filename, "mime", mimeType, "error", err)
		return
	}

	writeResult(w, res)
}

// POST /extract-from-drive
// The server downloads the file itself so the caller never buffers bytes.
func (h *handler) handleExtractFromDrive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileID      string `json:"file_id"`
		AccessToken string `json:"access_token"`
		MimeType    string `json:"mime_type"`
		Filename    string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.FileID == "" || req.AccessToken == "" || req.MimeType == "" {
		writeError(w, http.StatusBadRequest, "file_id, access_token and mime_type are required")
		return
	}
	if req.Filename == "" {
		req.Filename = "unknown"
	}

	res, err := h.svc.ExtractFromDrive(r.Context(), req.FileID, req.AccessToken, req.MimeType, req.Filename)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		slog.Error("drive extract error", "file_id", req.FileID, "filename", req.Filename, "error", err)
		return
	}

	writeResult(w, res)
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"supported_types": h.svc.SupportedTypes(),
		"ocr_available":   h.svc.OCRAvailable(),
	})
}

// writeResult trims the text's outer whitespace before transmission and
// guarantees metadata serializes as an object, never null.
func writeResult(w http.ResponseWriter, res *extractor.Result) {
	meta := res.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	writeJSON(w, http.StatusOK, extractResponse{
		Text:      strings.TrimSpace(res.Text),
		PageCount: res.PageCount,
		Metadata:  meta,
	})
}

// statusFor maps the service's failure taxonomy to transport status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ingest.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, ingest.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ingest.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
