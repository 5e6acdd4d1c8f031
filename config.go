package ingest

import "time"

// Config holds all configuration for the ingestion service.
type Config struct {
	// Addr is the HTTP listen address used by cmd/server.
	Addr string `json:"addr"`

	// TesseractPath is the OCR binary probed once at startup. The default
	// resolves "tesseract" from PATH.
	TesseractPath string `json:"tesseract_path"`

	// DisableOCR skips the startup probe and forces the image strategy
	// into its informational fallback.
	DisableOCR bool `json:"disable_ocr"`

	// MaxUploadBytes bounds multipart uploads accepted by cmd/server.
	MaxUploadBytes int64 `json:"max_upload_bytes"`

	// FetchTimeout bounds the remote download of file bytes. It does not
	// apply to extraction itself.
	FetchTimeout time.Duration `json:"fetch_timeout"`

	// APIKey enables bearer auth on the HTTP surface when non-empty.
	APIKey string `json:"api_key"`

	// CORSOrigins is a comma-separated allow list for CORS.
	CORSOrigins string `json:"cors_origins"`
}

// DefaultConfig returns a Config with sensible defaults for running as a
// sidecar next to an application backend.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8001",
		TesseractPath:  "tesseract",
		MaxUploadBytes: 100 << 20,
		FetchTimeout:   120 * time.Second,
		CORSOrigins:    "*",
	}
}
