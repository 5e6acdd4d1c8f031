// Package ingest turns uploaded documents of known MIME types into one
// canonical plain-text representation with page count and light metadata,
// suitable for downstream chunking and embedding.
package ingest

import (
	"context"
	"log/slog"

	"github.com/libra-app/ingest/extractor"
)

// Service is the main entry point. It owns the strategy registry and the
// OCR capability flag, both built once at construction and read-only
// afterwards, which makes every method safe for concurrent use.
type Service struct {
	registry   *extractor.Registry
	dispatcher *extractor.Dispatcher
	fetcher    *DriveFetcher
	ocr        bool
}

// New probes the OCR toolchain, builds the registry, and wires the
// dispatcher. Extraction calls after this point touch no shared mutable
// state.
func New(cfg Config) *Service {
	ocr := false
	if !cfg.DisableOCR {
		ocr = extractor.DetectOCR(cfg.TesseractPath)
	}
	slog.Info("ocr probe", "available", ocr, "binary", cfg.TesseractPath)

	registry := extractor.NewRegistry(extractor.NewImageExtractor(ocr, cfg.TesseractPath))

	return &Service{
		registry:   registry,
		dispatcher: extractor.NewDispatcher(registry),
		fetcher:    NewDriveFetcher(cfg.FetchTimeout),
		ocr:        ocr,
	}
}

// Extract runs the strategy registered for mimeType over data. The
// filename is used only for display in error and label strings, never for
// format detection.
func (s *Service) Extract(ctx context.Context, mimeType string, data []byte, filename string) (*extractor.Result, error) {
	return s.dispatcher.Dispatch(ctx, mimeType, data, filename)
}

// ExtractFromDrive downloads a Drive file and extracts it. Dispatch is
// unaware of byte provenance; fetched bytes are treated exactly like
// direct uploads.
func (s *Service) ExtractFromDrive(ctx context.Context, fileID, accessToken, mimeType, filename string) (*extractor.Result, error) {
	data, err := s.fetcher.Fetch(ctx, fileID, accessToken)
	if err != nil {
		return nil, err
	}
	return s.Extract(ctx, mimeType, data, filename)
}

// SupportedTypes returns the registry's MIME keys, sorted.
func (s *Service) SupportedTypes() []string {
	return s.registry.MIMETypes()
}

// OCRAvailable reports the result of the startup probe.
func (s *Service) OCRAvailable() bool {
	return s.ocr
}
