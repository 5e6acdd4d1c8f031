package ingest

import (
	"errors"

	"github.com/libra-app/ingest/extractor"
)

var (
	// ErrEmptyInput is returned when a zero-length byte buffer is
	// submitted for extraction.
	ErrEmptyInput = extractor.ErrEmptyInput

	// ErrUnsupportedType is returned when the declared MIME type has no
	// registered strategy.
	ErrUnsupportedType = extractor.ErrUnsupportedType

	// ErrExtractionFailed is returned when a strategy fails past its own
	// boundary.
	ErrExtractionFailed = extractor.ErrExtractionFailed

	// ErrFetchFailed is returned when downloading bytes from the remote
	// object store fails.
	ErrFetchFailed = errors.New("ingest: remote fetch failed")
)
