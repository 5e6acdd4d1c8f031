package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

var (
	// ErrEmptyInput is returned when the byte buffer is empty.
	ErrEmptyInput = errors.New("extractor: empty input")

	// ErrUnsupportedType is returned when no strategy is registered for
	// the declared MIME type.
	ErrUnsupportedType = errors.New("extractor: unsupported MIME type")

	// ErrExtractionFailed is returned when a strategy fails past its own
	// boundary. Parse failures never surface here; strategies fold those
	// into their Result text.
	ErrExtractionFailed = errors.New("extractor: extraction failed")
)

// maxErrLen bounds the diagnostic message attached to ErrExtractionFailed
// so oversized parser errors never reach callers whole.
const maxErrLen = 300

// Dispatcher resolves a MIME type against the registry and invokes the
// strategy exactly once, synchronously, on the full buffer.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(r *Registry) *Dispatcher {
	return &Dispatcher{registry: r}
}

// Dispatch validates the input, runs the resolved strategy, and normalizes
// its outcome. A panic inside a strategy is a defect, not a parse failure;
// it is recovered and reported as ErrExtractionFailed.
func (d *Dispatcher) Dispatch(ctx context.Context, mimeType string, data []byte, filename string) (res *Result, err error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	ext, err := d.registry.Get(mimeType)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %s", ErrExtractionFailed, truncate(fmt.Sprintf("%v", r), maxErrLen))
		}
	}()

	res, err = ext.Extract(ctx, data, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExtractionFailed, truncate(err.Error(), maxErrLen))
	}

	slog.Info("extracted",
		"filename", filename,
		"mime", mimeType,
		"input_bytes", len(data),
		"output_chars", len(res.Text),
		"pages", res.PageCount,
	)
	return res, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
