package extractor

import (
	"fmt"
	"sort"
)

// Registry maps declared MIME types to format strategies. It is built once
// at startup and read-only afterwards; lookups are exact-match.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry registers the built-in strategies. The image extractor is
// passed in because it carries the OCR capability flag decided at startup.
func NewRegistry(img *ImageExtractor) *Registry {
	r := &Registry{extractors: make(map[string]Extractor)}
	for _, e := range []Extractor{
		&PDFExtractor{},
		&DOCXExtractor{},
		&XLSXExtractor{},
		&PPTXExtractor{},
		&NotebookExtractor{},
		&HTMLExtractor{},
		img,
	} {
		for _, m := range e.MIMETypes() {
			r.extractors[m] = e
		}
	}
	return r
}

// Get resolves a MIME type. Unknown types are a first-class outcome, not a
// defect.
func (r *Registry) Get(mimeType string) (Extractor, error) {
	e, ok := r.extractors[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	return e, nil
}

// Register adds or replaces the strategy for a MIME type.
func (r *Registry) Register(mimeType string, e Extractor) {
	r.extractors[mimeType] = e
}

// MIMETypes returns all registered keys, sorted.
func (r *Registry) MIMETypes() []string {
	types := make([]string, 0, len(r.extractors))
	for m := range r.extractors {
		types = append(types, m)
	}
	sort.Strings(types)
	return types
}
