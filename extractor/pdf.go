package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageBreak separates pages in PDF output.
const pageBreak = "\n\n---PAGE BREAK---\n\n"

// PDFExtractor reads the plain-text layer of each page, in order. Blank
// pages are extracted but excluded from both the output and the page
// count, so PageCount means "pages with text", not "pages in document".
type PDFExtractor struct{}

func (e *PDFExtractor) MIMETypes() []string { return []string{"application/pdf"} }

func (e *PDFExtractor) Extract(ctx context.Context, data []byte, filename string) (res *Result, err error) {
	// The pdf library panics on some malformed streams. Fold those into
	// the error text like any other open failure.
	defer func() {
		if r := recover(); r != nil {
			res = &Result{Text: fmt.Sprintf("[PDF Error] Could not open %s: %v", filename, r)}
			err = nil
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return &Result{Text: fmt.Sprintf("[PDF Error] Could not open %s: %v", filename, err)}, nil
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	return &Result{
		Text:      strings.Join(pages, pageBreak),
		PageCount: len(pages),
		Metadata:  pdfInfo(reader),
	}, nil
}

// pdfInfo pulls title, author, and subject from the document Info
// dictionary, defaulting each missing field to the empty string.
func pdfInfo(r *pdf.Reader) map[string]string {
	info := r.Trailer().Key("Info")
	get := func(key string) string {
		v := info.Key(key)
		if v.Kind() == pdf.String {
			return v.RawString()
		}
		return ""
	}
	return map[string]string{
		"title":   get("Title"),
		"author":  get("Author"),
		"subject": get("Subject"),
	}
}
