package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/libra-app/ingest"
)

func newTestHandler(t *testing.T, maxUpload int64) *handler {
	t.Helper()
	cfg := ingest.DefaultConfig()
	cfg.DisableOCR = true
	cfg.MaxUploadBytes = maxUpload
	return newHandler(ingest.New(cfg), cfg)
}

func multipartBody(t *testing.T, payload []byte, mimeType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "page.html")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	fw.Write(payload)
	w.WriteField("mime_type", mimeType)
	w.WriteField("filename", "page.html")
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestHandleExtractRejectsOversizedUpload(t *testing.T) {
	h := newTestHandler(t, 1024)
	body, ctype := multipartBody(t, bytes.Repeat([]byte("a"), 64*1024), "text/html")

	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()

	h.handleExtract(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413 for a body past the configured limit", rec.Code)
	}
}

func TestHandleExtractWithinLimit(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	body, ctype := multipartBody(t, []byte("<html><body><p>Hello upload</p></body></html>"), "text/html")

	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()

	h.handleExtract(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.Contains(resp.Text, "Hello upload") {
		t.Errorf("text = %q, want the extracted paragraph", resp.Text)
	}
}
