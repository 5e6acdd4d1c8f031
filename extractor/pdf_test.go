package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
)

// buildPDF assembles a minimal uncompressed PDF with one Helvetica text
// operation per page, tracking object byte offsets so the xref table is
// exact. info, when non-empty, becomes the trailer's /Info dictionary.
func buildPDF(t *testing.T, info string, pageTexts ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	writeObj := func(body string) int {
		offsets = append(offsets, buf.Len())
		num := len(offsets)
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
		return num
	}

	buf.WriteString("%PDF-1.4\n")

	n := len(pageTexts)
	fontNum := 3 + 2*n
	kids := make([]string, n)
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}

	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	for i, text := range pageTexts {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		writeObj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontNum, 4+2*i))
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	trailer := fmt.Sprintf("<< /Size %d /Root 1 0 R >>", len(offsets)+1)
	if info != "" {
		infoNum := writeObj(info)
		trailer = fmt.Sprintf("<< /Size %d /Root 1 0 R /Info %d 0 R >>", len(offsets)+1, infoNum)
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, xrefPos)
	return buf.Bytes()
}

func TestPDFWhitespaceOnlyPage(t *testing.T) {
	data := buildPDF(t, "", "   ")

	res, err := (&PDFExtractor{}).Extract(context.Background(), data, "blank.pdf")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if res.Text != "" {
		t.Errorf("Text = %q, want empty for a whitespace-only document", res.Text)
	}
	if res.PageCount != 0 {
		t.Errorf("PageCount = %d, want 0 (pages with text, not pages in file)", res.PageCount)
	}
}

func TestPDFTwoPagesOneSeparator(t *testing.T) {
	data := buildPDF(t, "", "Alpha page", "Beta page")

	res, err := (&PDFExtractor{}).Extract(context.Background(), data, "two.pdf")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if res.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", res.PageCount)
	}
	if got := strings.Count(res.Text, "---PAGE BREAK---"); got != 1 {
		t.Errorf("separator count = %d, want exactly 1:\n%q", got, res.Text)
	}
	alpha := strings.Index(res.Text, "Alpha page")
	beta := strings.Index(res.Text, "Beta page")
	if alpha == -1 || beta == -1 || alpha > beta {
		t.Errorf("page order lost: alpha=%d beta=%d:\n%q", alpha, beta, res.Text)
	}
}

func TestPDFInfoMetadata(t *testing.T) {
	data := buildPDF(t, "<< /Title (Q3 Report) /Author (Ops) >>", "Body text")

	res, err := (&PDFExtractor{}).Extract(context.Background(), data, "report.pdf")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if res.Metadata["title"] != "Q3 Report" || res.Metadata["author"] != "Ops" {
		t.Errorf("Metadata = %v, want title and author from the Info dict", res.Metadata)
	}
	if res.Metadata["subject"] != "" {
		t.Errorf("subject = %q, want empty default for a missing key", res.Metadata["subject"])
	}
}

func TestPDFMetadataDefaults(t *testing.T) {
	data := buildPDF(t, "", "Body text")

	res, err := (&PDFExtractor{}).Extract(context.Background(), data, "plain.pdf")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	for _, key := range []string{"title", "author", "subject"} {
		if got := res.Metadata[key]; got != "" {
			t.Errorf("Metadata[%q] = %q, want empty default without an Info dict", key, got)
		}
	}
}

func TestPDFCorruptInput(t *testing.T) {
	res, err := (&PDFExtractor{}).Extract(context.Background(), []byte("%PDF-garbage"), "bad.pdf")
	if err != nil {
		t.Fatalf("open failures must be absorbed, got error: %v", err)
	}
	if !strings.HasPrefix(res.Text, "[PDF Error] Could not open bad.pdf:") {
		t.Errorf("Text = %q, want [PDF Error] prefix", res.Text)
	}
	if res.PageCount != 0 {
		t.Errorf("PageCount = %d, want 0 on failure", res.PageCount)
	}
	if res.Metadata != nil {
		t.Errorf("Metadata = %v, want none on failure", res.Metadata)
	}
}

func TestPDFNotAPDFAtAll(t *testing.T) {
	res, err := (&PDFExtractor{}).Extract(context.Background(), []byte("hello world"), "text.pdf")
	if err != nil {
		t.Fatalf("open failures must be absorbed, got error: %v", err)
	}
	if !strings.HasPrefix(res.Text, "[PDF Error]") {
		t.Errorf("Text = %q, want [PDF Error] prefix", res.Text)
	}
}

func TestPDFIdempotent(t *testing.T) {
	data := []byte("%PDF-1.7 truncated stream")
	e := &PDFExtractor{}
	first, _ := e.Extract(context.Background(), data, "f.pdf")
	second, _ := e.Extract(context.Background(), data, "f.pdf")
	if first.Text != second.Text {
		t.Error("extraction is not deterministic over identical bytes")
	}
}
