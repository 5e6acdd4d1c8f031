package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DOCXExtractor walks body paragraphs in document order, wrapping heading
// paragraphs as "## " chunk-boundary markers. Tables are emitted after all
// paragraphs, one pipe-joined row per line. Emitting tables out of their
// document position is a known ordering simplification.
type DOCXExtractor struct{}

func (e *DOCXExtractor) MIMETypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document"}
}

func (e *DOCXExtractor) Extract(ctx context.Context, data []byte, filename string) (*Result, error) {
	doc, err := readDocxDocument(data)
	if err != nil {
		return &Result{Text: fmt.Sprintf("[DOCX Error] Could not parse %s: %v", filename, err)}, nil
	}

	var parts []string
	for _, para := range doc.Body.Paras {
		text := strings.TrimSpace(docxParaText(para))
		if text == "" {
			continue
		}
		if isDocxHeading(para) {
			parts = append(parts, fmt.Sprintf("\n## %s\n", text))
		} else {
			parts = append(parts, text)
		}
	}

	for _, tbl := range doc.Body.Tables {
		var rows []string
		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row.Cells))
			hasContent := false
			for _, cell := range row.Cells {
				text := strings.TrimSpace(docxCellText(cell))
				if text != "" {
					hasContent = true
				}
				cells = append(cells, text)
			}
			if hasContent {
				rows = append(rows, strings.Join(cells, " | "))
			}
		}
		if len(rows) > 0 {
			parts = append(parts, "\n"+strings.Join(rows, "\n")+"\n")
		}
	}

	return &Result{Text: strings.Join(parts, "\n")}, nil
}

// readDocxDocument opens the OOXML package and decodes word/document.xml.
func readDocxDocument(data []byte) (*docxDocument, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening DOCX: %w", err)
	}

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in DOCX")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("opening document.xml: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	var doc docxDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing document.xml: %w", err)
	}
	return &doc, nil
}

// DOCX XML structures (simplified)
type docxDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    docxBody `xml:"body"`
}

type docxBody struct {
	Paras  []docxPara  `xml:"p"`
	Tables []docxTable `xml:"tbl"`
}

type docxPara struct {
	PPr  *docxParaPr `xml:"pPr"`
	Runs []docxRun   `xml:"r"`
}

type docxParaPr struct {
	PStyle *docxPStyle `xml:"pStyle"`
}

type docxPStyle struct {
	Val string `xml:"val,attr"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

type docxTable struct {
	Rows []docxRow `xml:"tr"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxCell struct {
	Paras []docxPara `xml:"p"`
}

func docxParaText(para docxPara) string {
	var b strings.Builder
	for _, run := range para.Runs {
		for _, t := range run.Text {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}

func docxCellText(cell docxCell) string {
	var b strings.Builder
	for _, p := range cell.Paras {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(docxParaText(p))
	}
	return b.String()
}

// isDocxHeading reports whether the paragraph style is a heading variant.
func isDocxHeading(para docxPara) bool {
	if para.PPr == nil || para.PPr.PStyle == nil {
		return false
	}
	style := strings.ToLower(para.PPr.PStyle.Val)
	return strings.HasPrefix(style, "heading") || strings.HasPrefix(style, "title")
}
