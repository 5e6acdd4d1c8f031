package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// PPTXExtractor walks slides in numeric order. Each slide opens with a
// "--- Slide N ---" header, text-frame paragraphs are emitted as
// concatenated run text, tables appear inline at their shape position with
// pipe-joined rows, and speaker notes are appended as "[Notes]" lines.
// Slides that yield nothing beyond the header are dropped from the output,
// but PageCount is always the total slide count.
type PPTXExtractor struct{}

func (e *PPTXExtractor) MIMETypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.presentationml.presentation"}
}

func (e *PPTXExtractor) Extract(ctx context.Context, data []byte, filename string) (*Result, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return &Result{Text: fmt.Sprintf("[PPTX Error] Could not open %s: %v", filename, err)}, nil
	}

	fileIndex := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileIndex[f.Name] = f
	}

	// Collect slide files (ppt/slides/slide1.xml, slide2.xml, ...)
	slideFiles := make(map[int]*zip.File)
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			num := slideNumber(f.Name)
			if num > 0 {
				slideFiles[num] = f
			}
		}
	}

	nums := make([]int, 0, len(slideFiles))
	for n := range slideFiles {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	var parts []string
	for _, num := range nums {
		slideXML, err := readZipFile(slideFiles[num])
		if err != nil {
			continue
		}

		lines := slideLines(slideXML)

		notesPath := fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", num)
		if nf := fileIndex[notesPath]; nf != nil {
			if notesXML, err := readZipFile(nf); err == nil {
				if notes := strings.TrimSpace(strings.Join(slideLines(notesXML), "\n")); notes != "" {
					lines = append(lines, "[Notes] "+notes)
				}
			}
		}

		if len(lines) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("\n--- Slide %d ---", num))
		parts = append(parts, lines...)
	}

	return &Result{
		Text:      strings.Join(parts, "\n"),
		PageCount: len(slideFiles),
	}, nil
}

// slideLines extracts output lines from one slide's DrawingML, preserving
// shape order. A token walk is used instead of struct unmarshalling so
// tables stay interleaved with text frames at their document position.
// Field placeholders (a:fld — slide number, date) render as text in
// PowerPoint but are not authored content, so their runs are skipped.
func slideLines(slideXML []byte) []string {
	decoder := xml.NewDecoder(bytes.NewReader(slideXML))

	var lines []string
	var para strings.Builder
	var cellParas []string
	var row []string
	var tableRows [][]string
	inTable := false
	inText := false
	fldDepth := 0

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				inTable = true
				tableRows = nil
			case "tr":
				if inTable {
					row = nil
				}
			case "tc":
				if inTable {
					cellParas = nil
				}
			case "p":
				para.Reset()
			case "fld":
				fldDepth++
			case "t":
				inText = true
			}

		case xml.CharData:
			if inText && fldDepth == 0 {
				para.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "fld":
				fldDepth--
			case "p":
				text := strings.TrimSpace(para.String())
				para.Reset()
				if inTable {
					cellParas = append(cellParas, text)
				} else if text != "" {
					lines = append(lines, text)
				}
			case "tc":
				if inTable {
					row = append(row, strings.TrimSpace(strings.Join(cellParas, "\n")))
				}
			case "tr":
				if inTable {
					tableRows = append(tableRows, row)
				}
			case "tbl":
				inTable = false
				for _, r := range tableRows {
					hasContent := false
					for _, cell := range r {
						if cell != "" {
							hasContent = true
							break
						}
					}
					if hasContent {
						lines = append(lines, strings.Join(r, " | "))
					}
				}
			}
		}
	}

	return lines
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// slideNumber extracts N from "ppt/slides/slideN.xml".
func slideNumber(name string) int {
	name = strings.TrimPrefix(name, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}
