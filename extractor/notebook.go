package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// NotebookExtractor converts a Jupyter notebook into a titled text
// document: markdown and raw cells verbatim, code cells inside fenced
// blocks tagged with the notebook's language.
type NotebookExtractor struct{}

func (e *NotebookExtractor) MIMETypes() []string {
	return []string{
		"application/json",
		"application/x-ipynb+json",
		"application/vnd.google.colaboratory",
	}
}

func (e *NotebookExtractor) Extract(ctx context.Context, data []byte, filename string) (*Result, error) {
	cells, lang, err := parseNotebookCells(data)
	if err != nil {
		return &Result{Text: fmt.Sprintf("[Notebook Error] Could not parse %s: %v", filename, err)}, nil
	}
	if lang == "" {
		lang = "python"
	}

	parts := []string{fmt.Sprintf("# Jupyter Notebook: %s\n", filename)}
	for _, cell := range cells {
		source := strings.TrimSpace(string(cell.Source))
		if source == "" {
			continue
		}
		switch cell.CellType {
		case "markdown", "raw":
			parts = append(parts, source)
		case "code":
			parts = append(parts, fmt.Sprintf("\n```%s\n%s\n```\n", lang, source))
		}
	}

	return &Result{Text: strings.Join(parts, "\n\n")}, nil
}

// parseNotebookCells tries a schema-aware parse first, then falls back to
// pulling the cells array straight out of the raw JSON. Malformed but
// readable notebooks are common enough that a strict parse over-rejects.
func parseNotebookCells(data []byte) ([]notebookCell, string, error) {
	var nb notebookFile
	if err := json.Unmarshal(data, &nb); err == nil && nb.NBFormat >= 4 && nb.Cells != nil {
		return nb.Cells, nb.Metadata.LanguageInfo.Name, nil
	}

	var raw struct {
		Cells []json.RawMessage `json:"cells"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, "", err
	}

	cells := make([]notebookCell, 0, len(raw.Cells))
	for _, rc := range raw.Cells {
		var cell notebookCell
		if err := json.Unmarshal(rc, &cell); err != nil {
			continue
		}
		cells = append(cells, cell)
	}
	return cells, "", nil
}

type notebookFile struct {
	Cells    []notebookCell `json:"cells"`
	NBFormat int            `json:"nbformat"`
	Metadata struct {
		LanguageInfo struct {
			Name string `json:"name"`
		} `json:"language_info"`
	} `json:"metadata"`
}

type notebookCell struct {
	CellType string         `json:"cell_type"`
	Source   notebookSource `json:"source"`
}

// notebookSource accepts both encodings used in the wild: a single string
// or a sequence of line fragments that concatenate into one.
type notebookSource string

func (s *notebookSource) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = notebookSource(str)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*s = notebookSource(strings.Join(lines, ""))
	return nil
}
