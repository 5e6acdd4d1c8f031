package extractor

import (
	"context"
	"strings"
	"testing"
)

const validNotebook = `{
  "nbformat": 4,
  "nbformat_minor": 5,
  "metadata": {"language_info": {"name": "python"}},
  "cells": [
    {"cell_type": "markdown", "source": ["# Analysis\n", "Overview of the data."]},
    {"cell_type": "code", "source": "print(1)", "outputs": []},
    {"cell_type": "code", "source": [], "outputs": []},
    {"cell_type": "raw", "source": "raw block"}
  ]
}`

func TestNotebookCells(t *testing.T) {
	res, err := (&NotebookExtractor{}).Extract(context.Background(), []byte(validNotebook), "analysis.ipynb")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if !strings.HasPrefix(res.Text, "# Jupyter Notebook: analysis.ipynb\n") {
		t.Errorf("missing title line:\n%q", res.Text)
	}
	if !strings.Contains(res.Text, "# Analysis\nOverview of the data.") {
		t.Errorf("markdown line fragments not concatenated:\n%q", res.Text)
	}
	if !strings.Contains(res.Text, "\n```python\nprint(1)\n```\n") {
		t.Errorf("code cell not fenced:\n%q", res.Text)
	}
	if !strings.Contains(res.Text, "raw block") {
		t.Errorf("raw cell missing:\n%q", res.Text)
	}
	// The empty-source code cell is omitted entirely: exactly one fence pair.
	if got := strings.Count(res.Text, "```"); got != 2 {
		t.Errorf("expected 2 fence markers, got %d:\n%q", got, res.Text)
	}
	if res.PageCount != 0 {
		t.Errorf("PageCount = %d, want 0", res.PageCount)
	}
}

func TestNotebookLanguageTag(t *testing.T) {
	nb := `{
  "nbformat": 4,
  "metadata": {"language_info": {"name": "julia"}},
  "cells": [{"cell_type": "code", "source": "println(1)"}]
}`
	res, err := (&NotebookExtractor{}).Extract(context.Background(), []byte(nb), "j.ipynb")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "```julia\n") {
		t.Errorf("fence not tagged with notebook language:\n%q", res.Text)
	}
}

func TestNotebookFallbackParse(t *testing.T) {
	// No nbformat field: the schema-aware path rejects it, the raw path
	// still finds the cells array.
	nb := `{"cells": [{"cell_type": "markdown", "source": "salvaged"}]}`
	res, err := (&NotebookExtractor{}).Extract(context.Background(), []byte(nb), "old.ipynb")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "salvaged") {
		t.Errorf("fallback parse did not recover cells:\n%q", res.Text)
	}
}

func TestNotebookFallbackSkipsBrokenCells(t *testing.T) {
	nb := `{"cells": [
  {"cell_type": "markdown", "source": 42},
  {"cell_type": "markdown", "source": "kept"}
]}`
	res, err := (&NotebookExtractor{}).Extract(context.Background(), []byte(nb), "m.ipynb")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "kept") {
		t.Errorf("readable cell lost:\n%q", res.Text)
	}
	if strings.Contains(res.Text, "42") {
		t.Errorf("unreadable cell leaked into output:\n%q", res.Text)
	}
}

func TestNotebookUnparseable(t *testing.T) {
	res, err := (&NotebookExtractor{}).Extract(context.Background(), []byte("{not json"), "bad.ipynb")
	if err != nil {
		t.Fatalf("parse failures must be absorbed, got error: %v", err)
	}
	if !strings.HasPrefix(res.Text, "[Notebook Error] Could not parse bad.ipynb:") {
		t.Errorf("Text = %q, want [Notebook Error] prefix", res.Text)
	}
	if res.PageCount != 0 {
		t.Errorf("PageCount = %d, want 0 on failure", res.PageCount)
	}
}
