package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXExtractor renders each sheet as tab-separated rows under a
// "# Sheet:" header. Sheets are read through the streaming row iterator,
// and formulas are never evaluated; only last-computed cached values are
// emitted.
type XLSXExtractor struct{}

func (e *XLSXExtractor) MIMETypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}
}

func (e *XLSXExtractor) Extract(ctx context.Context, data []byte, filename string) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return &Result{Text: fmt.Sprintf("[XLSX Error] Could not open %s: %v", filename, err)}, nil
	}
	defer f.Close()

	var parts []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.Rows(sheet)
		if err != nil {
			continue
		}

		parts = append(parts, fmt.Sprintf("\n# Sheet: %s\n", sheet))

		for rows.Next() {
			cols, err := rows.Columns()
			if err != nil {
				continue
			}
			cells := make([]string, 0, len(cols))
			for _, c := range cols {
				if c != "" {
					cells = append(cells, c)
				}
			}
			if len(cells) > 0 {
				parts = append(parts, strings.Join(cells, "\t"))
			}
		}
		rows.Close()
	}

	return &Result{Text: strings.Join(parts, "\n")}, nil
}
