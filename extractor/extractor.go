package extractor

import "context"

// Result is the normalized output of a format strategy.
type Result struct {
	// Text uses \n for intra-block breaks and literal structural markers
	// (headings, page breaks, slide headers) between top-level units.
	Text string `json:"text"`

	// PageCount is the number of first-class document units processed.
	// Zero when the format has no page concept or the count is unknown.
	PageCount int `json:"page_count"`

	// Metadata carries light per-format details (PDF info dict, image
	// dimensions). May be nil.
	Metadata map[string]string `json:"metadata"`
}

// Extractor converts one document family into normalized text. A parse
// failure is folded into a Result whose Text starts with an error tag and
// whose PageCount is zero; an error return is reserved for defects.
type Extractor interface {
	Extract(ctx context.Context, data []byte, filename string) (*Result, error)
	MIMETypes() []string
}
