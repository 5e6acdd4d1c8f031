package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DriveFetcher downloads file bytes from the Google Drive API using a
// caller-supplied access token. Purely I/O; the extraction core never sees
// where bytes came from.
type DriveFetcher struct {
	client  *http.Client
	baseURL string
}

func NewDriveFetcher(timeout time.Duration) *DriveFetcher {
	return &DriveFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: "https://www.googleapis.com/drive/v3",
	}
}

// Fetch returns the raw file contents, or ErrFetchFailed with a short
// diagnostic. Response bodies on error are truncated to 200 bytes.
func (f *DriveFetcher) Fetch(ctx context.Context, fileID, accessToken string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/files/%s?alt=media", f.baseURL, url.PathEscape(fileID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("%w: status %d: %s", ErrFetchFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrFetchFailed, err)
	}
	return data, nil
}
