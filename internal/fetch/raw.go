package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cameronsjo/stevedore/internal/selector"
)

// rawBaseURL serves plain file contents for public GitHub repositories at
// any branch, tag, or commit.
const rawBaseURL = "https://raw.githubusercontent.com"

// RawFetcher downloads files from raw.githubusercontent.com. It needs no
// credentials and works for public repositories only.
type RawFetcher struct {
	// BaseURL is overridable for tests.
	BaseURL string

	client *http.Client
}

// NewRawFetcher creates a raw fetcher with the given per-request timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewRawFetcher(timeout time.Duration) *RawFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RawFetcher{
		BaseURL: rawBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the file the selector points at and returns its text.
func (f *RawFetcher) Fetch(ctx context.Context, sel selector.Selector) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/%s", f.BaseURL, sel.Coordinate, sel.Reference, sel.Path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%s not found at %s@%s", sel.Path, sel.Coordinate, sel.Reference)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(body), nil
}
