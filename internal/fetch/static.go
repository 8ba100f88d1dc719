// Package fetch retrieves the source pages and returns parsed documents.
// Two implementations exist: a plain HTTP fetcher for the static dashboard
// and a headless-browser fetcher for the script-rendered tables.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// userAgent is a browser-like identifying header; the source 403s requests
// that announce themselves as scripts.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0 Safari/537.36"

// Static fetches server-rendered pages over plain HTTPS.
type Static struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewStatic creates a plain HTTP page fetcher.
func NewStatic(timeout time.Duration, logger *slog.Logger) *Static {
	return &Static{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch retrieves the page and parses it. A non-200 response aborts the
// scrape: there is nothing to degrade to without a document.
func (f *Static) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d: %s", url, resp.StatusCode, body)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
