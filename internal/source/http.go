package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"feedbackpulse/internal/config"
	"feedbackpulse/pkg/contracts"
)

// HTTPFetcher downloads a published CSV export
type HTTPFetcher struct {
	url      string
	client   *http.Client
	maxBytes int64
	logger   *slog.Logger
}

// NewHTTPFetcher creates a fetcher for url. A nil client uses a 30s timeout.
func NewHTTPFetcher(url string, client *http.Client, logger *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: config.DefaultFetchTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPFetcher{
		url:      url,
		client:   client,
		maxBytes: config.MaxSourceBytes,
		logger:   logger.With(slog.String("component", "http_source")),
	}
}

// Location returns the export URL
func (f *HTTPFetcher) Location() string {
	return f.url
}

// Fetch downloads and decodes the export
func (f *HTTPFetcher) Fetch(ctx context.Context) ([][]string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, networkFailure(f.url, "build request", err)
	}
	req.Header.Set("Accept", "text/csv")
	req.Header.Set("User-Agent", fmt.Sprintf("FeedbackPulse/%s", contracts.Version))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, networkFailure(f.url, "GET source", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, networkFailure(f.url, "GET source", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	data, err := readLimited(resp.Body, f.maxBytes)
	if errors.Is(err, ErrSourceTooLarge) {
		return nil, parsingFailure(f.url, "read source", err)
	}
	if err != nil {
		return nil, networkFailure(f.url, "read source", err)
	}

	records, err := DecodeCSV(bytes.NewReader(data))
	if err != nil {
		return nil, parsingFailure(f.url, "decode csv", err)
	}

	f.logger.DebugContext(ctx, "source fetched",
		slog.String("url", f.url),
		slog.Int("rows", len(records)-1),
		slog.Duration("duration", time.Since(start)),
	)

	return records, nil
}
