package source

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"

	"feedbackpulse/internal/config"
)

// FileFetcher reads a CSV export from disk
type FileFetcher struct {
	path     string
	maxBytes int64
	logger   *slog.Logger
}

// NewFileFetcher creates a fetcher for path
func NewFileFetcher(path string, logger *slog.Logger) *FileFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileFetcher{
		path:     path,
		maxBytes: config.MaxSourceBytes,
		logger:   logger.With(slog.String("component", "file_source")),
	}
}

// Location returns the file path
func (f *FileFetcher) Location() string {
	return f.path
}

// Fetch reads and decodes the file
func (f *FileFetcher) Fetch(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, networkFailure(f.path, "read source file", err)
	}

	file, err := os.Open(f.path)
	if err != nil {
		return nil, networkFailure(f.path, "open source file", err)
	}
	defer file.Close()

	data, err := readLimited(file, f.maxBytes)
	if errors.Is(err, ErrSourceTooLarge) {
		return nil, parsingFailure(f.path, "read source", err)
	}
	if err != nil {
		return nil, networkFailure(f.path, "read source", err)
	}

	records, err := DecodeCSV(bytes.NewReader(data))
	if err != nil {
		return nil, parsingFailure(f.path, "decode csv", err)
	}

	f.logger.DebugContext(ctx, "source read",
		slog.String("path", f.path),
		slog.Int("rows", len(records)-1),
	)
	return records, nil
}
