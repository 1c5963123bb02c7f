package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"feedbackpulse/internal/config"
	apperrors "feedbackpulse/internal/errors"
)

// ErrFetchFailed marks every failure to obtain the raw table
var ErrFetchFailed = errors.New("source fetch failed")

// Fetcher returns the raw export, header row first
type Fetcher interface {
	Fetch(ctx context.Context) ([][]string, error)
	// Location identifies the source, used as the cache key.
	Location() string
}

// New builds the fetcher for the configured source kind
func New(cfg config.SourceConfig, logger *slog.Logger) (Fetcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Kind {
	case config.SourceKindCSV, "":
		client := &http.Client{Timeout: cfg.FetchTimeout}
		return NewHTTPFetcher(cfg.URL, client, logger), nil
	case config.SourceKindFile:
		return NewFileFetcher(cfg.Path, logger), nil
	case config.SourceKindSheets:
		return NewSheetsFetcher(cfg.SheetID, cfg.SheetRange, logger, SheetsAuthOptions(cfg)...), nil
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown source kind %q", cfg.Kind), nil)
	}
}

func networkFailure(location, message string, cause error) error {
	return apperrors.NewNetworkError(message, fmt.Errorf("%w: %w", ErrFetchFailed, cause)).
		WithContext("location", location)
}

func parsingFailure(location, message string, cause error) error {
	return apperrors.NewParsingError(message, fmt.Errorf("%w: %w", ErrFetchFailed, cause)).
		WithContext("location", location)
}
