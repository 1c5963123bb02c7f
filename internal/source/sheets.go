package source

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"feedbackpulse/internal/config"
	"feedbackpulse/pkg/contracts/domain"
)

// SheetsFetcher reads a range through the Google Sheets API
type SheetsFetcher struct {
	sheetID   string
	readRange string
	opts      []option.ClientOption
	logger    *slog.Logger
}

// SheetsAuthOptions returns the client options for the configured credentials
func SheetsAuthOptions(cfg config.SourceConfig) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	} else if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	return opts
}

// NewSheetsFetcher creates a fetcher for sheetID!readRange
func NewSheetsFetcher(sheetID, readRange string, logger *slog.Logger, opts ...option.ClientOption) *SheetsFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetsFetcher{
		sheetID:   sheetID,
		readRange: readRange,
		opts:      opts,
		logger:    logger.With(slog.String("component", "sheets_source")),
	}
}

// Location returns sheets:<id>!<range>
func (f *SheetsFetcher) Location() string {
	return fmt.Sprintf("sheets:%s!%s", f.sheetID, f.readRange)
}

// Fetch reads the range and stringifies every cell
func (f *SheetsFetcher) Fetch(ctx context.Context) ([][]string, error) {
	srv, err := sheets.NewService(ctx, f.opts...)
	if err != nil {
		return nil, networkFailure(f.Location(), "create sheets service", err)
	}

	resp, err := srv.Spreadsheets.Values.Get(f.sheetID, f.readRange).Context(ctx).Do()
	if err != nil {
		return nil, networkFailure(f.Location(), "read sheet values", err)
	}
	if len(resp.Values) == 0 {
		return nil, parsingFailure(f.Location(), "read sheet values", domain.ErrNoHeader)
	}

	records := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		records[i] = cells
	}

	f.logger.DebugContext(ctx, "sheet read",
		slog.String("sheet_id", f.sheetID),
		slog.String("range", f.readRange),
		slog.Int("rows", len(records)-1),
	)
	return records, nil
}
