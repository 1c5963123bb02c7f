package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures CSV writing behavior
type CSVOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
	Comma     rune // defaults to ','
}

// WriteCSV writes headers and records to w
func WriteCSV(w io.Writer, headers []string, records [][]string, opts CSVOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if opts.Comma != 0 {
		writer.Comma = opts.Comma
	}

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSummaryCSV writes the specialist summary table to w
func WriteSummaryCSV(w io.Writer, rows []SummaryRow, opts CSVOptions) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Cells())
	}
	return WriteCSV(w, SummaryHeaders, records, opts)
}

// WriteSummaryCSVFile writes the summary to filePath, creating parent
// directories as needed.
func WriteSummaryCSVFile(filePath string, rows []SummaryRow) error {
	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(rows)))

	return writeFile(filePath, func(w io.Writer) error {
		return WriteSummaryCSV(w, rows, CSVOptions{BOMPrefix: true})
	})
}

func writeFile(filePath string, write func(io.Writer) error) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
