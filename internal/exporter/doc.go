// Package exporter turns aggregated survey metrics into display rows and
// downloadable files.
//
// format.go holds the presentation contract shared by every surface: rate
// and score formatting, target labels and the deterministic ordering of the
// specialist summary. The HTML dashboard, the CSV writer and the XLSX
// workbook all render the same SummaryRow values.
//
// Example usage:
//
//	rows := exporter.BuildSummaryRows(dash.Summary)
//	err := exporter.WriteSummaryCSV(w, rows, exporter.CSVOptions{BOMPrefix: true})
//	err = exporter.WriteWorkbook(w, exporter.Workbook{KPIs: dash.KPIs, Rows: rows})
package exporter
