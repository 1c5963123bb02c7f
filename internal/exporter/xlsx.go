package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"feedbackpulse/pkg/contracts/domain"
)

// Workbook sheet names.
const (
	SheetSummary  = "Resumo"
	SheetKPIs     = "Indicadores"
	SheetComments = "Comentários"
)

var commentHeaders = []string{"Especialista", "Data", "Comentário"}

// Workbook is the content of an XLSX download
type Workbook struct {
	KPIs     domain.KPIs
	Rows     []SummaryRow
	Comments []domain.CommentGroup
}

// WriteWorkbook renders wb as an XLSX document to w. The summary sheet is
// first and active; numbers are written as numbers so they stay sortable.
func WriteWorkbook(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, wb.Rows, header); err != nil {
		return err
	}
	if err := writeKPISheet(f, wb.KPIs, header); err != nil {
		return err
	}
	if err := writeCommentSheet(f, wb.Comments, header); err != nil {
		return err
	}

	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteWorkbookFile writes wb to filePath, creating parent directories.
func WriteWorkbookFile(filePath string, wb Workbook) error {
	slog.Info("Writing XLSX file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(wb.Rows)))

	return writeFile(filePath, func(w io.Writer) error {
		return WriteWorkbook(w, wb)
	})
}

func writeSummarySheet(f *excelize.File, rows []SummaryRow, headerStyle int) error {
	if err := writeHeader(f, SheetSummary, SummaryHeaders, headerStyle); err != nil {
		return err
	}

	for i, r := range rows {
		var score interface{} = NoScore
		if r.RawScore != nil {
			score = *r.RawScore
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			r.Specialist,
			r.Meetings,
			r.Evaluated,
			score,
			r.Rate,
			r.Target,
		}
		if err := f.SetSheetRow(SheetSummary, cell, &values); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i, err)
		}
	}

	return f.SetColWidth(SheetSummary, "A", "F", 22)
}

func writeKPISheet(f *excelize.File, kpis domain.KPIs, headerStyle int) error {
	if _, err := f.NewSheet(SheetKPIs); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetKPIs, err)
	}
	if err := writeHeader(f, SheetKPIs, []string{"Indicador", "Valor"}, headerStyle); err != nil {
		return err
	}

	for i, card := range BuildKPICards(kpis) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetKPIs, cell, &[]interface{}{card.Title, card.Value}); err != nil {
			return fmt.Errorf("failed to write indicator %s: %w", card.Title, err)
		}
	}

	return f.SetColWidth(SheetKPIs, "A", "B", 24)
}

func writeCommentSheet(f *excelize.File, groups []domain.CommentGroup, headerStyle int) error {
	if _, err := f.NewSheet(SheetComments); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetComments, err)
	}
	if err := writeHeader(f, SheetComments, commentHeaders, headerStyle); err != nil {
		return err
	}

	row := 2
	for _, g := range groups {
		for _, item := range g.Items {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(SheetComments, cell, &[]interface{}{g.Specialist, item.DateLabel, item.Text}); err != nil {
				return fmt.Errorf("failed to write comment row %d: %w", row, err)
			}
			row++
		}
	}

	if err := f.SetColWidth(SheetComments, "A", "B", 22); err != nil {
		return err
	}
	return f.SetColWidth(SheetComments, "C", "C", 80)
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return nil
}
