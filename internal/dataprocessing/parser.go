package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"feedbackpulse/pkg/contracts/domain"
)

// Parser cleans raw export tables into datasets
type Parser struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewParser creates a parser. A nil logger uses slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger: logger.With(slog.String("component", "parser")),
		now:    time.Now,
	}
}

// Parse cleans a table whose first row is the header. Cell coercion failures
// never fail the parse; they are counted in Dataset.CellFailures.
func (p *Parser) Parse(ctx context.Context, records [][]string, source string) (*domain.Dataset, error) {
	if len(records) == 0 {
		return nil, domain.ErrNoHeader
	}

	idx, columns := indexColumns(records[0])
	stages := newStageNormalizer()
	hasRubric := columns.HasAnyRubric()

	dataset := &domain.Dataset{
		Source:    source,
		LoadedAt:  p.now(),
		Columns:   columns,
		Responses: make([]domain.Response, 0, len(records)-1),
	}

	for i, row := range records[1:] {
		resp := domain.Response{
			Row:        i + 1,
			Specialist: normalizeSpecialist(cell(row, idx.specialist)),
			Comment:    strings.TrimSpace(cell(row, idx.comment)),
		}

		if columns.SubmissionDate {
			date, ok := ParseDate(cell(row, idx.date))
			if !ok {
				dataset.CellFailures++
			}
			resp.SubmittedAt = date
		}

		if columns.Stage {
			resp.Stage = stages.Normalize(cell(row, idx.stage))
		} else {
			resp.Stage = domain.StageEvaluated
		}
		resp.Evaluated = IsEvaluatedStage(resp.Stage)

		for r := range resp.Ratings {
			if !columns.Ratings[r] {
				continue
			}
			v, ok := ParseFloat(cell(row, idx.ratings[r]))
			if !ok {
				dataset.CellFailures++
			}
			resp.Ratings[r] = v
		}

		if columns.NPS {
			v, ok := ParseFloat(cell(row, idx.nps))
			if !ok {
				dataset.CellFailures++
			}
			resp.NPS = v
		}

		if hasRubric {
			resp.MeanRubric = meanOf(resp.Ratings[:])
		}

		dataset.Responses = append(dataset.Responses, resp)
	}

	p.logLoad(ctx, dataset)
	return dataset, nil
}

func (p *Parser) logLoad(ctx context.Context, dataset *domain.Dataset) {
	if !dataset.Columns.Stage {
		p.logger.WarnContext(ctx, "stage column missing, every response counted as evaluated",
			slog.String("source", dataset.Source),
			slog.Int("responses", dataset.Len()),
		)
	}

	if dataset.CellFailures > 0 {
		p.logger.DebugContext(ctx, "cells could not be coerced",
			slog.String("source", dataset.Source),
			slog.Int("cell_failures", dataset.CellFailures),
		)
	}

	if len(dataset.Columns.Unmapped) > 0 {
		p.logger.DebugContext(ctx, "unmapped columns ignored",
			slog.Any("columns", dataset.Columns.Unmapped),
		)
	}
}
