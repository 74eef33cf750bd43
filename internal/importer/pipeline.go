package importer

import (
	"context"
	"fmt"
	"time"

	"freshtrack/internal/model"
	"freshtrack/internal/repository"

	"github.com/rs/zerolog"
)

// Result is the caller-facing summary of one import run. Row errors are data,
// not failures: a batch with failed rows still returns successfully.
type Result struct {
	SuccessCount int                    `json:"successCount"`
	FailCount    int                    `json:"failCount"`
	Errors       []model.ImportRowError `json:"errors"`
}

// Pipeline persists spreadsheet rows one by one, isolating per-row failures,
// and records an immutable history entry per run.
type Pipeline struct {
	products  repository.ProductRepository
	histories repository.ImportHistoryRepository
	now       func() time.Time
	logger    zerolog.Logger
}

// NewPipeline creates a batch import pipeline.
func NewPipeline(
	products repository.ProductRepository,
	histories repository.ImportHistoryRepository,
	now func() time.Time,
	logger zerolog.Logger,
) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		products:  products,
		histories: histories,
		now:       now,
		logger:    logger.With().Str("component", "import-pipeline").Logger(),
	}
}

// Import processes rows sequentially in input order. A failure on one row is
// recorded and processing continues; only an empty batch rejects the whole
// operation, before any write. Exactly one ImportHistory record is created
// per invocation, reflecting the final counts.
func (p *Pipeline) Import(ctx context.Context, ownerID int64, filename string, rows []RawRow) (*Result, *model.ImportHistory, error) {
	if len(rows) == 0 {
		return nil, nil, model.ErrEmptySheet
	}

	p.logger.Info().
		Int64("owner_id", ownerID).
		Str("filename", filename).
		Int("rows", len(rows)).
		Msg("starting batch import")

	result := &Result{Errors: []model.ImportRowError{}}

	for i, row := range rows {
		if err := p.importRow(ctx, ownerID, row); err != nil {
			result.FailCount++
			result.Errors = append(result.Errors, model.ImportRowError{
				RowIndex: i + 1,
				Row:      row,
				Message:  err.Error(),
			})
			continue
		}
		result.SuccessCount++
	}

	history := &model.ImportHistory{
		OwnerID:      ownerID,
		Filename:     filename,
		TotalCount:   len(rows),
		SuccessCount: result.SuccessCount,
		FailCount:    result.FailCount,
		Status:       model.DeriveImportStatus(len(rows), result.FailCount),
		Errors:       result.Errors,
	}
	if err := p.histories.Create(ctx, history); err != nil {
		p.logger.Error().Err(err).Str("filename", filename).Msg("failed to record import history")
		return nil, nil, fmt.Errorf("failed to record import history: %w", err)
	}

	p.logger.Info().
		Int64("owner_id", ownerID).
		Int("success", result.SuccessCount).
		Int("failed", result.FailCount).
		Str("status", string(history.Status)).
		Msg("batch import completed")

	return result, history, nil
}

func (p *Pipeline) importRow(ctx context.Context, ownerID int64, row RawRow) error {
	normalized, err := NormalizeRow(row)
	if err != nil {
		return err
	}

	product := &model.Product{
		Name:           normalized.Name,
		ProductionDate: normalized.ProductionDate,
		ShelfLifeDays:  normalized.ShelfLifeDays,
		ReminderDays:   normalized.ReminderDays,
		OwnerID:        ownerID,
	}
	return p.products.Create(ctx, product)
}
