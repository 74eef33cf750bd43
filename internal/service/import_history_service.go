package service

import (
	"context"

	"freshtrack/internal/model"
	"freshtrack/internal/repository"

	"github.com/rs/zerolog"
)

// importHistoryService implements ImportHistoryService. History records are
// strictly per-owner; there is no cross-tenant view.
type importHistoryService struct {
	histories repository.ImportHistoryRepository
	logger    zerolog.Logger
}

// NewImportHistoryService creates a new import history service.
func NewImportHistoryService(histories repository.ImportHistoryRepository, logger zerolog.Logger) ImportHistoryService {
	return &importHistoryService{
		histories: histories,
		logger:    logger.With().Str("service", "import-history").Logger(),
	}
}

// List retrieves one page of the owner's records, newest first.
func (s *importHistoryService) List(ctx context.Context, ownerID int64, page, pageSize int) (*model.ImportHistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	records, err := s.histories.ListByOwner(ctx, ownerID, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to list import history")
		return nil, err
	}
	total, err := s.histories.CountByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to count import history")
		return nil, err
	}

	return &model.ImportHistoryPage{
		Histories:  records,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Delete removes one record owned by ownerID.
func (s *importHistoryService) Delete(ctx context.Context, id, ownerID int64) error {
	deleted, err := s.histories.Delete(ctx, id, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Int64("history_id", id).Msg("failed to delete import record")
		return err
	}
	if !deleted {
		return model.ErrHistoryNotFound
	}
	s.logger.Info().Int64("history_id", id).Int64("owner_id", ownerID).Msg("import record deleted")
	return nil
}
