package service

import (
	"context"
	"errors"
	"fmt"

	"reclamation-portal/internal/models"
	"reclamation-portal/internal/notifier"
	"reclamation-portal/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrReclamationNotFound = errors.New("reclamation not found")
	ErrInvalidStatus       = errors.New("invalid reclamation status")
)

type ReclamationService interface {
	Create(ctx context.Context, ownerID, title, description string, fileURL *string) (*models.Reclamation, error)
	ListMine(ctx context.Context, ownerID string) ([]models.Reclamation, error)
	ListAll(ctx context.Context) ([]models.ReclamationWithUser, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Reclamation, error)
	Stats(ctx context.Context) ([]models.StatusCount, error)
}

type reclamationService struct {
	recs     repository.ReclamationRepository
	users    repository.UserRepository
	notifier notifier.Notifier
	logger   *zap.Logger
}

// NewReclamationService creates the reclamation lifecycle service.
// The notifier may be nil when notifications are disabled.
func NewReclamationService(recs repository.ReclamationRepository, users repository.UserRepository, n notifier.Notifier, logger *zap.Logger) ReclamationService {
	return &reclamationService{recs: recs, users: users, notifier: n, logger: logger}
}

func (s *reclamationService) Create(ctx context.Context, ownerID, title, description string, fileURL *string) (*models.Reclamation, error) {
	rec := &models.Reclamation{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		FileURL:     fileURL,
		Status:      models.StatusPending,
		UserID:      ownerID,
	}

	if err := s.recs.Create(ctx, rec); err != nil {
		s.logger.Error("Failed to create reclamation", zap.Error(err))
		return nil, fmt.Errorf("failed to create reclamation: %w", err)
	}

	s.logger.Info("Reclamation created",
		zap.String("id", rec.ID),
		zap.String("user_id", ownerID))

	if s.notifier != nil {
		ownerName := ownerID
		if owner, err := s.users.GetByID(ctx, ownerID); err == nil {
			ownerName = owner.Name
		}
		go s.notifier.ReclamationCreated(rec, ownerName)
	}

	return rec, nil
}

func (s *reclamationService) ListMine(ctx context.Context, ownerID string) ([]models.Reclamation, error) {
	recs, err := s.recs.ListByUser(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to list reclamations", zap.String("user_id", ownerID), zap.Error(err))
		return nil, fmt.Errorf("failed to list reclamations: %w", err)
	}
	return recs, nil
}

func (s *reclamationService) ListAll(ctx context.Context) ([]models.ReclamationWithUser, error) {
	recs, err := s.recs.ListAllWithUsers(ctx)
	if err != nil {
		s.logger.Error("Failed to list all reclamations", zap.Error(err))
		return nil, fmt.Errorf("failed to list reclamations: %w", err)
	}
	return recs, nil
}

func (s *reclamationService) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Reclamation, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	rec, err := s.recs.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReclamationNotFound
		}
		s.logger.Error("Failed to update reclamation status", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	s.logger.Info("Reclamation status updated",
		zap.String("id", id),
		zap.String("status", string(status)))
	return rec, nil
}

// Stats returns one entry per status, zeros included.
func (s *reclamationService) Stats(ctx context.Context) ([]models.StatusCount, error) {
	stats := make([]models.StatusCount, 0, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		count, err := s.recs.CountByStatus(ctx, status)
		if err != nil {
			s.logger.Error("Failed to count reclamations", zap.String("status", string(status)), zap.Error(err))
			return nil, fmt.Errorf("failed to count reclamations: %w", err)
		}
		stats = append(stats, models.StatusCount{Status: status, Count: count})
	}
	return stats, nil
}
