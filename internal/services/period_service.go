package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/ISTS-2025/project-repository-service/internal/authz"
	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
	"github.com/ISTS-2025/project-repository-service/internal/validator"
)

type periodService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	gate      authz.Authorizer
}

func NewPeriodService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	v *validator.Validator,
	gate authz.Authorizer,
) PeriodService {
	return &periodService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		gate:      gate,
	}
}

func (s *periodService) List(ctx context.Context, p models.Pagination) ([]*models.Period, models.PageMeta, error) {
	p.Normalize()

	periods, total, err := s.repo.Period().List(ctx, nil, p)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("failed to list periods: %w", err)
	}

	return periods, models.NewPageMeta(total, p), nil
}

// Create pre-checks the name so the common duplicate reads as a conflict
// without round-tripping a constraint violation; the insert still catches
// the race where a concurrent create won.
func (s *periodService) Create(ctx context.Context, callerID string, req CreatePeriodRequest) (*models.Period, error) {
	if err := s.gate.Authorize(ctx, callerID, authz.ActionCreate, authz.ResourcePeriod, nil); err != nil {
		return nil, s.mapAuthzError(err, callerID, "", "create")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Period().GetByName(ctx, nil, req.Name); err == nil {
		return nil, ErrPeriodNameTaken
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check period name: %w", err)
	}

	period := &models.Period{Name: req.Name}
	if err := s.repo.Period().Create(ctx, nil, period); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrPeriodNameTaken
		}
		return nil, fmt.Errorf("failed to create period: %w", err)
	}

	s.logger.Info("period created", "period_id", period.ID, "created_by", callerID)
	return period, nil
}

func (s *periodService) Delete(ctx context.Context, callerID, id string) error {
	if err := s.gate.Authorize(ctx, callerID, authz.ActionDelete, authz.ResourcePeriod, nil); err != nil {
		return s.mapAuthzError(err, callerID, id, "delete")
	}

	if err := s.repo.Period().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPeriodNotFound
		}
		return fmt.Errorf("failed to delete period: %w", err)
	}

	s.logger.Info("period deleted", "period_id", id, "deleted_by", callerID)
	return nil
}

func (s *periodService) mapAuthzError(err error, callerID, resourceID, action string) error {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		return NewPermissionError(callerID, authz.ResourcePeriod, resourceID, action, "requires period management rights")
	case errors.Is(err, authz.ErrSubjectNotFound):
		return ErrUserNotFound
	}
	return err
}
