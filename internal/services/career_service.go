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

type careerService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	gate      authz.Authorizer
}

func NewCareerService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	v *validator.Validator,
	gate authz.Authorizer,
) CareerService {
	return &careerService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		gate:      gate,
	}
}

func (s *careerService) List(ctx context.Context, p models.Pagination) ([]*models.Career, models.PageMeta, error) {
	p.Normalize()

	careers, total, err := s.repo.Career().List(ctx, nil, p)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("failed to list careers: %w", err)
	}

	return careers, models.NewPageMeta(total, p), nil
}

func (s *careerService) GetByID(ctx context.Context, id string) (*models.Career, error) {
	career, err := s.repo.Career().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCareerNotFound
		}
		return nil, fmt.Errorf("failed to load career: %w", err)
	}
	return career, nil
}

func (s *careerService) Create(ctx context.Context, callerID string, req CreateCareerRequest) (*models.Career, error) {
	if err := s.gate.Authorize(ctx, callerID, authz.ActionCreate, authz.ResourceCareer, nil); err != nil {
		return nil, s.mapAuthzError(err, callerID, "", "create")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	career := &models.Career{Name: req.Name}
	if err := s.repo.Career().Create(ctx, nil, career); err != nil {
		return nil, fmt.Errorf("failed to create career: %w", err)
	}

	s.logger.Info("career created", "career_id", career.ID, "created_by", callerID)
	return career, nil
}

func (s *careerService) Update(ctx context.Context, callerID, id string, req UpdateCareerRequest) (*models.Career, error) {
	if err := s.gate.Authorize(ctx, callerID, authz.ActionUpdate, authz.ResourceCareer, nil); err != nil {
		return nil, s.mapAuthzError(err, callerID, id, "update")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	career, err := s.repo.Career().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCareerNotFound
		}
		return nil, fmt.Errorf("failed to load career: %w", err)
	}

	career.Name = req.Name
	if err := s.repo.Career().Update(ctx, nil, career); err != nil {
		return nil, fmt.Errorf("failed to update career: %w", err)
	}

	s.logger.Info("career updated", "career_id", id, "updated_by", callerID)
	return career, nil
}

func (s *careerService) Delete(ctx context.Context, callerID, id string) error {
	if err := s.gate.Authorize(ctx, callerID, authz.ActionDelete, authz.ResourceCareer, nil); err != nil {
		return s.mapAuthzError(err, callerID, id, "delete")
	}

	if err := s.repo.Career().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCareerNotFound
		}
		return fmt.Errorf("failed to delete career: %w", err)
	}

	s.logger.Info("career deleted", "career_id", id, "deleted_by", callerID)
	return nil
}

func (s *careerService) mapAuthzError(err error, callerID, resourceID, action string) error {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		return NewPermissionError(callerID, authz.ResourceCareer, resourceID, action, "requires career management rights")
	case errors.Is(err, authz.ErrSubjectNotFound):
		return ErrUserNotFound
	}
	return err
}
