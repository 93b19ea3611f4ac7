package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ISTS-2025/project-repository-service/internal/authz"
	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
	"github.com/ISTS-2025/project-repository-service/internal/validator"
)

type skillService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	gate      authz.Authorizer
}

func NewSkillService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	v *validator.Validator,
	gate authz.Authorizer,
) SkillService {
	return &skillService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		gate:      gate,
	}
}

func (s *skillService) List(ctx context.Context, p models.Pagination) ([]*models.Skill, models.PageMeta, error) {
	p.Normalize()

	skills, total, err := s.repo.Skill().List(ctx, nil, p)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("failed to list skills: %w", err)
	}

	return skills, models.NewPageMeta(total, p), nil
}

func (s *skillService) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	skill, err := s.repo.Skill().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("failed to load skill: %w", err)
	}
	return skill, nil
}

func (s *skillService) ListByProject(ctx context.Context, projectID string) ([]*models.Skill, error) {
	if _, err := s.repo.Project().GetByID(ctx, nil, projectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	skills, err := s.repo.Skill().ListByProject(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project skills: %w", err)
	}
	return skills, nil
}

// Create stamps the caller as the skill's creator of record. Duplicate
// names surface as a conflict, never a raw constraint error.
func (s *skillService) Create(ctx context.Context, callerID string, req CreateSkillRequest) (*models.Skill, error) {
	if err := s.gate.Authorize(ctx, callerID, authz.ActionCreate, authz.ResourceSkill, nil); err != nil {
		return nil, s.mapAuthzError(err, callerID, "", "create")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	caller := callerID
	skill := &models.Skill{
		Name:        req.Name,
		Description: req.Description,
		Details:     datatypes.JSON(req.Details),
		CreatedBy:   &caller,
	}

	if err := s.repo.Skill().Create(ctx, nil, skill); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrSkillNameTaken
		}
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}

	s.logger.Info("skill created", "skill_id", skill.ID, "created_by", callerID)
	return skill, nil
}

func (s *skillService) Update(ctx context.Context, callerID, id string, req UpdateSkillRequest) (*models.Skill, error) {
	skill, err := s.repo.Skill().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("failed to load skill: %w", err)
	}

	if err := s.gate.Authorize(ctx, callerID, authz.ActionUpdate, authz.ResourceSkill, skill); err != nil {
		return nil, s.mapAuthzError(err, callerID, id, "update")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.Name != nil {
		skill.Name = *req.Name
	}
	if req.Description != nil {
		skill.Description = *req.Description
	}
	if req.Details != nil {
		skill.Details = datatypes.JSON(req.Details)
	}

	if err := s.repo.Skill().Update(ctx, nil, skill); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrSkillNameTaken
		}
		return nil, fmt.Errorf("failed to update skill: %w", err)
	}

	s.logger.Info("skill updated", "skill_id", id, "updated_by", callerID)
	return skill, nil
}

// Delete removes a skill after clearing its project links; the store
// rejects deleting a referenced row.
func (s *skillService) Delete(ctx context.Context, callerID, id string) error {
	skill, err := s.repo.Skill().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSkillNotFound
		}
		return fmt.Errorf("failed to load skill: %w", err)
	}

	if err := s.gate.Authorize(ctx, callerID, authz.ActionDelete, authz.ResourceSkill, skill); err != nil {
		return s.mapAuthzError(err, callerID, id, "delete")
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.ProjectSkill().DeleteBySkill(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete skill links: %w", err)
		}
		if err := txRepo.Skill().Delete(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete skill: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("skill deleted", "skill_id", id, "deleted_by", callerID)
	return nil
}

// LinkToProject attaches a skill to a project. The pair is pre-checked so
// a duplicate link reads as a conflict; a second catch on the insert
// handles the race where a concurrent link won after the pre-check.
func (s *skillService) LinkToProject(ctx context.Context, callerID string, req LinkSkillRequest) (*models.ProjectSkill, error) {
	if err := s.gate.Authorize(ctx, callerID, authz.ActionCreate, authz.ResourceSkill, nil); err != nil {
		return nil, s.mapAuthzError(err, callerID, "", "link")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Project().GetByID(ctx, nil, req.ProjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if _, err := s.repo.Skill().GetByID(ctx, nil, req.SkillID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("failed to load skill: %w", err)
	}

	exists, err := s.repo.ProjectSkill().Exists(ctx, nil, req.ProjectID, req.SkillID)
	if err != nil {
		return nil, fmt.Errorf("failed to check skill link: %w", err)
	}
	if exists {
		return nil, ErrProjectSkillExists
	}

	link := &models.ProjectSkill{ProjectID: req.ProjectID, SkillID: req.SkillID}
	if err := s.repo.ProjectSkill().Create(ctx, nil, link); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrProjectSkillExists
		}
		return nil, fmt.Errorf("failed to link skill: %w", err)
	}

	s.logger.Info("skill linked to project", "project_id", req.ProjectID, "skill_id", req.SkillID, "linked_by", callerID)
	return link, nil
}

func (s *skillService) mapAuthzError(err error, callerID, resourceID, action string) error {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		return NewPermissionError(callerID, authz.ResourceSkill, resourceID, action, "not the skill creator")
	case errors.Is(err, authz.ErrSubjectNotFound):
		return ErrUserNotFound
	}
	return err
}
