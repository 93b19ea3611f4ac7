package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ISTS-2025/project-repository-service/internal/authz"
	"github.com/ISTS-2025/project-repository-service/internal/cache"
	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
	"github.com/ISTS-2025/project-repository-service/internal/validator"
)

// skillResyncTimeout bounds the delete-then-insert-then-update transaction
// a skills update runs.
const skillResyncTimeout = 10 * time.Second

type projectService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	gate      authz.Authorizer
	cache     *cache.CacheHelper
}

func NewProjectService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	v *validator.Validator,
	gate authz.Authorizer,
	cacheHelper *cache.CacheHelper,
) ProjectService {
	return &projectService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		gate:      gate,
		cache:     cacheHelper,
	}
}

func (s *projectService) List(ctx context.Context, callerID string, filters ProjectListFilters, p models.Pagination) ([]*models.Project, models.PageMeta, error) {
	p.Normalize()

	repoFilters := repositories.ProjectFilters{
		Status:    filters.Status,
		CareerID:  filters.CareerID,
		CreatedBy: filters.CreatedBy,
	}
	if err := s.applyVisibility(ctx, callerID, &repoFilters); err != nil {
		return nil, models.PageMeta{}, err
	}

	projects, total, err := s.repo.Project().List(ctx, nil, repoFilters, p)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, models.NewPageMeta(total, p), nil
}

func (s *projectService) ListBySkill(ctx context.Context, callerID, skillID string, p models.Pagination) ([]*models.Project, models.PageMeta, error) {
	p.Normalize()

	repoFilters := repositories.ProjectFilters{SkillID: &skillID}
	if err := s.applyVisibility(ctx, callerID, &repoFilters); err != nil {
		return nil, models.PageMeta{}, err
	}

	projects, total, err := s.repo.Project().List(ctx, nil, repoFilters, p)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("failed to list projects by skill: %w", err)
	}

	return projects, models.NewPageMeta(total, p), nil
}

// applyVisibility hides pending projects from authenticated non-admins who
// did not create them. Anonymous and admin callers see everything.
func (s *projectService) applyVisibility(ctx context.Context, callerID string, filters *repositories.ProjectFilters) error {
	if callerID == "" {
		return nil
	}

	isAdmin, err := s.gate.IsAdmin(ctx, callerID)
	if err != nil {
		if errors.Is(err, authz.ErrSubjectNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to resolve caller: %w", err)
	}
	if !isAdmin {
		caller := callerID
		filters.RestrictPendingTo = &caller
	}
	return nil
}

func (s *projectService) GetByID(ctx context.Context, callerID, id string) (*models.Project, error) {
	var project models.Project
	if err := s.cache.Get(ctx, id, &project); err != nil {
		loaded, err := s.repo.Project().GetByIDWithDetails(ctx, nil, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("failed to load project: %w", err)
		}
		project = *loaded

		if err := s.cache.Set(ctx, id, &project, cache.ProjectCacheConfig.TTL); err != nil {
			s.logger.Debug("failed to cache project", "project_id", id, "error", err)
		}
	}

	if err := s.checkReadable(ctx, callerID, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// checkReadable applies the pending-project rule to a single read. A
// hidden project reads as absent so its existence does not leak.
func (s *projectService) checkReadable(ctx context.Context, callerID string, project *models.Project) error {
	if project.Status != models.StatusPending || callerID == "" || project.CreatedBy == callerID {
		return nil
	}

	isAdmin, err := s.gate.IsAdmin(ctx, callerID)
	if err != nil {
		if errors.Is(err, authz.ErrSubjectNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to resolve caller: %w", err)
	}
	if !isAdmin {
		return ErrProjectNotFound
	}
	return nil
}

// Create stores a new submission. Status is always pending regardless of
// the payload, the caller is stamped as creator and registered as the
// first participant in the same transaction.
func (s *projectService) Create(ctx context.Context, callerID string, req CreateProjectRequest) (*models.Project, error) {
	if err := s.gate.Authorize(ctx, callerID, authz.ActionCreate, authz.ResourceProject, nil); err != nil {
		return nil, s.mapAuthzError(err, callerID, "", "create")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:         req.Name,
		Description:  req.Description,
		Status:       models.StatusPending,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Objectives:   datatypes.NewJSONSlice(req.Objectives),
		Deliverables: datatypes.NewJSONSlice(req.Deliverables),
		CareerID:     req.CareerID,
		CreatedBy:    callerID,
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Project().Create(ctx, nil, project); err != nil {
			if repositories.IsForeignKeyError(err) {
				return ErrCareerReferenceInvalid
			}
			return fmt.Errorf("failed to create project: %w", err)
		}

		participant := &models.UserProject{UserID: callerID, ProjectID: project.ID}
		if err := txRepo.UserProject().Create(ctx, nil, participant); err != nil {
			return fmt.Errorf("failed to register creator as participant: %w", err)
		}

		if len(req.SkillIDs) > 0 {
			if err := txRepo.ProjectSkill().BulkInsert(ctx, nil, project.ID, req.SkillIDs); err != nil {
				if repositories.IsForeignKeyError(err) {
					return ErrSkillReferenceInvalid
				}
				return fmt.Errorf("failed to link skills: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created", "project_id", project.ID, "created_by", callerID)
	return s.repo.Project().GetByIDWithDetails(ctx, nil, project.ID)
}

// Update mutates a project after the ownership gate. A present skills
// field, even an empty list, replaces the full link set; the whole write
// runs in one bounded transaction so a concurrent reader never sees a
// half-resynced project.
func (s *projectService) Update(ctx context.Context, callerID, id string, req UpdateProjectRequest) (*models.Project, error) {
	project, err := s.repo.Project().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	if err := s.gate.Authorize(ctx, callerID, authz.ActionUpdate, authz.ResourceProject, project); err != nil {
		return nil, s.mapAuthzError(err, callerID, id, "update")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Status != nil {
		if verrs := s.validator.ValidateStatusTransition(project.Status, *req.Status); verrs != nil {
			return nil, verrs
		}
		project.Status = *req.Status
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if req.Objectives != nil {
		project.Objectives = datatypes.NewJSONSlice(*req.Objectives)
	}
	if req.Deliverables != nil {
		project.Deliverables = datatypes.NewJSONSlice(*req.Deliverables)
	}
	if req.CareerID != nil {
		project.CareerID = req.CareerID
	}

	txCtx, cancel := context.WithTimeout(ctx, skillResyncTimeout)
	defer cancel()

	err = s.repo.WithTransaction(txCtx, func(txRepo repositories.Repository) error {
		if req.SkillIDs != nil {
			if err := txRepo.ProjectSkill().DeleteByProject(txCtx, nil, id); err != nil {
				return fmt.Errorf("failed to clear skill links: %w", err)
			}
			if len(*req.SkillIDs) > 0 {
				if err := txRepo.ProjectSkill().BulkInsert(txCtx, nil, id, *req.SkillIDs); err != nil {
					if repositories.IsForeignKeyError(err) {
						return ErrSkillReferenceInvalid
					}
					return fmt.Errorf("failed to link skills: %w", err)
				}
			}
		}

		if err := txRepo.Project().Update(txCtx, nil, project); err != nil {
			if repositories.IsForeignKeyError(err) {
				return ErrCareerReferenceInvalid
			}
			return fmt.Errorf("failed to update project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.SafeDelete(ctx, s.cache, id)
	s.logger.Info("project updated", "project_id", id, "updated_by", callerID)
	return s.repo.Project().GetByIDWithDetails(ctx, nil, id)
}

// Delete removes a project and its dependent link rows. The store enforces
// referential integrity, so the links go first.
func (s *projectService) Delete(ctx context.Context, callerID, id string) error {
	project, err := s.repo.Project().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to load project: %w", err)
	}

	if err := s.gate.Authorize(ctx, callerID, authz.ActionDelete, authz.ResourceProject, project); err != nil {
		return s.mapAuthzError(err, callerID, id, "delete")
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.ProjectSkill().DeleteByProject(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete skill links: %w", err)
		}
		if err := txRepo.UserProject().DeleteByProject(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete participant links: %w", err)
		}
		if err := txRepo.Project().Delete(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.SafeDelete(ctx, s.cache, id)
	s.logger.Info("project deleted", "project_id", id, "deleted_by", callerID)
	return nil
}

const exportPageSize = 500

// Export writes the full catalog into an xlsx workbook.
func (s *projectService) Export(ctx context.Context, callerID string) ([]byte, error) {
	if err := s.gate.Authorize(ctx, callerID, authz.ActionExport, authz.ResourceProject, nil); err != nil {
		return nil, s.mapAuthzError(err, callerID, "", "export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Projects"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Name", "Status", "Career", "Creator", "Skills", "Created At"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetCellValue(sheet, col+"1", h); err != nil {
			return nil, fmt.Errorf("failed to write export header: %w", err)
		}
	}

	row := 2
	p := models.Pagination{Page: 1, Limit: exportPageSize, Order: models.OrderAsc}
	for {
		projects, total, err := s.repo.Project().List(ctx, nil, repositories.ProjectFilters{}, p)
		if err != nil {
			return nil, fmt.Errorf("failed to load projects for export: %w", err)
		}

		for _, project := range projects {
			career := ""
			if project.Career != nil {
				career = project.Career.Name
			}
			skillNames := make([]string, len(project.Skills))
			for i, skill := range project.Skills {
				skillNames[i] = skill.Name
			}

			values := []any{
				project.Name,
				string(project.Status),
				career,
				project.Creator.Name,
				strings.Join(skillNames, ", "),
				project.CreatedAt.Format(time.RFC3339),
			}
			for i, v := range values {
				col, _ := excelize.ColumnNumberToName(i + 1)
				if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v); err != nil {
					return nil, fmt.Errorf("failed to write export row: %w", err)
				}
			}
			row++
		}

		if int64(p.Page*p.Limit) >= total || len(projects) == 0 {
			break
		}
		p.Page++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	s.logger.Info("project export generated", "rows", row-2, "requested_by", callerID)
	return buf.Bytes(), nil
}

func (s *projectService) mapAuthzError(err error, callerID, resourceID, action string) error {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		return NewPermissionError(callerID, authz.ResourceProject, resourceID, action, "not the project owner")
	case errors.Is(err, authz.ErrSubjectNotFound):
		return ErrUserNotFound
	}
	return err
}
