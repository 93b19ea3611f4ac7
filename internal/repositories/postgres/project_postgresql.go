package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
)

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) repositories.ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, tx *gorm.DB, project *models.Project) error {
	db := getDB(r.db, tx)
	// Associations are managed through the explicit join repositories.
	if err := db.WithContext(ctx).Omit("Skills", "Participants").Create(project).Error; err != nil {
		return handleDBError(err, "create project")
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Project, error) {
	db := getDB(r.db, tx)
	var project models.Project

	if err := db.WithContext(ctx).
		Preload("Creator").
		First(&project, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get project by id")
	}

	return &project, nil
}

func (r *projectRepository) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id string) (*models.Project, error) {
	db := getDB(r.db, tx)
	var project models.Project

	if err := db.WithContext(ctx).
		Preload("Creator").
		Preload("Career").
		Preload("Skills").
		Preload("Participants").
		First(&project, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get project with details")
	}

	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ProjectFilters, p models.Pagination) ([]*models.Project, int64, error) {
	db := getDB(r.db, tx)
	var projects []*models.Project
	var total int64

	query := db.WithContext(ctx).Model(&models.Project{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count projects")
	}

	if err := applyPagination(query, p).
		Preload("Creator").
		Preload("Career").
		Preload("Skills").
		Find(&projects).Error; err != nil {
		return nil, 0, handleDBError(err, "list projects")
	}

	return projects, total, nil
}

func (r *projectRepository) applyFilters(query *gorm.DB, filters repositories.ProjectFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("projects.status = ?", *filters.Status)
	}
	if filters.CreatedBy != nil {
		query = query.Where("projects.created_by = ?", *filters.CreatedBy)
	}
	if filters.CareerID != nil {
		query = query.Where("projects.career_id = ?", *filters.CareerID)
	}
	if filters.SkillID != nil {
		query = query.
			Joins("INNER JOIN project_skills ps ON ps.project_id = projects.id").
			Where("ps.skill_id = ?", *filters.SkillID)
	}
	if filters.RestrictPendingTo != nil {
		query = query.Where("projects.status <> ? OR projects.created_by = ?",
			models.StatusPending, *filters.RestrictPendingTo)
	}
	return query
}

func (r *projectRepository) Update(ctx context.Context, tx *gorm.DB, project *models.Project) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Omit("Skills", "Participants").Save(project).Error; err != nil {
		return handleDBError(err, "update project")
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := getDB(r.db, tx)
	result := db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete project")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete project")
	}
	return nil
}

type projectSkillRepository struct {
	db *gorm.DB
}

func NewProjectSkillRepository(db *gorm.DB) repositories.ProjectSkillRepository {
	return &projectSkillRepository{db: db}
}

func (r *projectSkillRepository) Create(ctx context.Context, tx *gorm.DB, link *models.ProjectSkill) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(link).Error; err != nil {
		return handleDBError(err, "create project-skill link")
	}
	return nil
}

func (r *projectSkillRepository) Exists(ctx context.Context, tx *gorm.DB, projectID, skillID string) (bool, error) {
	db := getDB(r.db, tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.ProjectSkill{}).
		Where("project_id = ? AND skill_id = ?", projectID, skillID).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check project-skill link")
	}

	return count > 0, nil
}

func (r *projectSkillRepository) DeleteByProject(ctx context.Context, tx *gorm.DB, projectID string) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.ProjectSkill{}).Error; err != nil {
		return handleDBError(err, "delete project-skill links by project")
	}
	return nil
}

func (r *projectSkillRepository) DeleteBySkill(ctx context.Context, tx *gorm.DB, skillID string) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).
		Where("skill_id = ?", skillID).
		Delete(&models.ProjectSkill{}).Error; err != nil {
		return handleDBError(err, "delete project-skill links by skill")
	}
	return nil
}

func (r *projectSkillRepository) BulkInsert(ctx context.Context, tx *gorm.DB, projectID string, skillIDs []string) error {
	if len(skillIDs) == 0 {
		return nil
	}

	db := getDB(r.db, tx)

	seen := make(map[string]struct{}, len(skillIDs))
	links := make([]models.ProjectSkill, 0, len(skillIDs))
	for _, skillID := range skillIDs {
		if _, ok := seen[skillID]; ok {
			continue
		}
		seen[skillID] = struct{}{}
		links = append(links, models.ProjectSkill{ProjectID: projectID, SkillID: skillID})
	}

	// A concurrent insert of the same pair is skipped, not failed.
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "skill_id"}},
			DoNothing: true,
		}).
		Create(&links).Error; err != nil {
		return handleDBError(err, "bulk insert project-skill links")
	}

	return nil
}

type userProjectRepository struct {
	db *gorm.DB
}

func NewUserProjectRepository(db *gorm.DB) repositories.UserProjectRepository {
	return &userProjectRepository{db: db}
}

func (r *userProjectRepository) Create(ctx context.Context, tx *gorm.DB, link *models.UserProject) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(link).Error; err != nil {
		return handleDBError(err, "create user-project link")
	}
	return nil
}

func (r *userProjectRepository) DeleteByProject(ctx context.Context, tx *gorm.DB, projectID string) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.UserProject{}).Error; err != nil {
		return handleDBError(err, "delete user-project links by project")
	}
	return nil
}
