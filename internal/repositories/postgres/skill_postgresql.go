package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
)

type skillRepository struct {
	db *gorm.DB
}

func NewSkillRepository(db *gorm.DB) repositories.SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) Create(ctx context.Context, tx *gorm.DB, skill *models.Skill) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(skill).Error; err != nil {
		return handleDBError(err, "create skill")
	}
	return nil
}

func (r *skillRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Skill, error) {
	db := getDB(r.db, tx)
	var skill models.Skill

	if err := db.WithContext(ctx).
		Preload("Creator").
		First(&skill, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get skill by id")
	}

	return &skill, nil
}

func (r *skillRepository) List(ctx context.Context, tx *gorm.DB, p models.Pagination) ([]*models.Skill, int64, error) {
	db := getDB(r.db, tx)
	var skills []*models.Skill
	var total int64

	query := db.WithContext(ctx).Model(&models.Skill{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count skills")
	}

	if err := applyPagination(query, p).Find(&skills).Error; err != nil {
		return nil, 0, handleDBError(err, "list skills")
	}

	return skills, total, nil
}

func (r *skillRepository) ListByProject(ctx context.Context, tx *gorm.DB, projectID string) ([]*models.Skill, error) {
	db := getDB(r.db, tx)
	var skills []*models.Skill

	if err := db.WithContext(ctx).
		Joins("INNER JOIN project_skills ps ON ps.skill_id = skills.id").
		Where("ps.project_id = ?", projectID).
		Find(&skills).Error; err != nil {
		return nil, handleDBError(err, "list skills by project")
	}

	return skills, nil
}

func (r *skillRepository) Update(ctx context.Context, tx *gorm.DB, skill *models.Skill) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(skill).Error; err != nil {
		return handleDBError(err, "update skill")
	}
	return nil
}

func (r *skillRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := getDB(r.db, tx)
	result := db.WithContext(ctx).Delete(&models.Skill{}, "id = ?", id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete skill")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete skill")
	}
	return nil
}
