package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
)

type careerRepository struct {
	db *gorm.DB
}

func NewCareerRepository(db *gorm.DB) repositories.CareerRepository {
	return &careerRepository{db: db}
}

func (r *careerRepository) Create(ctx context.Context, tx *gorm.DB, career *models.Career) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(career).Error; err != nil {
		return handleDBError(err, "create career")
	}
	return nil
}

func (r *careerRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Career, error) {
	db := getDB(r.db, tx)
	var career models.Career

	if err := db.WithContext(ctx).First(&career, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get career by id")
	}

	return &career, nil
}

func (r *careerRepository) List(ctx context.Context, tx *gorm.DB, p models.Pagination) ([]*models.Career, int64, error) {
	db := getDB(r.db, tx)
	var careers []*models.Career
	var total int64

	query := db.WithContext(ctx).Model(&models.Career{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count careers")
	}

	if err := applyPagination(query, p).Find(&careers).Error; err != nil {
		return nil, 0, handleDBError(err, "list careers")
	}

	return careers, total, nil
}

func (r *careerRepository) Update(ctx context.Context, tx *gorm.DB, career *models.Career) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(career).Error; err != nil {
		return handleDBError(err, "update career")
	}
	return nil
}

func (r *careerRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := getDB(r.db, tx)
	result := db.WithContext(ctx).Delete(&models.Career{}, "id = ?", id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete career")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete career")
	}
	return nil
}

type periodRepository struct {
	db *gorm.DB
}

func NewPeriodRepository(db *gorm.DB) repositories.PeriodRepository {
	return &periodRepository{db: db}
}

func (r *periodRepository) Create(ctx context.Context, tx *gorm.DB, period *models.Period) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(period).Error; err != nil {
		return handleDBError(err, "create period")
	}
	return nil
}

func (r *periodRepository) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Period, error) {
	db := getDB(r.db, tx)
	var period models.Period

	if err := db.WithContext(ctx).First(&period, "name = ?", name).Error; err != nil {
		return nil, handleDBError(err, "get period by name")
	}

	return &period, nil
}

func (r *periodRepository) List(ctx context.Context, tx *gorm.DB, p models.Pagination) ([]*models.Period, int64, error) {
	db := getDB(r.db, tx)
	var periods []*models.Period
	var total int64

	query := db.WithContext(ctx).Model(&models.Period{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count periods")
	}

	// Periods are listed by name, newest term first.
	direction := "DESC"
	if p.Order == models.OrderAsc {
		direction = "ASC"
	}
	if err := query.
		Order("name "+direction).
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&periods).Error; err != nil {
		return nil, 0, handleDBError(err, "list periods")
	}

	return periods, total, nil
}

func (r *periodRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := getDB(r.db, tx)
	result := db.WithContext(ctx).Delete(&models.Period{}, "id = ?", id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete period")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete period")
	}
	return nil
}
