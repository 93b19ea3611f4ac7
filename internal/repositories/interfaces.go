package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/ISTS-2025/project-repository-service/internal/models"
)

// Every method takes an optional transaction handle; nil means the base
// connection.

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	// GetByResetToken returns the user holding a non-expired reset token.
	GetByResetToken(ctx context.Context, tx *gorm.DB, token string) (*models.User, error)
	List(ctx context.Context, tx *gorm.DB, p models.Pagination) ([]*models.User, int64, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type RoleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, role *models.Role) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Role, error)
	// GetByName matches case-insensitively; legacy data stores the reader
	// role as lowercase "user".
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Role, error)
	List(ctx context.Context, tx *gorm.DB, p models.Pagination) ([]*models.Role, int64, error)
	GetPermissions(ctx context.Context, tx *gorm.DB, roleID string) ([]*models.Permission, error)
}

type PermissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, permission *models.Permission) error
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Permission, error)
	List(ctx context.Context, tx *gorm.DB, p models.Pagination) ([]*models.Permission, int64, error)
	Grant(ctx context.Context, tx *gorm.DB, roleID, permissionID string) error
}

type CareerRepository interface {
	Create(ctx context.Context, tx *gorm.DB, career *models.Career) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Career, error)
	List(ctx context.Context, tx *gorm.DB, p models.Pagination) ([]*models.Career, int64, error)
	Update(ctx context.Context, tx *gorm.DB, career *models.Career) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type PeriodRepository interface {
	Create(ctx context.Context, tx *gorm.DB, period *models.Period) error
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Period, error)
	List(ctx context.Context, tx *gorm.DB, p models.Pagination) ([]*models.Period, int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type SkillRepository interface {
	Create(ctx context.Context, tx *gorm.DB, skill *models.Skill) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Skill, error)
	List(ctx context.Context, tx *gorm.DB, p models.Pagination) ([]*models.Skill, int64, error)
	ListByProject(ctx context.Context, tx *gorm.DB, projectID string) ([]*models.Skill, error)
	Update(ctx context.Context, tx *gorm.DB, skill *models.Skill) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

// ProjectFilters narrows project listings.
type ProjectFilters struct {
	Status    *models.ProjectStatus
	CreatedBy *string
	CareerID  *string
	SkillID   *string

	// RestrictPendingTo hides pending projects unless created by the given
	// user: status != pending OR created_by = *RestrictPendingTo.
	RestrictPendingTo *string
}

type ProjectRepository interface {
	Create(ctx context.Context, tx *gorm.DB, project *models.Project) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Project, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id string) (*models.Project, error)
	List(ctx context.Context, tx *gorm.DB, filters ProjectFilters, p models.Pagination) ([]*models.Project, int64, error)
	Update(ctx context.Context, tx *gorm.DB, project *models.Project) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type ProjectSkillRepository interface {
	Create(ctx context.Context, tx *gorm.DB, link *models.ProjectSkill) error
	Exists(ctx context.Context, tx *gorm.DB, projectID, skillID string) (bool, error)
	DeleteByProject(ctx context.Context, tx *gorm.DB, projectID string) error
	DeleteBySkill(ctx context.Context, tx *gorm.DB, skillID string) error
	// BulkInsert inserts the deduplicated id set, skipping rows that lose a
	// duplicate-insert race instead of failing.
	BulkInsert(ctx context.Context, tx *gorm.DB, projectID string, skillIDs []string) error
}

type UserProjectRepository interface {
	Create(ctx context.Context, tx *gorm.DB, link *models.UserProject) error
	DeleteByProject(ctx context.Context, tx *gorm.DB, projectID string) error
}
