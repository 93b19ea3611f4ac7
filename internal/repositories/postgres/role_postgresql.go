package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
)

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) repositories.RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, tx *gorm.DB, role *models.Role) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(role).Error; err != nil {
		return handleDBError(err, "create role")
	}
	return nil
}

func (r *roleRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Role, error) {
	db := getDB(r.db, tx)
	var role models.Role

	if err := db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get role by id")
	}

	return &role, nil
}

func (r *roleRepository) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Role, error) {
	db := getDB(r.db, tx)
	var role models.Role

	if err := db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&role).Error; err != nil {
		return nil, handleDBError(err, "get role by name")
	}

	return &role, nil
}

func (r *roleRepository) List(ctx context.Context, tx *gorm.DB, p models.Pagination) ([]*models.Role, int64, error) {
	db := getDB(r.db, tx)
	var roles []*models.Role
	var total int64

	query := db.WithContext(ctx).Model(&models.Role{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count roles")
	}

	if err := applyPagination(query, p).Find(&roles).Error; err != nil {
		return nil, 0, handleDBError(err, "list roles")
	}

	return roles, total, nil
}

func (r *roleRepository) GetPermissions(ctx context.Context, tx *gorm.DB, roleID string) ([]*models.Permission, error) {
	db := getDB(r.db, tx)
	var permissions []*models.Permission

	if err := db.WithContext(ctx).
		Joins("INNER JOIN role_permissions rp ON rp.permission_id = permissions.id").
		Where("rp.role_id = ?", roleID).
		Find(&permissions).Error; err != nil {
		return nil, handleDBError(err, "get role permissions")
	}

	return permissions, nil
}

type permissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) repositories.PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) Create(ctx context.Context, tx *gorm.DB, permission *models.Permission) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(permission).Error; err != nil {
		return handleDBError(err, "create permission")
	}
	return nil
}

func (r *permissionRepository) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Permission, error) {
	db := getDB(r.db, tx)
	var permission models.Permission

	if err := db.WithContext(ctx).First(&permission, "name = ?", name).Error; err != nil {
		return nil, handleDBError(err, "get permission by name")
	}

	return &permission, nil
}

func (r *permissionRepository) List(ctx context.Context, tx *gorm.DB, p models.Pagination) ([]*models.Permission, int64, error) {
	db := getDB(r.db, tx)
	var permissions []*models.Permission
	var total int64

	query := db.WithContext(ctx).Model(&models.Permission{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count permissions")
	}

	if err := applyPagination(query, p).Find(&permissions).Error; err != nil {
		return nil, 0, handleDBError(err, "list permissions")
	}

	return permissions, total, nil
}

func (r *permissionRepository) Grant(ctx context.Context, tx *gorm.DB, roleID, permissionID string) error {
	db := getDB(r.db, tx)
	link := models.RolePermission{RoleID: roleID, PermissionID: permissionID}
	if err := db.WithContext(ctx).Create(&link).Error; err != nil {
		return handleDBError(err, "grant permission")
	}
	return nil
}
