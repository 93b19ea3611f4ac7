package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeded role names. Self-registration requires RoleNameReader to exist;
// its absence is treated as a fatal configuration error.
const (
	RoleNameAdmin   = "ADMIN"
	RoleNameTeacher = "TEACHER"
	RoleNameReader  = "USER"
)

type Role struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:50" validate:"required,max=50"`
	Description string `json:"description" gorm:"size:255"`

	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Permission struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:100" validate:"required,max=100"`
	Description string `json:"description" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RolePermission is the explicit join row between roles and permissions.
// The (role_id, permission_id) pair is unique; a duplicate grant is a conflict.
type RolePermission struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	RoleID       string `json:"role_id" gorm:"not null;uniqueIndex:idx_role_permission;size:36"`
	PermissionID string `json:"permission_id" gorm:"not null;uniqueIndex:idx_role_permission;size:36"`

	CreatedAt time.Time `json:"created_at"`
}

func (Role) TableName() string           { return "roles" }
func (Permission) TableName() string     { return "permissions" }
func (RolePermission) TableName() string { return "role_permissions" }

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (rp *RolePermission) BeforeCreate(tx *gorm.DB) error {
	if rp.ID == "" {
		rp.ID = uuid.NewString()
	}
	return nil
}
