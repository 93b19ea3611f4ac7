package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	Password string `json:"-" gorm:"not null;size:255"`
	Name     string `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`

	RoleID string `json:"role_id" gorm:"not null;index;size:36"`
	Role   Role   `json:"role" gorm:"foreignKey:RoleID"`

	CareerID *string `json:"career_id" gorm:"index;size:36"`
	Career   *Career `json:"career,omitempty" gorm:"foreignKey:CareerID"`

	// Avatar path relative to the static upload prefix.
	Image *string `json:"image" gorm:"size:500"`

	// Password recovery token pair; both nil outside an active reset window.
	ResetToken       *string    `json:"-" gorm:"index;size:64"`
	ResetTokenExpiry *time.Time `json:"-"`

	// Set on admin-issued accounts; enforcement point not defined yet.
	NeedsPasswordChange bool `json:"needs_password_change" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID makes a user row its own resource: profile mutations are
// self-service unless the caller is an administrator.
func (u *User) OwnerID() string { return u.ID }

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
