package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Skill struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:100" validate:"required,min=1,max=100"`
	Description string `json:"description" gorm:"size:500" validate:"max=500"`

	// Free-form category/level metadata, e.g. {"category": "Backend", "level": "Advanced"}.
	Details datatypes.JSON `json:"details"`

	CreatedBy *string `json:"created_by" gorm:"index;size:36"`
	Creator   *User   `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`

	Projects []Project `json:"projects,omitempty" gorm:"many2many:project_skills;"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID returns the creator reference used for ownership checks; seeded
// skills have no creator and are owned by nobody.
func (s *Skill) OwnerID() string {
	if s.CreatedBy == nil {
		return ""
	}
	return *s.CreatedBy
}

func (Skill) TableName() string {
	return "skills"
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
