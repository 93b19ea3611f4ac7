package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectStatus is a closed state set. Stored values keep the Spanish
// wording used by the existing data.
type ProjectStatus string

const (
	StatusPending    ProjectStatus = "pendiente"
	StatusApproved   ProjectStatus = "aprobado"
	StatusRejected   ProjectStatus = "rechazado"
	StatusInProgress ProjectStatus = "en progreso"
	StatusCompleted  ProjectStatus = "completado"
)

// CanTransitionTo reports whether moving to target is an allowed status
// transition: pending -> approved|rejected, approved -> in progress,
// in progress -> completed. Rejected and completed are terminal.
func (s ProjectStatus) CanTransitionTo(target ProjectStatus) bool {
	if s == target {
		return true
	}
	allowed, ok := statusTransitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

var statusTransitions = map[ProjectStatus][]ProjectStatus{
	StatusPending:    {StatusApproved, StatusRejected},
	StatusApproved:   {StatusInProgress},
	StatusInProgress: {StatusCompleted},
}

type Project struct {
	ID          string        `json:"id" gorm:"primaryKey;size:36"`
	Name        string        `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string        `json:"description" gorm:"type:text" validate:"max=2000"`
	Status      ProjectStatus `json:"status" gorm:"not null;default:pendiente;index" validate:"omitempty,oneof=pendiente aprobado rechazado 'en progreso' completado"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	Objectives   datatypes.JSONSlice[string] `json:"objectives"`
	Deliverables datatypes.JSONSlice[string] `json:"deliverables"`

	CareerID *string `json:"career_id" gorm:"index;size:36"`
	Career   *Career `json:"career,omitempty" gorm:"foreignKey:CareerID"`

	CreatedBy string `json:"created_by" gorm:"not null;index;size:36"`
	Creator   User   `json:"creator" gorm:"foreignKey:CreatedBy"`

	Skills       []Skill `json:"skills,omitempty" gorm:"many2many:project_skills;"`
	Participants []User  `json:"participants,omitempty" gorm:"many2many:user_projects;"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectSkill links a project to a skill. The pair is unique; a duplicate
// link attempt is a conflict, not an error to swallow.
type ProjectSkill struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	ProjectID string `json:"project_id" gorm:"not null;uniqueIndex:idx_project_skill;size:36"`
	SkillID   string `json:"skill_id" gorm:"not null;uniqueIndex:idx_project_skill;size:36"`

	CreatedAt time.Time `json:"created_at"`
}

// UserProject links a participant to a project, unique per pair.
type UserProject struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	UserID    string `json:"user_id" gorm:"not null;uniqueIndex:idx_user_project;size:36"`
	ProjectID string `json:"project_id" gorm:"not null;uniqueIndex:idx_user_project;size:36"`

	CreatedAt time.Time `json:"created_at"`
}

// OwnerID returns the creator reference used for ownership checks.
func (p *Project) OwnerID() string { return p.CreatedBy }

func (Project) TableName() string      { return "projects" }
func (ProjectSkill) TableName() string { return "project_skills" }
func (UserProject) TableName() string  { return "user_projects" }

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (ps *ProjectSkill) BeforeCreate(tx *gorm.DB) error {
	if ps.ID == "" {
		ps.ID = uuid.NewString()
	}
	return nil
}

func (up *UserProject) BeforeCreate(tx *gorm.DB) error {
	if up.ID == "" {
		up.ID = uuid.NewString()
	}
	return nil
}
