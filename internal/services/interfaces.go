package services

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/ISTS-2025/project-repository-service/internal/models"
)

// ===== AUTH DTOs =====

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
}

// RegisterAdminRequest provisions an account with an explicit role and
// career, used for teacher accounts issued by an administrator.
type RegisterAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	RoleID   string `json:"role_id" validate:"required,uuid"`
	CareerID string `json:"career_id" validate:"required,uuid"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken,omitempty"`
}

// ===== PROJECT DTOs =====

type CreateProjectRequest struct {
	Name         string     `json:"name" validate:"required,min=1,max=200"`
	Description  string     `json:"description" validate:"max=2000"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Objectives   []string   `json:"objectives"`
	Deliverables []string   `json:"deliverables"`
	CareerID     *string    `json:"career_id" validate:"omitempty,uuid"`
	SkillIDs     []string   `json:"skills" validate:"omitempty,dive,uuid"`
}

// UpdateProjectRequest uses pointers so an absent field and an explicit
// empty value can be told apart; a present SkillIDs (even empty) replaces
// the project's full skill set.
type UpdateProjectRequest struct {
	Name         *string               `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string               `json:"description" validate:"omitempty,max=2000"`
	Status       *models.ProjectStatus `json:"status" validate:"omitempty,oneof=pendiente aprobado rechazado 'en progreso' completado"`
	StartDate    *time.Time            `json:"start_date"`
	EndDate      *time.Time            `json:"end_date"`
	Objectives   *[]string             `json:"objectives"`
	Deliverables *[]string             `json:"deliverables"`
	CareerID     *string               `json:"career_id" validate:"omitempty,uuid"`
	SkillIDs     *[]string             `json:"skills" validate:"omitempty,dive,uuid"`
}

// ProjectListFilters narrows the project listing before visibility rules
// are applied on top.
type ProjectListFilters struct {
	Status    *models.ProjectStatus
	CareerID  *string
	CreatedBy *string
}

// ===== SKILL DTOs =====

type CreateSkillRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Details     json.RawMessage `json:"details"`
}

type UpdateSkillRequest struct {
	Name        *string         `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string         `json:"description" validate:"omitempty,max=500"`
	Details     json.RawMessage `json:"details"`
}

type LinkSkillRequest struct {
	ProjectID string `json:"project_id" validate:"required,uuid"`
	SkillID   string `json:"skill_id" validate:"required,uuid"`
}

// ===== USER DTOs =====

type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password"`
	RoleID   *string `json:"role_id" validate:"omitempty,uuid"`
	CareerID *string `json:"career_id" validate:"omitempty,uuid"`
}

// ===== REFERENCE DATA DTOs =====

type CreateCareerRequest struct {
	Name string `json:"name" validate:"required,min=1,max=150"`
}

type UpdateCareerRequest struct {
	Name string `json:"name" validate:"required,min=1,max=150"`
}

type CreatePeriodRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	RegisterAdmin(ctx context.Context, callerID string, req RegisterAdminRequest) (*models.User, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type ProjectService interface {
	// List applies the two-tier visibility policy: anonymous and admin
	// callers see everything, other callers see non-pending projects plus
	// their own pending submissions.
	List(ctx context.Context, callerID string, filters ProjectListFilters, p models.Pagination) ([]*models.Project, models.PageMeta, error)
	GetByID(ctx context.Context, callerID, id string) (*models.Project, error)
	ListBySkill(ctx context.Context, callerID, skillID string, p models.Pagination) ([]*models.Project, models.PageMeta, error)
	Create(ctx context.Context, callerID string, req CreateProjectRequest) (*models.Project, error)
	Update(ctx context.Context, callerID, id string, req UpdateProjectRequest) (*models.Project, error)
	Delete(ctx context.Context, callerID, id string) error
	// Export renders the full project catalog as an xlsx workbook.
	// Administrators only.
	Export(ctx context.Context, callerID string) ([]byte, error)
}

type SkillService interface {
	List(ctx context.Context, p models.Pagination) ([]*models.Skill, models.PageMeta, error)
	GetByID(ctx context.Context, id string) (*models.Skill, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.Skill, error)
	Create(ctx context.Context, callerID string, req CreateSkillRequest) (*models.Skill, error)
	Update(ctx context.Context, callerID, id string, req UpdateSkillRequest) (*models.Skill, error)
	Delete(ctx context.Context, callerID, id string) error
	LinkToProject(ctx context.Context, callerID string, req LinkSkillRequest) (*models.ProjectSkill, error)
}

type UserService interface {
	List(ctx context.Context, callerID string, p models.Pagination) ([]*models.User, models.PageMeta, error)
	GetByID(ctx context.Context, callerID, id string) (*models.User, error)
	Update(ctx context.Context, callerID, id string, req UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, callerID, id string) error
	// UpdateImage stores an avatar and persists its public URL on the user.
	UpdateImage(ctx context.Context, callerID, id, contentType string, size int64, r io.Reader) (*models.User, error)
}

type CareerService interface {
	List(ctx context.Context, p models.Pagination) ([]*models.Career, models.PageMeta, error)
	GetByID(ctx context.Context, id string) (*models.Career, error)
	Create(ctx context.Context, callerID string, req CreateCareerRequest) (*models.Career, error)
	Update(ctx context.Context, callerID, id string, req UpdateCareerRequest) (*models.Career, error)
	Delete(ctx context.Context, callerID, id string) error
}

type PeriodService interface {
	List(ctx context.Context, p models.Pagination) ([]*models.Period, models.PageMeta, error)
	Create(ctx context.Context, callerID string, req CreatePeriodRequest) (*models.Period, error)
	Delete(ctx context.Context, callerID, id string) error
}

// ServiceManager wires every service behind one lifecycle.
type ServiceManager interface {
	Auth() AuthService
	Project() ProjectService
	Skill() SkillService
	User() UserService
	Career() CareerService
	Period() PeriodService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
