package repositories

import "context"

// Repository aggregates the per-entity repositories behind one handle.
type Repository interface {
	User() UserRepository
	Role() RoleRepository
	Permission() PermissionRepository
	Career() CareerRepository
	Period() PeriodRepository
	Skill() SkillRepository
	Project() ProjectRepository
	ProjectSkill() ProjectSkillRepository
	UserProject() UserProjectRepository

	// WithTransaction runs fn against a repository bound to one transaction.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager owns the repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
