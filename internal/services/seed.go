package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
)

// seedRole pairs a role with the permission names granted to it.
type seedRole struct {
	name        string
	description string
	grants      []string
}

var seedPermissions = []models.Permission{
	{Name: "projects:create", Description: "Create projects"},
	{Name: "projects:read", Description: "Read projects"},
	{Name: "projects:update", Description: "Update projects"},
	{Name: "projects:delete", Description: "Delete projects"},
	{Name: "projects:export", Description: "Export the project catalog"},
	{Name: "users:create", Description: "Provision user accounts"},
	{Name: "users:read", Description: "Read user accounts"},
	{Name: "users:update", Description: "Update user accounts"},
	{Name: "users:delete", Description: "Delete user accounts"},
}

var seedRoles = []seedRole{
	{
		name:        models.RoleNameAdmin,
		description: "Platform administrator",
		grants: []string{
			"projects:create", "projects:read", "projects:update", "projects:delete", "projects:export",
			"users:create", "users:read", "users:update", "users:delete",
		},
	},
	{
		name:        models.RoleNameTeacher,
		description: "Teacher supervising projects",
		grants:      []string{"projects:create", "projects:read", "projects:update", "users:read"},
	},
	{
		name:        models.RoleNameReader,
		description: "Default role for self-registered users",
		grants:      []string{"projects:read"},
	},
}

var seedCareers = []string{
	"Desarrollo de Software",
	"Electrónica",
	"Electricidad",
	"Mecánica Automotriz",
	"Gastronomía",
	"Enfermería",
}

// Seed installs the role, permission and career catalogs. It is idempotent:
// existing rows are kept, missing ones are created, duplicate grants are
// skipped.
func Seed(ctx context.Context, repo repositories.Repository, logger *slog.Logger) error {
	permissionIDs := make(map[string]string, len(seedPermissions))
	for _, p := range seedPermissions {
		existing, err := repo.Permission().GetByName(ctx, nil, p.Name)
		if err == nil {
			permissionIDs[p.Name] = existing.ID
			continue
		}
		if !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to check permission %s: %w", p.Name, err)
		}

		permission := p
		if err := repo.Permission().Create(ctx, nil, &permission); err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", p.Name, err)
		}
		permissionIDs[p.Name] = permission.ID
		logger.Info("seeded permission", "name", p.Name)
	}

	for _, r := range seedRoles {
		role, err := repo.Role().GetByName(ctx, nil, r.name)
		if err != nil {
			if !repositories.IsNotFoundError(err) {
				return fmt.Errorf("failed to check role %s: %w", r.name, err)
			}
			role = &models.Role{Name: r.name, Description: r.description}
			if err := repo.Role().Create(ctx, nil, role); err != nil {
				return fmt.Errorf("failed to seed role %s: %w", r.name, err)
			}
			logger.Info("seeded role", "name", r.name)
		}

		for _, grant := range r.grants {
			permissionID, ok := permissionIDs[grant]
			if !ok {
				return fmt.Errorf("unknown permission %q granted to role %s", grant, r.name)
			}
			if err := repo.Permission().Grant(ctx, nil, role.ID, permissionID); err != nil {
				if repositories.IsDuplicateKeyError(err) {
					continue
				}
				return fmt.Errorf("failed to grant %s to %s: %w", grant, r.name, err)
			}
		}
	}

	existing, _, err := repo.Career().List(ctx, nil, models.Pagination{Page: 1, Limit: 1000, Order: models.OrderAsc})
	if err != nil {
		return fmt.Errorf("failed to list careers: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		known[c.Name] = struct{}{}
	}

	for _, name := range seedCareers {
		if _, ok := known[name]; ok {
			continue
		}
		career := &models.Career{Name: name}
		if err := repo.Career().Create(ctx, nil, career); err != nil {
			return fmt.Errorf("failed to seed career %s: %w", name, err)
		}
		logger.Info("seeded career", "name", name)
	}

	logger.Info("seed completed")
	return nil
}
