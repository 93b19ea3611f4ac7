package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/ISTS-2025/project-repository-service/internal/cache"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
)

// SubjectResolver loads the subject (role + permission grants) for a user.
type SubjectResolver interface {
	Resolve(ctx context.Context, userID string) (*Subject, error)
	// Invalidate drops the cached subject after a role or user mutation.
	Invalidate(ctx context.Context, userID string)
}

// repositorySubjectResolver resolves subjects from the store, with a short
// Redis-backed cache in front so authorization does not cost two queries on
// every request.
type repositorySubjectResolver struct {
	repo  repositories.Repository
	cache *cache.CacheHelper
}

func NewSubjectResolver(repo repositories.Repository, cacheHelper *cache.CacheHelper) SubjectResolver {
	return &repositorySubjectResolver{
		repo:  repo,
		cache: cacheHelper,
	}
}

func (r *repositorySubjectResolver) Resolve(ctx context.Context, userID string) (*Subject, error) {
	var cached Subject
	if err := r.cache.Get(ctx, userID, &cached); err == nil {
		return &cached, nil
	}

	user, err := r.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to resolve subject: %w", err)
	}

	permissions, err := r.repo.Role().GetPermissions(ctx, nil, user.RoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve subject permissions: %w", err)
	}

	subject := &Subject{
		UserID:      user.ID,
		Role:        user.Role.Name,
		Permissions: make([]Permission, len(permissions)),
	}
	for i, p := range permissions {
		subject.Permissions[i] = Permission(p.Name)
	}

	if err := r.cache.Set(ctx, userID, subject, cache.SubjectCacheConfig.TTL); err != nil && !errors.Is(err, cache.ErrCacheNotAvailable) {
		// Cache write failures only cost the next lookup.
		_ = err
	}

	return subject, nil
}

func (r *repositorySubjectResolver) Invalidate(ctx context.Context, userID string) {
	cache.SafeDelete(ctx, r.cache, userID)
}
