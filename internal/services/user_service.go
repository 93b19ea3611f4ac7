package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/ISTS-2025/project-repository-service/internal/auth"
	"github.com/ISTS-2025/project-repository-service/internal/authz"
	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
	"github.com/ISTS-2025/project-repository-service/internal/storage"
	"github.com/ISTS-2025/project-repository-service/internal/validator"
)

const avatarPrefix = "avatars"

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	gate      authz.Authorizer
	store     storage.Storage
}

func NewUserService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	v *validator.Validator,
	gate authz.Authorizer,
	store storage.Storage,
) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		gate:      gate,
		store:     store,
	}
}

func (s *userService) List(ctx context.Context, callerID string, p models.Pagination) ([]*models.User, models.PageMeta, error) {
	if err := s.gate.Authorize(ctx, callerID, authz.ActionRead, authz.ResourceUser, nil); err != nil {
		return nil, models.PageMeta{}, s.mapAuthzError(err, callerID, "", "read")
	}
	p.Normalize()

	users, total, err := s.repo.User().List(ctx, nil, p)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("failed to list users: %w", err)
	}

	return users, models.NewPageMeta(total, p), nil
}

func (s *userService) GetByID(ctx context.Context, callerID, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.gate.Authorize(ctx, callerID, authz.ActionRead, authz.ResourceUser, user); err != nil {
		return nil, s.mapAuthzError(err, callerID, id, "read")
	}
	return user, nil
}

// Update applies a partial profile change. Role reassignment is reserved
// for administrators even on the caller's own row.
func (s *userService) Update(ctx context.Context, callerID, id string, req UpdateUserRequest) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.gate.Authorize(ctx, callerID, authz.ActionUpdate, authz.ResourceUser, user); err != nil {
		return nil, s.mapAuthzError(err, callerID, id, "update")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.RoleID != nil && *req.RoleID != user.RoleID {
		isAdmin, err := s.gate.IsAdmin(ctx, callerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve caller: %w", err)
		}
		if !isAdmin {
			return nil, NewPermissionError(callerID, authz.ResourceUser, id, "update", "role changes require an administrator")
		}
		if _, err := s.repo.Role().GetByID(ctx, nil, *req.RoleID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrRoleReferenceInvalid
			}
			return nil, fmt.Errorf("failed to check role: %w", err)
		}
		user.RoleID = *req.RoleID
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.CareerID != nil {
		user.CareerID = req.CareerID
	}
	if req.Password != nil {
		if verrs := s.validator.ValidatePassword(*req.Password); verrs != nil {
			return nil, verrs
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
		user.NeedsPasswordChange = false
	}

	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		switch {
		case repositories.IsDuplicateKeyError(err):
			return nil, ErrEmailTaken
		case repositories.IsForeignKeyError(err):
			return nil, ErrCareerReferenceInvalid
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	// A role or credential change must not keep serving a stale subject.
	s.gate.Invalidate(ctx, user.ID)

	updated, err := s.repo.User().GetByID(ctx, nil, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}

	s.logger.Info("user updated", "user_id", id, "updated_by", callerID)
	return updated, nil
}

func (s *userService) Delete(ctx context.Context, callerID, id string) error {
	// Collection-scoped check: self-ownership must not allow account
	// deletion, only an explicit grant or the admin bypass does.
	if err := s.gate.Authorize(ctx, callerID, authz.ActionDelete, authz.ResourceUser, nil); err != nil {
		return s.mapAuthzError(err, callerID, id, "delete")
	}

	if err := s.repo.User().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.gate.Invalidate(ctx, id)
	s.logger.Info("user deleted", "user_id", id, "deleted_by", callerID)
	return nil
}

// UpdateImage stores an avatar and persists its public URL on the user row.
func (s *userService) UpdateImage(ctx context.Context, callerID, id, contentType string, size int64, r io.Reader) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.gate.Authorize(ctx, callerID, authz.ActionUpdate, authz.ResourceUser, user); err != nil {
		return nil, s.mapAuthzError(err, callerID, id, "update")
	}

	url, err := s.store.Save(ctx, avatarPrefix, contentType, size, r)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedContentType) {
			return nil, validator.ValidationErrors{{
				Field:   "image",
				Message: "must be a jpeg, png, gif or webp image",
				Value:   contentType,
				Rule:    "image_type",
			}}
		}
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	user.Image = &url
	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to persist avatar: %w", err)
	}

	s.logger.Info("user avatar updated", "user_id", id, "updated_by", callerID)
	return user, nil
}

func (s *userService) mapAuthzError(err error, callerID, resourceID, action string) error {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		return NewPermissionError(callerID, authz.ResourceUser, resourceID, action, "requires user management rights")
	case errors.Is(err, authz.ErrSubjectNotFound):
		return ErrUserNotFound
	}
	return err
}
