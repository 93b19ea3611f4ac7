package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ISTS-2025/project-repository-service/internal/auth"
	"github.com/ISTS-2025/project-repository-service/internal/authz"
	"github.com/ISTS-2025/project-repository-service/internal/config"
	"github.com/ISTS-2025/project-repository-service/internal/events"
	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
	"github.com/ISTS-2025/project-repository-service/internal/validator"
)

const resetTokenTTL = time.Hour

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
	publisher events.EventPublisher
	gate      authz.Authorizer

	frontendURL     string
	allowedDomains  []string
	allowedSuffixes []string
}

func NewAuthService(
	repo repositories.Repository,
	logger *slog.Logger,
	v *validator.Validator,
	tokens *auth.TokenManager,
	publisher events.EventPublisher,
	gate authz.Authorizer,
	cfg *config.Config,
) AuthService {
	return &authService{
		repo:            repo,
		logger:          logger,
		validator:       v,
		tokens:          tokens,
		publisher:       publisher,
		gate:            gate,
		frontendURL:     strings.TrimSuffix(cfg.FrontendURL, "/"),
		allowedDomains:  cfg.AllowedEmailDomains,
		allowedSuffixes: cfg.AllowedEmailSuffixes,
	}
}

// Register creates a self-service account. The client never picks a role:
// every self-registered user gets the default reader role, and a missing
// reader role row is a deployment fault, not a user error.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if verrs := s.validator.ValidatePassword(req.Password); verrs != nil {
		return nil, verrs
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if verrs := s.validator.ValidateEmailDomain(email, s.allowedDomains, s.allowedSuffixes); verrs != nil {
		return nil, verrs
	}

	role, err := s.repo.Role().GetByName(ctx, nil, models.RoleNameReader)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewConfigurationError("roles", "default reader role is not seeded")
		}
		return nil, fmt.Errorf("failed to load default role: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: hash,
		Name:     req.Name,
		RoleID:   role.ID,
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.Role = *role

	accessToken, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", role.Name)
	return &AuthResponse{User: user, AccessToken: accessToken}, nil
}

// RegisterAdmin provisions an account with an explicit role and career.
// The new user must change the issued password on first login.
func (s *authService) RegisterAdmin(ctx context.Context, callerID string, req RegisterAdminRequest) (*models.User, error) {
	if err := s.gate.Authorize(ctx, callerID, authz.ActionCreate, authz.ResourceUser, nil); err != nil {
		if errors.Is(err, authz.ErrUnauthorized) {
			return nil, NewPermissionError(callerID, authz.ResourceUser, "", "create", "requires user management rights")
		}
		return nil, err
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if verrs := s.validator.ValidatePassword(req.Password); verrs != nil {
		return nil, verrs
	}

	if _, err := s.repo.Role().GetByID(ctx, nil, req.RoleID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRoleReferenceInvalid
		}
		return nil, fmt.Errorf("failed to check role: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:               strings.ToLower(strings.TrimSpace(req.Email)),
		Password:            hash,
		Name:                req.Name,
		RoleID:              req.RoleID,
		CareerID:            &req.CareerID,
		NeedsPasswordChange: true,
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		switch {
		case repositories.IsDuplicateKeyError(err):
			return nil, ErrEmailTaken
		case repositories.IsForeignKeyError(err):
			return nil, ErrCareerReferenceInvalid
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	created, err := s.repo.User().GetByID(ctx, nil, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload created user: %w", err)
	}

	s.logger.Info("user provisioned", "user_id", created.ID, "issued_by", callerID)
	return created, nil
}

// Login verifies credentials and issues the token pair. Unknown email and
// wrong password produce the same client-facing error.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, nil, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.logger.Debug("login failed, unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Debug("login failed, wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh reissues the token pair. Every verification failure collapses to
// the same invalid-token error.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.tokens.VerifyToken(refreshToken)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	user, err := s.repo.User().GetByID(ctx, nil, claims.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, auth.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ForgotPassword stores a single-use reset token on the user row and emits
// the notification event. A failed publish surfaces as a server fault but
// the persisted token stays valid; the user may simply retry.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.User().GetByEmail(ctx, nil, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := auth.GenerateResetToken()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(resetTokenTTL)

	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	event, err := events.NewEvent(events.EventPasswordResetRequested, events.PasswordResetRequested{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		ResetURL: fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token),
	})
	if err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, events.TopicEmailNotifications, event); err != nil {
		s.logger.Error("failed to publish password reset event", "user_id", user.ID, "error", err)
		return fmt.Errorf("reset token stored but notification could not be sent: %w", err)
	}

	s.logger.Info("password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword redeems a reset token. The token is cleared on success so
// it cannot be replayed.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if verrs := s.validator.ValidatePassword(newPassword); verrs != nil {
		return verrs
	}

	user, err := s.repo.User().GetByResetToken(ctx, nil, token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hash
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	user.NeedsPasswordChange = false
	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.gate.Invalidate(ctx, user.ID)
	s.logger.Info("password reset completed", "user_id", user.ID)
	return nil
}
