package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ISTS-2025/project-repository-service/internal/auth"
	"github.com/ISTS-2025/project-repository-service/internal/events"
	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/validator"
)

func TestRegisterAssignsReaderRole(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	resp, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:    "Student@Example.com",
		Password: "Password1",
		Name:     "Student",
	})
	require.NoError(t, err)

	assert.Equal(t, "student@example.com", resp.User.Email)
	assert.Equal(t, models.RoleNameReader, resp.User.Role.Name)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Empty(t, resp.RefreshToken)

	claims, err := env.tokens.VerifyToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRegisterWithoutSeededReaderRoleIsFatal(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:    "student@example.com",
		Password: "Password1",
		Name:     "Student",
	})
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	env.registerUser(t, "student@example.com")

	_, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:    "student@example.com",
		Password: "Password1",
		Name:     "Other",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoNumbers"} {
		_, err := env.auth.Register(context.Background(), RegisterRequest{
			Email:    "student@example.com",
			Password: password,
			Name:     "Student",
		})

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs, "password %q should be rejected", password)
	}
}

func TestRegisterEnforcesDomainWhitelist(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	env.cfg.AllowedEmailDomains = []string{"ists.edu.ec"}

	restricted := NewAuthService(env.repo, slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator.New(), env.tokens, env.publisher, env.gate, env.cfg)

	_, err := restricted.Register(context.Background(), RegisterRequest{
		Email:    "student@gmail.com",
		Password: "Password1",
		Name:     "Student",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	_, err = restricted.Register(context.Background(), RegisterRequest{
		Email:    "student@ists.edu.ec",
		Password: "Password1",
		Name:     "Student",
	})
	assert.NoError(t, err)
}

func TestRegisterAdminRequiresRights(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	reader := env.registerUser(t, "reader@example.com")
	admin := env.createAdmin(t)

	career, err := env.careers.Create(context.Background(), admin.ID, CreateCareerRequest{Name: "Software"})
	require.NoError(t, err)

	teacherRole, err := env.repo.Role().GetByName(context.Background(), nil, models.RoleNameTeacher)
	require.NoError(t, err)

	req := RegisterAdminRequest{
		Email:    "teacher@example.com",
		Password: "Password1",
		Name:     "Teacher",
		RoleID:   teacherRole.ID,
		CareerID: career.ID,
	}

	_, err = env.auth.RegisterAdmin(context.Background(), reader.ID, req)
	assert.True(t, IsPermissionError(err))

	user, err := env.auth.RegisterAdmin(context.Background(), admin.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleNameTeacher, user.Role.Name)
	assert.True(t, user.NeedsPasswordChange)
}

func TestRegisterAdminUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	admin := env.createAdmin(t)

	career, err := env.careers.Create(context.Background(), admin.ID, CreateCareerRequest{Name: "Software"})
	require.NoError(t, err)

	_, err = env.auth.RegisterAdmin(context.Background(), admin.ID, RegisterAdminRequest{
		Email:    "teacher@example.com",
		Password: "Password1",
		Name:     "Teacher",
		RoleID:   "3b4c1b57-0000-4000-8000-000000000000",
		CareerID: career.ID,
	})
	assert.ErrorIs(t, err, ErrRoleReferenceInvalid)
}

func TestLoginFailsUniformly(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	env.registerUser(t, "student@example.com")

	_, unknownErr := env.auth.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "Password1",
	})
	_, wrongErr := env.auth.Login(context.Background(), LoginRequest{
		Email:    "student@example.com",
		Password: "WrongPassword1",
	})

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginIssuesTokenPair(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := env.registerUser(t, "student@example.com")

	resp, err := env.auth.Login(context.Background(), LoginRequest{
		Email:    "student@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := env.tokens.VerifyToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	_, err := env.auth.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestForgotPasswordStoresTokenAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := env.registerUser(t, "student@example.com")

	require.NoError(t, env.auth.ForgotPassword(context.Background(), "student@example.com"))

	stored, err := env.repo.User().GetByID(context.Background(), nil, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	require.NotNil(t, stored.ResetTokenExpiry)
	assert.Len(t, *stored.ResetToken, 64)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventPasswordResetRequested, published[0].Type)

	var data events.PasswordResetRequested
	require.NoError(t, json.Unmarshal(published[0].Data, &data))
	assert.Equal(t, user.Email, data.Email)
	assert.Contains(t, data.ResetURL, "/reset-password/"+*stored.ResetToken)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	err := env.auth.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, env.publisher.GetPublishedEvents())
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	user := env.registerUser(t, "student@example.com")

	require.NoError(t, env.auth.ForgotPassword(context.Background(), "student@example.com"))
	stored, err := env.repo.User().GetByID(context.Background(), nil, user.ID)
	require.NoError(t, err)
	token := *stored.ResetToken

	require.NoError(t, env.auth.ResetPassword(context.Background(), token, "NewPassword1"))

	_, err = env.auth.Login(context.Background(), LoginRequest{
		Email:    "student@example.com",
		Password: "NewPassword1",
	})
	assert.NoError(t, err)

	err = env.auth.ResetPassword(context.Background(), token, "AnotherPassword1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetPasswordUnknownToken(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	err := env.auth.ResetPassword(context.Background(), "deadbeef", "NewPassword1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}
