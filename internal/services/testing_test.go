package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ISTS-2025/project-repository-service/internal/auth"
	"github.com/ISTS-2025/project-repository-service/internal/authz"
	"github.com/ISTS-2025/project-repository-service/internal/cache"
	"github.com/ISTS-2025/project-repository-service/internal/config"
	"github.com/ISTS-2025/project-repository-service/internal/events"
	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
	"github.com/ISTS-2025/project-repository-service/internal/repositories/postgres"
	"github.com/ISTS-2025/project-repository-service/internal/storage"
	"github.com/ISTS-2025/project-repository-service/internal/validator"
	"github.com/ISTS-2025/project-repository-service/pkg"
)

// testEnv wires the service layer against an in-memory database.
type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	gate      authz.Authorizer
	publisher *events.MockEventPublisher
	tokens    *auth.TokenManager
	cfg       *config.Config

	auth     AuthService
	projects ProjectService
	skills   SkillService
	users    UserService
	careers  CareerService
	periods  PeriodService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, pkg.Migrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validator.New()

	gate := authz.NewDefaultGate(authz.NewSubjectResolver(repo, cache.NewCacheHelper(nil, cache.SubjectCacheConfig.Prefix)))
	publisher := events.NewMockEventPublisher(logger)
	tokens := auth.NewTokenManager(config.JWTConfig{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 2 * time.Hour,
	})
	cfg := &config.Config{FrontendURL: "http://localhost:5173"}
	store := storage.NewLocalStorage(config.UploadConfig{Dir: t.TempDir(), URLPrefix: "/uploads"})
	projectCache := cache.NewCacheHelper(nil, cache.ProjectCacheConfig.Prefix)

	return &testEnv{
		db:        db,
		repo:      repo,
		gate:      gate,
		publisher: publisher,
		tokens:    tokens,
		cfg:       cfg,

		auth:     NewAuthService(repo, logger, v, tokens, publisher, gate, cfg),
		projects: NewProjectService(repo, db, logger, v, gate, projectCache),
		skills:   NewSkillService(repo, db, logger, v, gate),
		users:    NewUserService(repo, db, logger, v, gate, store),
		careers:  NewCareerService(repo, db, logger, v, gate),
		periods:  NewPeriodService(repo, db, logger, v, gate),
	}
}

// seed installs the role/permission/career catalogs.
func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	require.NoError(t, Seed(context.Background(), e.repo, slog.New(slog.NewTextHandler(io.Discard, nil))))
}

// registerUser self-registers a reader account and returns it.
func (e *testEnv) registerUser(t *testing.T, email string) *models.User {
	t.Helper()

	resp, err := e.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "Password1",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return resp.User
}

// createUserWithRole inserts a user bound to a seeded role by name.
func (e *testEnv) createUserWithRole(t *testing.T, email, roleName string) *models.User {
	t.Helper()

	role, err := e.repo.Role().GetByName(context.Background(), nil, roleName)
	require.NoError(t, err)

	hash, err := auth.HashPassword("Password1")
	require.NoError(t, err)

	user := &models.User{
		Email:    email,
		Password: hash,
		Name:     "Test " + roleName,
		RoleID:   role.ID,
	}
	require.NoError(t, e.repo.User().Create(context.Background(), nil, user))
	return user
}

func (e *testEnv) createAdmin(t *testing.T) *models.User {
	return e.createUserWithRole(t, "admin@example.com", models.RoleNameAdmin)
}

func (e *testEnv) createSkill(t *testing.T, callerID, name string) *models.Skill {
	t.Helper()

	skill, err := e.skills.Create(context.Background(), callerID, CreateSkillRequest{Name: name})
	require.NoError(t, err)
	return skill
}
