package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"gorm.io/gorm"

	"github.com/ISTS-2025/project-repository-service/internal/auth"
	"github.com/ISTS-2025/project-repository-service/internal/authz"
	"github.com/ISTS-2025/project-repository-service/internal/cache"
	"github.com/ISTS-2025/project-repository-service/internal/config"
	"github.com/ISTS-2025/project-repository-service/internal/events"
	"github.com/ISTS-2025/project-repository-service/internal/mailer"
	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
	"github.com/ISTS-2025/project-repository-service/internal/storage"
	"github.com/ISTS-2025/project-repository-service/internal/validator"
)

// Dependencies carries everything the service layer is built from.
type Dependencies struct {
	DB           *gorm.DB
	Repo         repositories.Repository
	Logger       *slog.Logger
	Validator    *validator.Validator
	Gate         authz.Authorizer
	Tokens       *auth.TokenManager
	Publisher    events.EventPublisher
	Subscriber   message.Subscriber
	Storage      storage.Storage
	ProjectCache *cache.CacheHelper
	Config       *config.Config
}

type serviceManager struct {
	deps Dependencies

	authService    AuthService
	projectService ProjectService
	skillService   SkillService
	userService    UserService
	careerService  CareerService
	periodService  PeriodService

	dispatcher *mailer.Dispatcher

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(deps Dependencies) ServiceManager {
	return &serviceManager{deps: deps}
}

// Initialize verifies seed preconditions, builds every service, and starts
// the mail dispatcher. A missing default reader role is fatal: the
// registration path cannot work without it.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.deps.Logger.Info("Initializing service manager")

	if _, err := sm.deps.Repo.Role().GetByName(ctx, nil, models.RoleNameReader); err != nil {
		if repositories.IsNotFoundError(err) {
			return NewConfigurationError("roles", "default reader role is not seeded, run with -seed first")
		}
		return fmt.Errorf("failed to verify seed roles: %w", err)
	}

	var m mailer.Mailer
	if sm.deps.Config.SMTP.Host != "" {
		m = mailer.NewSMTPMailer(sm.deps.Config.SMTP, sm.deps.Logger)
	} else {
		m = mailer.NewLogMailer(sm.deps.Logger)
	}

	sm.dispatcher = mailer.NewDispatcher(sm.deps.Subscriber, m, sm.deps.Logger)
	if err := sm.dispatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start mail dispatcher: %w", err)
	}

	sm.authService = NewAuthService(
		sm.deps.Repo, sm.deps.Logger, sm.deps.Validator,
		sm.deps.Tokens, sm.deps.Publisher, sm.deps.Gate, sm.deps.Config)
	sm.projectService = NewProjectService(
		sm.deps.Repo, sm.deps.DB, sm.deps.Logger, sm.deps.Validator,
		sm.deps.Gate, sm.deps.ProjectCache)
	sm.skillService = NewSkillService(
		sm.deps.Repo, sm.deps.DB, sm.deps.Logger, sm.deps.Validator, sm.deps.Gate)
	sm.userService = NewUserService(
		sm.deps.Repo, sm.deps.DB, sm.deps.Logger, sm.deps.Validator,
		sm.deps.Gate, sm.deps.Storage)
	sm.careerService = NewCareerService(
		sm.deps.Repo, sm.deps.DB, sm.deps.Logger, sm.deps.Validator, sm.deps.Gate)
	sm.periodService = NewPeriodService(
		sm.deps.Repo, sm.deps.DB, sm.deps.Logger, sm.deps.Validator, sm.deps.Gate)

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized")
	return nil
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) Project() ProjectService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.projectService
}

func (sm *serviceManager) Skill() SkillService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.skillService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.userService
}

func (sm *serviceManager) Career() CareerService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.careerService
}

func (sm *serviceManager) Period() PeriodService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.periodService
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

// Shutdown stops the dispatcher and closes the event publisher. The
// repository is owned by its manager and closed by main.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if sm.dispatcher != nil {
		sm.dispatcher.Stop()
	}
	if err := sm.deps.Publisher.Close(); err != nil {
		sm.deps.Logger.Error("Failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down")
	return nil
}
