package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ISTS-2025/project-repository-service/internal/auth"
	"github.com/ISTS-2025/project-repository-service/internal/services"
	"github.com/ISTS-2025/project-repository-service/internal/utils"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	projectHandler *ProjectHandler
	skillHandler   *SkillHandler
	userHandler    *UserHandler
	careerHandler  *CareerHandler
	periodHandler  *PeriodHandler
	authMiddleware *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	tokens *auth.TokenManager,
) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger),
		projectHandler: NewProjectHandler(serviceManager.Project(), logger),
		skillHandler:   NewSkillHandler(serviceManager.Skill(), logger),
		userHandler:    NewUserHandler(serviceManager.User(), serviceManager.Auth(), logger),
		careerHandler:  NewCareerHandler(serviceManager.Career(), logger),
		periodHandler:  NewPeriodHandler(serviceManager.Period(), logger),
		authMiddleware: NewAuthMiddleware(tokens),
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	required := hm.authMiddleware.Required()
	optional := hm.authMiddleware.Optional()

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", hm.authHandler.Register)
			authRoutes.POST("/register-admin", required, hm.authHandler.RegisterAdmin)
			authRoutes.POST("/login", hm.authHandler.Login)
			authRoutes.POST("/refresh-token", hm.authHandler.Refresh)
			authRoutes.POST("/forgot-password", hm.authHandler.ForgotPassword)
			authRoutes.POST("/reset-password/:token", hm.authHandler.ResetPassword)
		}

		projects := api.Group("/projects")
		{
			// Listing and reads stay open to anonymous callers; visibility
			// of pending projects is decided in the service.
			projects.GET("", optional, hm.projectHandler.List)
			projects.GET("/export", required, hm.projectHandler.Export)
			projects.GET("/skill/:skillId", optional, hm.projectHandler.ListBySkill)
			projects.GET("/:id", optional, hm.projectHandler.Get)

			projects.POST("", required, hm.projectHandler.Create)
			projects.PATCH("/:id", required, hm.projectHandler.Update)
			projects.DELETE("/:id", required, hm.projectHandler.Delete)
		}

		skills := api.Group("/skills")
		{
			skills.GET("", hm.skillHandler.List)
			skills.GET("/project/:projectId", hm.skillHandler.ListByProject)
			skills.GET("/:id", hm.skillHandler.Get)

			skills.POST("", required, hm.skillHandler.Create)
			skills.PATCH("/:id", required, hm.skillHandler.Update)
			skills.DELETE("/:id", required, hm.skillHandler.Delete)
		}
		api.POST("/project-skills", required, hm.skillHandler.Link)

		users := api.Group("/users", required)
		{
			users.GET("", hm.userHandler.List)
			users.GET("/:id", hm.userHandler.Get)
			users.POST("", hm.userHandler.Create)
			users.PATCH("/:id", hm.userHandler.Update)
			users.PATCH("/:id/image", hm.userHandler.UpdateImage)
			users.DELETE("/:id", hm.userHandler.Delete)
		}

		careers := api.Group("/careers")
		{
			careers.GET("", hm.careerHandler.List)
			careers.GET("/:id", hm.careerHandler.Get)
			careers.POST("", required, hm.careerHandler.Create)
			careers.PATCH("/:id", required, hm.careerHandler.Update)
			careers.DELETE("/:id", required, hm.careerHandler.Delete)
		}

		periods := api.Group("/period")
		{
			periods.GET("", hm.periodHandler.List)
			periods.POST("", required, hm.periodHandler.Create)
			periods.DELETE("/:id", required, hm.periodHandler.Delete)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "project-repository-service",
		})
	})
}
