package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ISTS-2025/project-repository-service/internal/auth"
	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/services"
	"github.com/ISTS-2025/project-repository-service/internal/utils"
	"github.com/ISTS-2025/project-repository-service/internal/validator"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data any              `json:"data"`
	Meta *models.PageMeta `json:"meta,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Info(msg, args...)
}

func (h BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Error(msg, append(args, "error", err)...)
}

// currentUserID returns the authenticated caller id, empty for anonymous
// requests on optional-auth routes.
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// parsePagination binds page/limit/order query parameters. On a malformed
// value it writes the 400 itself and reports false.
func (h BaseHandler) parsePagination(c *gin.Context) (models.Pagination, bool) {
	var p models.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid pagination parameters",
			Details: err.Error(),
		})
		return p, false
	}
	return p, true
}

// handleServiceError maps service-layer errors onto the HTTP taxonomy.
// Anything unmapped is logged and surfaced as a generic server fault.
func (h BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: verrs,
		})
		return
	}

	if services.IsPermissionError(err) {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "You are not allowed to perform this action"})
		return
	}

	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrSkillNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCareerNotFound),
		errors.Is(err, services.ErrPeriodNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrSkillNameTaken),
		errors.Is(err, services.ErrPeriodNameTaken),
		errors.Is(err, services.ErrProjectSkillExists):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrCareerReferenceInvalid),
		errors.Is(err, services.ErrRoleReferenceInvalid),
		errors.Is(err, services.ErrSkillReferenceInvalid),
		errors.Is(err, services.ErrResetTokenInvalid):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})

	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
