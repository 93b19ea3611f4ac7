package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/services"
	"github.com/ISTS-2025/project-repository-service/internal/utils"
)

type ProjectHandler struct {
	BaseHandler
	projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService, logger utils.Logger) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler: NewBaseHandler(logger),
		projectService: projectService,
	}
}

func (h *ProjectHandler) List(c *gin.Context) {
	p, ok := h.parsePagination(c)
	if !ok {
		return
	}

	var filters services.ProjectListFilters
	if status := c.Query("status"); status != "" {
		s := models.ProjectStatus(status)
		filters.Status = &s
	}
	if careerID := c.Query("career_id"); careerID != "" {
		filters.CareerID = &careerID
	}
	if createdBy := c.Query("created_by"); createdBy != "" {
		filters.CreatedBy = &createdBy
	}

	projects, meta, err := h.projectService.List(c.Request.Context(), currentUserID(c), filters, p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: projects, Meta: &meta})
}

func (h *ProjectHandler) ListBySkill(c *gin.Context) {
	p, ok := h.parsePagination(c)
	if !ok {
		return
	}

	projects, meta, err := h.projectService.ListBySkill(c.Request.Context(), currentUserID(c), c.Param("skillId"), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: projects, Meta: &meta})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectService.GetByID(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	h.LogRequest(c, "Creating project", "name", req.Name)

	project, err := h.projectService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	id := c.Param("id")
	h.LogRequest(c, "Updating project", "project_id", id)

	project, err := h.projectService.Update(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Deleting project", "project_id", id)

	if err := h.projectService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Export streams the project catalog as an xlsx attachment.
func (h *ProjectHandler) Export(c *gin.Context) {
	h.LogRequest(c, "Exporting projects")

	data, err := h.projectService.Export(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("projects-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
