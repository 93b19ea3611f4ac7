package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ISTS-2025/project-repository-service/internal/services"
	"github.com/ISTS-2025/project-repository-service/internal/utils"
)

type SkillHandler struct {
	BaseHandler
	skillService services.SkillService
}

func NewSkillHandler(skillService services.SkillService, logger utils.Logger) *SkillHandler {
	return &SkillHandler{
		BaseHandler:  NewBaseHandler(logger),
		skillService: skillService,
	}
}

func (h *SkillHandler) List(c *gin.Context) {
	p, ok := h.parsePagination(c)
	if !ok {
		return
	}

	skills, meta, err := h.skillService.List(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: skills, Meta: &meta})
}

func (h *SkillHandler) Get(c *gin.Context) {
	skill, err := h.skillService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, skill)
}

func (h *SkillHandler) ListByProject(c *gin.Context) {
	skills, err := h.skillService.ListByProject(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: skills})
}

func (h *SkillHandler) Create(c *gin.Context) {
	var req services.CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	h.LogRequest(c, "Creating skill", "name", req.Name)

	skill, err := h.skillService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, skill)
}

func (h *SkillHandler) Update(c *gin.Context) {
	var req services.UpdateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	id := c.Param("id")
	h.LogRequest(c, "Updating skill", "skill_id", id)

	skill, err := h.skillService.Update(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, skill)
}

func (h *SkillHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Deleting skill", "skill_id", id)

	if err := h.skillService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Link attaches a skill to a project.
func (h *SkillHandler) Link(c *gin.Context) {
	var req services.LinkSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	h.LogRequest(c, "Linking skill to project", "project_id", req.ProjectID, "skill_id", req.SkillID)

	link, err := h.skillService.LinkToProject(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}
