package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ISTS-2025/project-repository-service/internal/services"
	"github.com/ISTS-2025/project-repository-service/internal/utils"
)

type CareerHandler struct {
	BaseHandler
	careerService services.CareerService
}

func NewCareerHandler(careerService services.CareerService, logger utils.Logger) *CareerHandler {
	return &CareerHandler{
		BaseHandler:   NewBaseHandler(logger),
		careerService: careerService,
	}
}

func (h *CareerHandler) List(c *gin.Context) {
	p, ok := h.parsePagination(c)
	if !ok {
		return
	}

	careers, meta, err := h.careerService.List(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: careers, Meta: &meta})
}

func (h *CareerHandler) Get(c *gin.Context) {
	career, err := h.careerService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, career)
}

func (h *CareerHandler) Create(c *gin.Context) {
	var req services.CreateCareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	h.LogRequest(c, "Creating career", "name", req.Name)

	career, err := h.careerService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, career)
}

func (h *CareerHandler) Update(c *gin.Context) {
	var req services.UpdateCareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	id := c.Param("id")
	h.LogRequest(c, "Updating career", "career_id", id)

	career, err := h.careerService.Update(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, career)
}

func (h *CareerHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Deleting career", "career_id", id)

	if err := h.careerService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
