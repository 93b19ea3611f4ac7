package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ISTS-2025/project-repository-service/internal/services"
	"github.com/ISTS-2025/project-repository-service/internal/utils"
)

type PeriodHandler struct {
	BaseHandler
	periodService services.PeriodService
}

func NewPeriodHandler(periodService services.PeriodService, logger utils.Logger) *PeriodHandler {
	return &PeriodHandler{
		BaseHandler:   NewBaseHandler(logger),
		periodService: periodService,
	}
}

func (h *PeriodHandler) List(c *gin.Context) {
	p, ok := h.parsePagination(c)
	if !ok {
		return
	}

	periods, meta, err := h.periodService.List(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: periods, Meta: &meta})
}

func (h *PeriodHandler) Create(c *gin.Context) {
	var req services.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	h.LogRequest(c, "Creating period", "name", req.Name)

	period, err := h.periodService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, period)
}

func (h *PeriodHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Deleting period", "period_id", id)

	if err := h.periodService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
