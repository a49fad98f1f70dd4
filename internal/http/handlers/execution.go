package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soa-tours/platform/internal/http/response"
	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/ctxutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/services"
)

type ExecutionHandler struct {
	log              *logger.Logger
	executionService services.ExecutionService
}

func NewExecutionHandler(log *logger.Logger, executionService services.ExecutionService) *ExecutionHandler {
	return &ExecutionHandler{log: log.With("handler", "ExecutionHandler"), executionService: executionService}
}

type startExecutionRequest struct {
	TourID string `json:"tour_id" binding:"required"`
}

func (h *ExecutionHandler) Start(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	var req startExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("tour_id is required"))
		return
	}
	tourID, err := uuid.Parse(req.TourID)
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid tour_id"))
		return
	}
	execution, err := h.executionService.StartExecution(c.Request.Context(), requestData.UserID, tourID)
	if err != nil {
		// A conflict still carries the existing execution so clients can
		// resume instead of guessing.
		if ae := apierr.As(err); ae != nil && execution != nil {
			c.JSON(ae.Status, gin.H{
				"error":              gin.H{"message": ae.Err.Error(), "code": ae.Code},
				"existing_execution": execution,
			})
			return
		}
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, execution)
}

func (h *ExecutionHandler) Check(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	result, err := h.executionService.CheckProximity(c.Request.Context(), requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (h *ExecutionHandler) Abandon(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	executionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid execution id"))
		return
	}
	execution, err := h.executionService.AbandonExecution(c.Request.Context(), requestData.UserID, executionID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, execution)
}

func (h *ExecutionHandler) List(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	executions, err := h.executionService.ListExecutions(c.Request.Context(), requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"executions": executions, "count": len(executions)})
}

func (h *ExecutionHandler) GetByID(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	executionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid execution id"))
		return
	}
	execution, err := h.executionService.GetExecution(c.Request.Context(), requestData.UserID, executionID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, execution)
}

func (h *ExecutionHandler) Nearby(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	nearby, err := h.executionService.NearbyKeypoints(c.Request.Context(), requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"nearby_keypoints": nearby, "count": len(nearby)})
}
