package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/soa-tours/platform/internal/http/response"
	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/ctxutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/services"
)

type PositionHandler struct {
	log             *logger.Logger
	positionService services.PositionService
}

func NewPositionHandler(log *logger.Logger, positionService services.PositionService) *PositionHandler {
	return &PositionHandler{log: log.With("handler", "PositionHandler"), positionService: positionService}
}

func (h *PositionHandler) Get(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	position, err := h.positionService.Get(c.Request.Context(), requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, position)
}

func (h *PositionHandler) Set(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	var input services.PositionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validation("invalid position payload"))
		return
	}
	position, err := h.positionService.Set(c.Request.Context(), requestData.UserID, &input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, position)
}

func (h *PositionHandler) Clear(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	if err := h.positionService.Clear(c.Request.Context(), requestData.UserID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "position cleared"})
}

func (h *PositionHandler) List(c *gin.Context) {
	positions, err := h.positionService.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"positions": positions, "count": len(positions)})
}
