package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soa-tours/platform/internal/http/response"
	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/ctxutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/services"
)

type TourHandler struct {
	log         *logger.Logger
	tourService services.TourService
}

func NewTourHandler(log *logger.Logger, tourService services.TourService) *TourHandler {
	return &TourHandler{log: log.With("handler", "TourHandler"), tourService: tourService}
}

func (h *TourHandler) Create(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	var input services.TourInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validation("invalid tour payload"))
		return
	}
	tour, err := h.tourService.Create(c.Request.Context(), requestData.UserID, &input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, tour)
}

func (h *TourHandler) GetByID(c *gin.Context) {
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid tour id"))
		return
	}
	tour, err := h.tourService.GetByID(c.Request.Context(), tourID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, tour)
}

func (h *TourHandler) List(c *gin.Context) {
	filter := repos.TourFilter{
		Status:     c.Query("status"),
		Difficulty: c.Query("difficulty"),
	}
	if author := c.Query("author_id"); author != "" {
		authorID, err := strconv.ParseInt(author, 10, 64)
		if err != nil {
			response.RespondError(c, apierr.Validation("invalid author_id"))
			return
		}
		filter.AuthorID = authorID
	}
	tours, err := h.tourService.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tours": tours, "count": len(tours)})
}

func (h *TourHandler) Update(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid tour id"))
		return
	}
	var input services.TourInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validation("invalid tour payload"))
		return
	}
	tour, err := h.tourService.Update(c.Request.Context(), tourID, requestData.UserID, &input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, tour)
}

func (h *TourHandler) Publish(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid tour id"))
		return
	}
	tour, err := h.tourService.Publish(c.Request.Context(), tourID, requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, tour)
}

func (h *TourHandler) Archive(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid tour id"))
		return
	}
	tour, err := h.tourService.Archive(c.Request.Context(), tourID, requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, tour)
}

func (h *TourHandler) AddKeypoint(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid tour id"))
		return
	}
	var input services.KeypointInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validation("invalid keypoint payload"))
		return
	}
	tour, err := h.tourService.AddKeypoint(c.Request.Context(), tourID, requestData.UserID, &input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, tour)
}

func (h *TourHandler) UpdateKeypoint(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid tour id"))
		return
	}
	order, err := strconv.Atoi(c.Param("order"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid keypoint order"))
		return
	}
	var input services.KeypointInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validation("invalid keypoint payload"))
		return
	}
	tour, err := h.tourService.UpdateKeypoint(c.Request.Context(), tourID, requestData.UserID, order, &input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, tour)
}

func (h *TourHandler) RemoveKeypoint(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid tour id"))
		return
	}
	order, err := strconv.Atoi(c.Param("order"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid keypoint order"))
		return
	}
	tour, err := h.tourService.RemoveKeypoint(c.Request.Context(), tourID, requestData.UserID, order)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, tour)
}

func (h *TourHandler) SetTransportTime(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid tour id"))
		return
	}
	var input services.TransportTimeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validation("invalid transport time payload"))
		return
	}
	tour, err := h.tourService.SetTransportTime(c.Request.Context(), tourID, requestData.UserID, &input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, tour)
}

func (h *TourHandler) AddReview(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid tour id"))
		return
	}
	var input services.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validation("invalid review payload"))
		return
	}
	tour, err := h.tourService.AddReview(c.Request.Context(), tourID, requestData.UserID, &input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, tour)
}
