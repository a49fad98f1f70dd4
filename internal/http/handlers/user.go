package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soa-tours/platform/internal/http/response"
	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/ctxutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), userService: userService}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users, "count": len(users)})
}

func (h *UserHandler) GetByID(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid user id"))
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, user)
}

func (h *UserHandler) GetMyProfile(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	profile, err := h.userService.GetProfile(c.Request.Context(), requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

func (h *UserHandler) UpdateMyProfile(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	var update services.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.RespondError(c, apierr.Validation("invalid profile payload"))
		return
	}
	profile, err := h.userService.UpdateProfile(c.Request.Context(), requestData.UserID, &update)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

func (h *UserHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.userService.ListProfiles(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profiles": profiles, "count": len(profiles)})
}
