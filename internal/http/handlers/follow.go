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

type FollowHandler struct {
	log           *logger.Logger
	followService services.FollowService
}

func NewFollowHandler(log *logger.Logger, followService services.FollowService) *FollowHandler {
	return &FollowHandler{log: log.With("handler", "FollowHandler"), followService: followService}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	followingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid user id"))
		return
	}
	follow, err := h.followService.Follow(c.Request.Context(), requestData.UserID, followingID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, follow)
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	followingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid user id"))
		return
	}
	if err := h.followService.Unfollow(c.Request.Context(), requestData.UserID, followingID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "unfollowed"})
}

func (h *FollowHandler) Following(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	follows, err := h.followService.Following(c.Request.Context(), requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"following": follows, "count": len(follows)})
}

func (h *FollowHandler) Followers(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	followers, err := h.followService.Followers(c.Request.Context(), requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"followers": followers, "count": len(followers)})
}

func (h *FollowHandler) IsFollowing(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	followingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid user id"))
		return
	}
	following, err := h.followService.IsFollowing(c.Request.Context(), requestData.UserID, followingID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"is_following": following})
}

// CanComment is the internal endpoint the content service calls before
// accepting a blog comment. It is not exposed through the gateway.
func (h *FollowHandler) CanComment(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid user_id"))
		return
	}
	authorID, err := strconv.ParseInt(c.Query("author_id"), 10, 64)
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid author_id"))
		return
	}
	permission, err := h.followService.CanComment(c.Request.Context(), userID, authorID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, permission)
}
