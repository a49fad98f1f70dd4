package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soa-tours/platform/internal/http/response"
	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/ctxutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/services"
)

type BlogHandler struct {
	log         *logger.Logger
	blogService services.BlogService
}

func NewBlogHandler(log *logger.Logger, blogService services.BlogService) *BlogHandler {
	return &BlogHandler{log: log.With("handler", "BlogHandler"), blogService: blogService}
}

func (h *BlogHandler) Create(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	var input services.BlogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validation("invalid blog payload"))
		return
	}
	blog, err := h.blogService.Create(c.Request.Context(), requestData.UserID, &input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, blog)
}

func (h *BlogHandler) GetByID(c *gin.Context) {
	blogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid blog id"))
		return
	}
	blog, err := h.blogService.GetByID(c.Request.Context(), blogID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, blog)
}

func (h *BlogHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	result, err := h.blogService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"blogs": result.Blogs, "total": result.Total})
}

func (h *BlogHandler) Update(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	blogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid blog id"))
		return
	}
	var input services.BlogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validation("invalid blog payload"))
		return
	}
	blog, err := h.blogService.Update(c.Request.Context(), blogID, requestData.UserID, &input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, blog)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	blogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid blog id"))
		return
	}
	if err := h.blogService.Delete(c.Request.Context(), blogID, requestData.UserID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "blog deleted"})
}

func (h *BlogHandler) Like(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	blogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid blog id"))
		return
	}
	blog, err := h.blogService.Like(c.Request.Context(), blogID, requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, blog)
}

func (h *BlogHandler) Unlike(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	blogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid blog id"))
		return
	}
	blog, err := h.blogService.Unlike(c.Request.Context(), blogID, requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, blog)
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *BlogHandler) AddComment(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	blogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validation("invalid blog id"))
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("comment text is required"))
		return
	}
	blog, err := h.blogService.AddComment(c.Request.Context(), blogID, requestData.UserID, req.Text)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, blog)
}
