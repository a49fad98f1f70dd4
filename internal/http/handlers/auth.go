package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/soa-tours/platform/internal/http/response"
	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/ctxutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/services"
	"github.com/soa-tours/platform/internal/types"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

type registerRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid register payload"))
		return
	}
	user := &types.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
	}
	profile := &types.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	created, err := h.authService.Register(c.Request.Context(), user, profile, req.Password)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, created)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid login payload"))
		return
	}
	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          result.User,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("invalid refresh payload"))
		return
	}
	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	if requestData == nil {
		response.RespondError(c, apierr.Unauthorized("not authenticated"))
		return
	}
	if err := h.authService.Logout(c.Request.Context(), requestData.UserID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "logged out"})
}
