package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/soa-tours/platform/internal/http/response"
	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/ctxutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/services"
)

type CommerceHandler struct {
	log             *logger.Logger
	commerceService services.CommerceService
}

func NewCommerceHandler(log *logger.Logger, commerceService services.CommerceService) *CommerceHandler {
	return &CommerceHandler{log: log.With("handler", "CommerceHandler"), commerceService: commerceService}
}

func (h *CommerceHandler) GetCart(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	cart, err := h.commerceService.GetCart(c.Request.Context(), requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, cart)
}

func (h *CommerceHandler) AddToCart(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	var input services.CartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validation("invalid cart item payload"))
		return
	}
	cart, err := h.commerceService.AddToCart(c.Request.Context(), requestData.UserID, &input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, cart)
}

func (h *CommerceHandler) RemoveFromCart(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	cart, err := h.commerceService.RemoveFromCart(c.Request.Context(), requestData.UserID, c.Param("tour_id"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, cart)
}

func (h *CommerceHandler) Checkout(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	result, err := h.commerceService.Checkout(c.Request.Context(), requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, result)
}

func (h *CommerceHandler) Purchases(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	purchases, err := h.commerceService.Purchases(c.Request.Context(), requestData.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"purchases": purchases, "count": len(purchases)})
}

func (h *CommerceHandler) CheckPurchase(c *gin.Context) {
	requestData := ctxutil.GetRequestData(c.Request.Context())
	info, err := h.commerceService.CheckPurchase(c.Request.Context(), requestData.UserID, c.Param("tour_id"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, info)
}
