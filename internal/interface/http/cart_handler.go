package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/interface/http/dto"
	"github.com/oksasatya/storefront-api/internal/interface/middleware"
	"github.com/oksasatya/storefront-api/pkg/response"
)

type CartHandler struct {
	Svc    *application.CartService
	Logger *logrus.Logger
}

func NewCartHandler(svc *application.CartService, logger *logrus.Logger) *CartHandler {
	return &CartHandler{Svc: svc, Logger: logger}
}

func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewCartResponse(cart))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.CartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.Svc.AddItem(c.Request.Context(), middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewCartResponse(cart))
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var req dto.CartItemUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.Svc.UpdateItem(c.Request.Context(), middleware.UserID(c), itemID, req.Quantity)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewCartResponse(cart))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	cart, err := h.Svc.RemoveItem(c.Request.Context(), middleware.UserID(c), itemID)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewCartResponse(cart))
}

func (h *CartHandler) Clear(c *gin.Context) {
	cart, err := h.Svc.Clear(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewCartResponse(cart))
}
