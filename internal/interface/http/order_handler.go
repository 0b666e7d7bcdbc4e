package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/interface/http/dto"
	"github.com/oksasatya/storefront-api/internal/interface/middleware"
	"github.com/oksasatya/storefront-api/pkg/response"
)

type OrderHandler struct {
	Checkout *application.CheckoutService
	Orders   *application.OrderService
	Logger   *logrus.Logger
}

func NewOrderHandler(checkout *application.CheckoutService, orders *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Checkout: checkout, Orders: orders, Logger: logger}
}

// PlaceOrder POST /api/v1/checkout
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.Checkout.Checkout(c.Request.Context(), middleware.UserID(c), application.CheckoutInput{
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		PaymentMethod:     req.PaymentMethod,
		ShippingMethod:    req.ShippingMethod,
		PromotionCode:     strings.TrimSpace(req.PromotionCode),
		Notes:             req.Notes,
	})
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Created(c, dto.NewOrderResponse(o))
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	res, err := h.Orders.ListForUser(c.Request.Context(), middleware.UserID(c), page)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, paged(res, page, dto.NewOrderResponse))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.Orders.Get(c.Request.Context(), viewer(c), id)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewOrderResponse(o))
}

func (h *OrderHandler) GetByNumber(c *gin.Context) {
	o, err := h.Orders.GetByNumber(c.Request.Context(), viewer(c), c.Param("orderNumber"))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewOrderResponse(o))
}

// ListAll GET /api/v1/admin/orders?status= (ADMIN)
func (h *OrderHandler) ListAll(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	status := entity.OrderStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	res, err := h.Orders.List(c.Request.Context(), status, page)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, paged(res, page, dto.NewOrderResponse))
}

// UpdateStatus PUT /api/v1/admin/orders/:id/status (ADMIN)
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.OrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.Orders.UpdateStatus(c.Request.Context(), id, req.Status, strings.TrimSpace(req.TrackingNumber))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewOrderResponse(o))
}
