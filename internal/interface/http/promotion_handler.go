package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/interface/http/dto"
	"github.com/oksasatya/storefront-api/pkg/response"
)

type PromotionHandler struct {
	Svc    *application.PromotionService
	Logger *logrus.Logger
}

func NewPromotionHandler(svc *application.PromotionService, logger *logrus.Logger) *PromotionHandler {
	return &PromotionHandler{Svc: svc, Logger: logger}
}

func (h *PromotionHandler) List(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	res, err := h.Svc.List(c.Request.Context(), page)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, paged(res, page, dto.NewPromotionResponse))
}

func (h *PromotionHandler) ListActive(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	res, err := h.Svc.ListActive(c.Request.Context(), page)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, paged(res, page, dto.NewPromotionResponse))
}

func (h *PromotionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewPromotionResponse(p))
}

func (h *PromotionHandler) GetByCode(c *gin.Context) {
	p, err := h.Svc.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewPromotionResponse(p))
}

func (h *PromotionHandler) Create(c *gin.Context) {
	var req dto.PromotionRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Created(c, dto.NewPromotionResponse(p))
}

func (h *PromotionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PromotionRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), id, req.ToEntity())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewPromotionResponse(p))
}

func (h *PromotionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Msg(c, http.StatusOK, "Promotion deleted successfully")
}

// Validate POST /api/promotions/validate
func (h *PromotionHandler) Validate(c *gin.Context) {
	var req dto.ValidatePromotionRequest
	if !bindJSON(c, &req) {
		return
	}
	p, discount, err := h.Svc.Validate(c.Request.Context(), req.Code, req.OrderAmount, req.ProductIDs)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.DiscountResponse{Code: p.Code, Discount: discount})
}
