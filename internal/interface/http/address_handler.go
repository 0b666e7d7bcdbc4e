package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/interface/http/dto"
	"github.com/oksasatya/storefront-api/internal/interface/middleware"
	"github.com/oksasatya/storefront-api/pkg/response"
)

type AddressHandler struct {
	Svc    *application.AddressService
	Logger *logrus.Logger
}

func NewAddressHandler(svc *application.AddressService, logger *logrus.Logger) *AddressHandler {
	return &AddressHandler{Svc: svc, Logger: logger}
}

func (h *AddressHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.Map(list, dto.NewAddressResponse))
}

func (h *AddressHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewAddressResponse(a))
}

func (h *AddressHandler) Create(c *gin.Context) {
	var req dto.AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req.ToEntity())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Created(c, dto.NewAddressResponse(a))
}

func (h *AddressHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), id, req.ToEntity())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewAddressResponse(a))
}

func (h *AddressHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}
