package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/interface/http/dto"
	"github.com/oksasatya/storefront-api/pkg/response"
)

type AboutHandler struct {
	Svc    *application.AboutService
	Logger *logrus.Logger
}

func NewAboutHandler(svc *application.AboutService, logger *logrus.Logger) *AboutHandler {
	return &AboutHandler{Svc: svc, Logger: logger}
}

func (h *AboutHandler) Active(c *gin.Context) {
	p, err := h.Svc.Active(c.Request.Context())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewAboutPageResponse(p))
}

func (h *AboutHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.Map(list, dto.NewAboutPageResponse))
}

func (h *AboutHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewAboutPageResponse(p))
}

func (h *AboutHandler) Create(c *gin.Context) {
	var req dto.AboutPageRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Created(c, dto.NewAboutPageResponse(p))
}

func (h *AboutHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AboutPageRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), id, req.ToEntity())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewAboutPageResponse(p))
}

func (h *AboutHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}
