package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/interface/http/dto"
	"github.com/oksasatya/storefront-api/pkg/response"
)

type CategoryHandler struct {
	Svc    *application.CategoryService
	Logger *logrus.Logger
}

func NewCategoryHandler(svc *application.CategoryService, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{Svc: svc, Logger: logger}
}

func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.Map(list, dto.NewCategoryResponse))
}

func (h *CategoryHandler) Roots(c *gin.Context) {
	list, err := h.Svc.ListRoots(c.Request.Context())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.Map(list, dto.NewCategoryResponse))
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cat, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewCategoryResponse(cat))
}

func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	cat, err := h.Svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewCategoryResponse(cat))
}

func (h *CategoryHandler) Subcategories(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.Svc.Subcategories(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.Map(list, dto.NewCategoryResponse))
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.Svc.Create(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Created(c, dto.NewCategoryResponse(cat))
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.Svc.Update(c.Request.Context(), id, req.ToEntity())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewCategoryResponse(cat))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
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
