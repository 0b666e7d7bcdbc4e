package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/interface/http/dto"
	"github.com/oksasatya/storefront-api/internal/interface/middleware"
	"github.com/oksasatya/storefront-api/pkg/response"
)

type BlogHandler struct {
	Svc    *application.BlogService
	Logger *logrus.Logger
}

func NewBlogHandler(svc *application.BlogService, logger *logrus.Logger) *BlogHandler {
	return &BlogHandler{Svc: svc, Logger: logger}
}

func (h *BlogHandler) ListPublished(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	res, err := h.Svc.ListPublished(c.Request.Context(), page)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, paged(res, page, dto.NewBlogPostResponse))
}

// ListAll GET /api/v1/blog/posts/all (ADMIN), drafts included.
func (h *BlogHandler) ListAll(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	res, err := h.Svc.ListAll(c.Request.Context(), page)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, paged(res, page, dto.NewBlogPostResponse))
}

func (h *BlogHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewBlogPostResponse(p))
}

func (h *BlogHandler) GetBySlug(c *gin.Context) {
	p, err := h.Svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewBlogPostResponse(p))
}

func (h *BlogHandler) Search(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		badRequest(c, "keyword is required")
		return
	}
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	res, err := h.Svc.Search(c.Request.Context(), keyword, page)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, paged(res, page, dto.NewBlogPostResponse))
}

func (h *BlogHandler) ByTag(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	res, err := h.Svc.ListByTag(c.Request.Context(), c.Param("tag"), page)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, paged(res, page, dto.NewBlogPostResponse))
}

func (h *BlogHandler) Tags(c *gin.Context) {
	tags, err := h.Svc.Tags(c.Request.Context())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	response.OK(c, tags)
}

func (h *BlogHandler) Create(c *gin.Context) {
	var req dto.BlogPostRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req.ToEntity())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Created(c, dto.NewBlogPostResponse(p))
}

func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.BlogPostRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), id, req.ToEntity())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewBlogPostResponse(p))
}

func (h *BlogHandler) Delete(c *gin.Context) {
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
