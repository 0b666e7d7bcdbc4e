package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/interface/http/dto"
	"github.com/oksasatya/storefront-api/pkg/response"
)

const maxImageBytes = 5 << 20

type ProductHandler struct {
	Svc    *application.ProductService
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

func (h *ProductHandler) List(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	res, err := h.Svc.List(c.Request.Context(), page)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, paged(res, page, dto.NewProductResponse))
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewProductResponse(p))
}

func (h *ProductHandler) GetBySlug(c *gin.Context) {
	p, err := h.Svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewProductResponse(p))
}

func (h *ProductHandler) ByCategory(c *gin.Context) {
	id, ok := pathID(c, "categoryId")
	if !ok {
		return
	}
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	res, err := h.Svc.ListByCategory(c.Request.Context(), id, page)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, paged(res, page, dto.NewProductResponse))
}

func (h *ProductHandler) Search(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		badRequest(c, "keyword is required")
		return
	}
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	res, err := h.Svc.SearchProducts(c.Request.Context(), keyword, page)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, paged(res, page, dto.NewProductResponse))
}

func (h *ProductHandler) Featured(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 8)
	if !ok {
		return
	}
	list, err := h.Svc.Featured(c.Request.Context(), min(limit, maxPageSize))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.Map(list, dto.NewProductResponse))
}

// LowStock GET /api/v1/products/low-stock?threshold=10 (ADMIN)
func (h *ProductHandler) LowStock(c *gin.Context) {
	threshold, ok := queryInt(c, "threshold", 10)
	if !ok {
		return
	}
	list, err := h.Svc.LowStock(c.Request.Context(), threshold)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.Map(list, dto.NewProductResponse))
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Created(c, dto.NewProductResponse(p))
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), id, req.ToEntity())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewProductResponse(p))
}

func (h *ProductHandler) Delete(c *gin.Context) {
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

// AdjustStock PATCH /api/v1/products/:id/stock?quantity=n (ADMIN)
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if c.Query("quantity") == "" {
		badRequest(c, "quantity is required")
		return
	}
	qty, ok := queryInt(c, "quantity", 0)
	if !ok {
		return
	}
	p, err := h.Svc.AdjustStock(c.Request.Context(), id, qty)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewProductResponse(p))
}

// UploadImage POST /api/v1/products/:id/images (ADMIN, multipart field "file")
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1<<10)
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	if fh.Size > maxImageBytes {
		badRequest(c, "Image must be at most 5MB")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	defer f.Close()

	p, err := h.Svc.UploadImage(c.Request.Context(), id, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewProductResponse(p))
}
