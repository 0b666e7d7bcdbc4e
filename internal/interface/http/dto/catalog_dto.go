package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"omitempty,slug"`
	Description string `json:"description" binding:"max=2000"`
	ImageURL    string `json:"imageUrl" binding:"omitempty,url"`
	ParentID    *int64 `json:"parentId" binding:"omitempty,gt=0"`
}

func (r CategoryRequest) ToEntity() *entity.Category {
	return &entity.Category{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		ParentID:    r.ParentID,
	}
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	ParentID    *int64    `json:"parentId"`
	ParentName  string    `json:"parentName,omitempty"`
	HasChildren bool      `json:"hasChildren"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		ParentID:    c.ParentID,
		ParentName:  c.ParentName,
		HasChildren: c.HasChildren,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type ProductRequest struct {
	Name          string            `json:"name" binding:"required,max=200"`
	Slug          string            `json:"slug" binding:"omitempty,slug"`
	Description   string            `json:"description"`
	Price         decimal.Decimal   `json:"price" binding:"gte=0"`
	DiscountPrice *decimal.Decimal  `json:"discountPrice"`
	Stock         *int              `json:"stock" binding:"required,gte=0"`
	SKU           string            `json:"sku" binding:"required,max=64"`
	CategoryID    int64             `json:"categoryId" binding:"required,gt=0"`
	Images        []string          `json:"images" binding:"omitempty,dive,url"`
	Attributes    map[string]string `json:"attributes"`
	Active        *bool             `json:"active"`
	Featured      bool              `json:"featured"`
}

func (r ProductRequest) ToEntity() *entity.Product {
	stock := 0
	if r.Stock != nil {
		stock = *r.Stock
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}
	attrs := r.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &entity.Product{
		Name:          r.Name,
		Slug:          r.Slug,
		Description:   r.Description,
		Price:         r.Price,
		DiscountPrice: nullDecimal(r.DiscountPrice),
		Stock:         stock,
		SKU:           r.SKU,
		CategoryID:    r.CategoryID,
		Images:        images,
		Attributes:    attrs,
		Active:        boolOr(r.Active, true),
		Featured:      r.Featured,
	}
}

type ProductResponse struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	Description   string            `json:"description"`
	Price         decimal.Decimal   `json:"price"`
	DiscountPrice *decimal.Decimal  `json:"discountPrice"`
	Stock         int               `json:"stock"`
	SKU           string            `json:"sku"`
	Category      *CategoryResponse `json:"category"`
	Images        []string          `json:"images"`
	Attributes    map[string]string `json:"attributes"`
	Active        bool              `json:"active"`
	Featured      bool              `json:"featured"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func NewProductResponse(p *entity.Product) ProductResponse {
	r := ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price,
		DiscountPrice: decimalPtr(p.DiscountPrice),
		Stock:         p.Stock,
		SKU:           p.SKU,
		Images:        p.Images,
		Attributes:    p.Attributes,
		Active:        p.Active,
		Featured:      p.Featured,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if r.Images == nil {
		r.Images = []string{}
	}
	if r.Attributes == nil {
		r.Attributes = map[string]string{}
	}
	if p.Category != nil {
		c := NewCategoryResponse(p.Category)
		r.Category = &c
	}
	return r
}
