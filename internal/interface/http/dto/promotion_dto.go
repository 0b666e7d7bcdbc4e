package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

type PromotionRequest struct {
	Name                  string               `json:"name" binding:"required,max=100"`
	Code                  string               `json:"code" binding:"required,max=50"`
	Description           string               `json:"description" binding:"max=2000"`
	Type                  entity.PromotionType `json:"type" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT FREE_SHIPPING BUY_ONE_GET_ONE"`
	Value                 decimal.Decimal      `json:"value" binding:"gte=0"`
	MinimumOrderAmount    *decimal.Decimal     `json:"minimumOrderAmount"`
	MaximumDiscountAmount *decimal.Decimal     `json:"maximumDiscountAmount"`
	StartDate             time.Time            `json:"startDate" binding:"required"`
	EndDate               time.Time            `json:"endDate" binding:"required"`
	UsageLimit            *int                 `json:"usageLimit" binding:"required,gte=0"`
	Active                *bool                `json:"active"`
	ApplicableCategoryIDs []int64              `json:"applicableCategoryIds" binding:"omitempty,dive,gt=0"`
	ApplicableProductIDs  []int64              `json:"applicableProductIds" binding:"omitempty,dive,gt=0"`
}

func (r PromotionRequest) ToEntity() *entity.Promotion {
	limit := 0
	if r.UsageLimit != nil {
		limit = *r.UsageLimit
	}
	return &entity.Promotion{
		Code:                  r.Code,
		Name:                  r.Name,
		Description:           r.Description,
		Type:                  r.Type,
		Value:                 r.Value,
		MinimumOrderAmount:    nullDecimal(r.MinimumOrderAmount),
		MaximumDiscountAmount: nullDecimal(r.MaximumDiscountAmount),
		StartDate:             r.StartDate,
		EndDate:               r.EndDate,
		Active:                boolOr(r.Active, true),
		UsageLimit:            limit,
		CategoryIDs:           r.ApplicableCategoryIDs,
		ProductIDs:            r.ApplicableProductIDs,
	}
}

type PromotionResponse struct {
	ID                    int64                `json:"id"`
	Name                  string               `json:"name"`
	Code                  string               `json:"code"`
	Description           string               `json:"description"`
	Type                  entity.PromotionType `json:"type"`
	Value                 decimal.Decimal      `json:"value"`
	MinimumOrderAmount    *decimal.Decimal     `json:"minimumOrderAmount"`
	MaximumDiscountAmount *decimal.Decimal     `json:"maximumDiscountAmount"`
	StartDate             time.Time            `json:"startDate"`
	EndDate               time.Time            `json:"endDate"`
	UsageLimit            int                  `json:"usageLimit"`
	UsageCount            int                  `json:"usageCount"`
	Active                bool                 `json:"active"`
	ApplicableCategories  []CategoryResponse   `json:"applicableCategories"`
	ApplicableProducts    []ProductResponse    `json:"applicableProducts"`
	CreatedAt             time.Time            `json:"createdAt"`
	UpdatedAt             time.Time            `json:"updatedAt"`
}

func NewPromotionResponse(p *entity.Promotion) PromotionResponse {
	return PromotionResponse{
		ID:                    p.ID,
		Name:                  p.Name,
		Code:                  p.Code,
		Description:           p.Description,
		Type:                  p.Type,
		Value:                 p.Value,
		MinimumOrderAmount:    decimalPtr(p.MinimumOrderAmount),
		MaximumDiscountAmount: decimalPtr(p.MaximumDiscountAmount),
		StartDate:             p.StartDate,
		EndDate:               p.EndDate,
		UsageLimit:            p.UsageLimit,
		UsageCount:            p.UsageCount,
		Active:                p.Active,
		ApplicableCategories:  Map(p.Categories, NewCategoryResponse),
		ApplicableProducts:    Map(p.Products, NewProductResponse),
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

type ValidatePromotionRequest struct {
	Code        string          `json:"code" binding:"required"`
	OrderAmount decimal.Decimal `json:"orderAmount" binding:"gte=0"`
	ProductIDs  []int64         `json:"productIds"`
}

type DiscountResponse struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
}
