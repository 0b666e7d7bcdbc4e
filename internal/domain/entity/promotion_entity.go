package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromotionType string

const (
	PromotionPercentage   PromotionType = "PERCENTAGE"
	PromotionFixedAmount  PromotionType = "FIXED_AMOUNT"
	PromotionFreeShipping PromotionType = "FREE_SHIPPING"
	PromotionBuyOneGetOne PromotionType = "BUY_ONE_GET_ONE"
)

func (t PromotionType) Valid() bool {
	switch t {
	case PromotionPercentage, PromotionFixedAmount, PromotionFreeShipping, PromotionBuyOneGetOne:
		return true
	}
	return false
}

type Promotion struct {
	ID                    int64
	Code                  string
	Name                  string
	Description           string
	Type                  PromotionType
	Value                 decimal.Decimal
	MinimumOrderAmount    decimal.NullDecimal
	MaximumDiscountAmount decimal.NullDecimal
	StartDate             time.Time
	EndDate               time.Time
	Active                bool
	UsageLimit            int
	UsageCount            int
	CategoryIDs           []int64
	ProductIDs            []int64
	Categories            []Category
	Products              []Product
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsValidAt reports whether the promotion can be redeemed at t.
func (p *Promotion) IsValidAt(t time.Time) bool {
	if !p.Active || t.Before(p.StartDate) || t.After(p.EndDate) {
		return false
	}
	return p.UsageCount < p.UsageLimit
}

// MeetsMinimum reports whether amount satisfies the minimum order amount, if any.
func (p *Promotion) MeetsMinimum(amount decimal.Decimal) bool {
	if !p.MinimumOrderAmount.Valid {
		return true
	}
	return amount.GreaterThanOrEqual(p.MinimumOrderAmount.Decimal)
}

// Restricted reports whether the promotion is limited to a product or category set.
func (p *Promotion) Restricted() bool {
	return len(p.ProductIDs) > 0 || len(p.CategoryIDs) > 0
}

// Discount computes the discount for an order amount. FREE_SHIPPING and
// BUY_ONE_GET_ONE yield zero here; they are not priced by amount.
func (p *Promotion) Discount(amount decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch p.Type {
	case PromotionPercentage:
		d = amount.Mul(p.Value).Div(decimal.NewFromInt(100))
	case PromotionFixedAmount:
		d = p.Value
	default:
		d = decimal.Zero
	}
	if p.MaximumDiscountAmount.Valid && d.GreaterThan(p.MaximumDiscountAmount.Decimal) {
		d = p.MaximumDiscountAmount.Decimal
	}
	return d.Round(2)
}
