package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64
	Name          string
	Slug          string
	Description   string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
	Stock         int
	SKU           string
	CategoryID    int64
	Category      *Category
	Images        []string
	Attributes    map[string]string
	Active        bool
	Featured      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectivePrice is the discount price when one is set, otherwise the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}
