package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

type CartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// CartItemUpdateRequest allows zero or negative quantities, which remove the line.
type CartItemUpdateRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type CartItemResponse struct {
	ID        int64            `json:"id"`
	Product   *ProductResponse `json:"product"`
	Quantity  int              `json:"quantity"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type CartResponse struct {
	ID         int64              `json:"id"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
	ItemCount  int                `json:"itemCount"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

func NewCartResponse(c *entity.Cart) CartResponse {
	return CartResponse{
		ID: c.ID,
		Items: Map(c.Items, func(it *entity.CartItem) CartItemResponse {
			r := CartItemResponse{
				ID:        it.ID,
				Quantity:  it.Quantity,
				Subtotal:  it.Subtotal(),
				CreatedAt: it.CreatedAt,
				UpdatedAt: it.UpdatedAt,
			}
			if it.Product != nil {
				p := NewProductResponse(it.Product)
				r.Product = &p
			}
			return r
		}),
		TotalPrice: c.TotalPrice(),
		ItemCount:  c.ItemCount(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
