package repository

import (
	"context"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

// CartRepository loads carts with their items and each item's product.
type CartRepository interface {
	Create(ctx context.Context, c *entity.Cart) error
	GetByUserID(ctx context.Context, userID int64) (*entity.Cart, error)
	AddItem(ctx context.Context, item *entity.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error
	DeleteItem(ctx context.Context, itemID int64) error
	ClearItems(ctx context.Context, cartID int64) error
	Touch(ctx context.Context, cartID int64) error
}
