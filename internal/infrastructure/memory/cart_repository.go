package memory

import (
	"context"
	"time"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

type CartRepository struct {
	s *Store
}

func NewCartRepository(s *Store) *CartRepository {
	return &CartRepository{s: s}
}

func (r *CartRepository) Create(ctx context.Context, c *entity.Cart) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		for _, other := range t.carts {
			if other.UserID == c.UserID {
				return apperror.Duplicate("Cart with this user_id already exists")
			}
		}
		c.ID = t.next("carts")
		c.CreatedAt, c.UpdatedAt = now, now
		c.Items = []entity.CartItem{}
		row := *c
		row.Items = nil
		t.carts[c.ID] = row
		return nil
	})
}

func (r *CartRepository) GetByUserID(_ context.Context, userID int64) (*entity.Cart, error) {
	var found *entity.Cart
	r.s.read(func(t *tables) {
		for _, c := range t.carts {
			if c.UserID != userID {
				continue
			}
			c.Items = sortedValues(t.cartItems, func(it entity.CartItem) bool { return it.CartID == c.ID })
			for i := range c.Items {
				p := productView(t, t.products[c.Items[i].ProductID])
				c.Items[i].Product = &p
			}
			found = &c
			return
		}
	})
	if found == nil {
		return nil, apperror.NotFound("Cart not found")
	}
	return found, nil
}

func (r *CartRepository) AddItem(ctx context.Context, item *entity.CartItem) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		for _, other := range t.cartItems {
			if other.CartID == item.CartID && other.ProductID == item.ProductID {
				return apperror.Duplicate("Cart item already exists")
			}
		}
		item.ID = t.next("cart_items")
		item.CreatedAt, item.UpdatedAt = now, now
		row := *item
		row.Product = nil
		t.cartItems[item.ID] = row
		return nil
	})
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		it, ok := t.cartItems[itemID]
		if !ok {
			return apperror.ResourceNotFound("Cart item", "id", itemID)
		}
		it.Quantity, it.UpdatedAt = quantity, now
		t.cartItems[itemID] = it
		return nil
	})
}

func (r *CartRepository) DeleteItem(ctx context.Context, itemID int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		if _, ok := t.cartItems[itemID]; !ok {
			return apperror.ResourceNotFound("Cart item", "id", itemID)
		}
		delete(t.cartItems, itemID)
		return nil
	})
}

func (r *CartRepository) ClearItems(ctx context.Context, cartID int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		for id, it := range t.cartItems {
			if it.CartID == cartID {
				delete(t.cartItems, id)
			}
		}
		return nil
	})
}

func (r *CartRepository) Touch(ctx context.Context, cartID int64) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		if c, ok := t.carts[cartID]; ok {
			c.UpdatedAt = now
			t.carts[cartID] = c
		}
		return nil
	})
}

var _ repository.CartRepository = (*CartRepository)(nil)
