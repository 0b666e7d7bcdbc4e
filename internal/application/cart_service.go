package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
	"github.com/oksasatya/storefront-api/pkg/metrics"
)

// CartService keeps product stock reserved for the quantities held in carts.
// Adding or increasing a line takes stock; removing, decreasing or clearing gives it back.
type CartService struct {
	Carts    repo.CartRepository
	Products repo.ProductRepository
	Tx       repo.TxManager
	Logger   *logrus.Logger
}

func NewCartService(carts repo.CartRepository, products repo.ProductRepository, tx repo.TxManager, logger *logrus.Logger) *CartService {
	return &CartService{Carts: carts, Products: products, Tx: tx, Logger: logger}
}

// Get returns the user's cart, creating it on first access.
func (s *CartService) Get(ctx context.Context, userID int64) (*entity.Cart, error) {
	c, err := s.Carts.GetByUserID(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}
	c = &entity.Cart{UserID: userID}
	if err := s.Carts.Create(ctx, c); err != nil {
		// lost a race with a concurrent first access
		if apperror.Is(err, apperror.KindDuplicate) {
			return s.Carts.GetByUserID(ctx, userID)
		}
		return nil, err
	}
	return c, nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID int64, quantity int) (*entity.Cart, error) {
	if quantity <= 0 {
		return nil, apperror.BadRequest("Quantity must be at least 1")
	}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		cart, err := s.Get(ctx, userID)
		if err != nil {
			return err
		}
		p, err := s.Products.GetByID(ctx, productID)
		if err != nil {
			return orNotFound(err, "Product", "id", productID)
		}
		if !p.Active {
			return apperror.BadRequest("Product is not available: %s", p.Name)
		}
		if err := s.reserve(ctx, p, quantity); err != nil {
			return err
		}
		if item := cart.FindByProduct(productID); item != nil {
			if err := s.Carts.UpdateItemQuantity(ctx, item.ID, item.Quantity+quantity); err != nil {
				return err
			}
		} else {
			if err := s.Carts.AddItem(ctx, &entity.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}); err != nil {
				return err
			}
		}
		return s.Carts.Touch(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	metrics.StockReserved(quantity)
	return s.Carts.GetByUserID(ctx, userID)
}

// UpdateItem sets the quantity of a line. A quantity of zero or less removes it.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) (*entity.Cart, error) {
	reserved := 0
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		cart, item, err := s.findItem(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if quantity <= 0 {
			return s.removeLine(ctx, cart, item)
		}
		diff := quantity - item.Quantity
		switch {
		case diff > 0:
			if err := s.reserve(ctx, item.Product, diff); err != nil {
				return err
			}
			reserved = diff
		case diff < 0:
			if _, err := s.Products.AdjustStock(ctx, item.ProductID, -diff); err != nil {
				return err
			}
		}
		if err := s.Carts.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
			return err
		}
		return s.Carts.Touch(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	metrics.StockReserved(reserved)
	return s.Carts.GetByUserID(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) (*entity.Cart, error) {
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		cart, item, err := s.findItem(ctx, userID, itemID)
		if err != nil {
			return err
		}
		return s.removeLine(ctx, cart, item)
	})
	if err != nil {
		return nil, err
	}
	return s.Carts.GetByUserID(ctx, userID)
}

// Clear empties the cart and returns every reserved unit to stock.
func (s *CartService) Clear(ctx context.Context, userID int64) (*entity.Cart, error) {
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		cart, err := s.Get(ctx, userID)
		if err != nil {
			return err
		}
		for _, it := range cart.Items {
			if _, err := s.Products.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		if err := s.Carts.ClearItems(ctx, cart.ID); err != nil {
			return err
		}
		return s.Carts.Touch(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.Carts.GetByUserID(ctx, userID)
}

func (s *CartService) findItem(ctx context.Context, userID, itemID int64) (*entity.Cart, *entity.CartItem, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	item := cart.FindItem(itemID)
	if item == nil {
		return nil, nil, apperror.ResourceNotFound("Cart item", "id", itemID)
	}
	return cart, item, nil
}

func (s *CartService) removeLine(ctx context.Context, cart *entity.Cart, item *entity.CartItem) error {
	if _, err := s.Products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
		return err
	}
	if err := s.Carts.DeleteItem(ctx, item.ID); err != nil {
		return err
	}
	return s.Carts.Touch(ctx, cart.ID)
}

func (s *CartService) reserve(ctx context.Context, p *entity.Product, quantity int) error {
	if _, err := s.Products.AdjustStock(ctx, p.ID, -quantity); err != nil {
		if apperror.Is(err, apperror.KindInsufficientStock) {
			return apperror.InsufficientStock("Not enough stock available for product: %s", p.Name)
		}
		return err
	}
	return nil
}
