package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

// OrderRepository persists orders. Get* methods return the full aggregate:
// items, user, addresses and payment.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	GetByOrderNumber(ctx context.Context, number string) (*entity.Order, error)
	List(ctx context.Context, page PageRequest) (Page[entity.Order], error)
	ListByUser(ctx context.Context, userID int64, page PageRequest) (Page[entity.Order], error)
	ListByStatus(ctx context.Context, status entity.OrderStatus, page PageRequest) (Page[entity.Order], error)
	UpdateStatus(ctx context.Context, o *entity.Order) error
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	RevenueBetween(ctx context.Context, status entity.OrderStatus, from, to time.Time) (decimal.Decimal, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByOrderID(ctx context.Context, orderID int64) (*entity.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status entity.PaymentStatus) error
}

type AddressRepository interface {
	Create(ctx context.Context, a *entity.Address) error
	Update(ctx context.Context, a *entity.Address) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entity.Address, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.Address, error)
	// UnsetDefault clears the default flag on every address of the user except exceptID.
	UnsetDefault(ctx context.Context, userID, exceptID int64) error
}
