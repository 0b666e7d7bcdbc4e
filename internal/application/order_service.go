package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
	"github.com/oksasatya/storefront-api/pkg/metrics"
)

// Viewer identifies who is reading an order. Customers only see their own.
type Viewer struct {
	UserID int64
	Admin  bool
}

type OrderService struct {
	Orders   repo.OrderRepository
	Payments repo.PaymentRepository
	Products repo.ProductRepository
	Tx       repo.TxManager
	Logger   *logrus.Logger
}

func NewOrderService(orders repo.OrderRepository, payments repo.PaymentRepository, products repo.ProductRepository, tx repo.TxManager, logger *logrus.Logger) *OrderService {
	return &OrderService{Orders: orders, Payments: payments, Products: products, Tx: tx, Logger: logger}
}

func (s *OrderService) ListForUser(ctx context.Context, userID int64, page repo.PageRequest) (repo.Page[entity.Order], error) {
	return s.Orders.ListByUser(ctx, userID, page)
}

// List returns all orders, optionally filtered by status.
func (s *OrderService) List(ctx context.Context, status entity.OrderStatus, page repo.PageRequest) (repo.Page[entity.Order], error) {
	if status == "" {
		return s.Orders.List(ctx, page)
	}
	if !status.Valid() {
		return repo.Page[entity.Order]{}, apperror.BadRequest("Invalid order status: %s", status)
	}
	return s.Orders.ListByStatus(ctx, status, page)
}

func (s *OrderService) Get(ctx context.Context, v Viewer, id int64) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "Order", "id", id)
	}
	if !v.Admin && o.UserID != v.UserID {
		return nil, apperror.ResourceNotFound("Order", "id", id)
	}
	return o, nil
}

func (s *OrderService) GetByNumber(ctx context.Context, v Viewer, number string) (*entity.Order, error) {
	o, err := s.Orders.GetByOrderNumber(ctx, number)
	if err != nil {
		return nil, orNotFound(err, "Order", "number", number)
	}
	if !v.Admin && o.UserID != v.UserID {
		return nil, apperror.ResourceNotFound("Order", "number", number)
	}
	return o, nil
}

// UpdateStatus moves an order along its lifecycle. A tracking number is
// stored only with SHIPPED, and re-sending SHIPPED just updates it.
// Cancelling returns the ordered quantities to stock and refunds the
// payment; delivery completes it.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus, tracking string) (*entity.Order, error) {
	if !status.Valid() {
		return nil, apperror.BadRequest("Invalid order status: %s", status)
	}
	changed := false
	var out *entity.Order
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.Orders.GetByID(ctx, id)
		if err != nil {
			return orNotFound(err, "Order", "id", id)
		}
		if tracking != "" && status == entity.OrderShipped {
			o.TrackingNumber = tracking
		}
		if o.Status != status {
			if !o.Status.CanTransitionTo(status) {
				return apperror.Conflict("Cannot change order status from %s to %s", o.Status, status)
			}
			o.Status = status
			changed = true
			if err := s.applySideEffects(ctx, o); err != nil {
				return err
			}
		}
		if err := s.Orders.UpdateStatus(ctx, o); err != nil {
			return err
		}
		out, err = s.Orders.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if changed {
		metrics.OrderStatusChanged(string(status))
		s.Logger.WithFields(logrus.Fields{"order_id": id, "status": status}).Info("order status changed")
	}
	return out, nil
}

func (s *OrderService) applySideEffects(ctx context.Context, o *entity.Order) error {
	var payment entity.PaymentStatus
	switch o.Status {
	case entity.OrderCancelled:
		for _, it := range o.Items {
			if _, err := s.Products.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				if apperror.Is(err, apperror.KindNotFound) {
					// product deleted since; nothing to restock
					continue
				}
				return err
			}
		}
		payment = entity.PaymentRefunded
	case entity.OrderDelivered:
		payment = entity.PaymentCompleted
	default:
		return nil
	}
	if o.Payment == nil {
		return nil
	}
	return s.Payments.UpdateStatus(ctx, o.Payment.ID, payment)
}
