package memory

import (
	"cmp"
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

type OrderRepository struct {
	s *Store
}

func NewOrderRepository(s *Store) *OrderRepository {
	return &OrderRepository{s: s}
}

var orderSortKeys = sortKeys[entity.Order]{
	"id":          byID(func(o entity.Order) int64 { return o.ID }),
	"createdAt":   func(a, b entity.Order) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"totalAmount": func(a, b entity.Order) int { return a.TotalAmount.Cmp(b.TotalAmount) },
	"status":      func(a, b entity.Order) int { return cmp.Compare(a.Status, b.Status) },
}

func newestOrderFirst(a, b entity.Order) int {
	return cmp.Or(timeDesc(a.CreatedAt, b.CreatedAt), cmp.Compare(b.ID, a.ID))
}

func orderView(t *tables, o entity.Order) entity.Order {
	o.Items = sortedValues(t.orderItems, func(it entity.OrderItem) bool { return it.OrderID == o.ID })
	o.Payment = nil
	for _, p := range t.payments {
		if p.OrderID == o.ID {
			o.Payment = &p
			break
		}
	}
	if u, ok := t.users[o.UserID]; ok {
		o.User = &u
	}
	if a, ok := t.addresses[o.ShippingAddressID]; ok {
		o.ShippingAddress = &a
	}
	if a, ok := t.addresses[o.BillingAddressID]; ok {
		o.BillingAddress = &a
	}
	return o
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		for _, other := range t.orders {
			if other.OrderNumber == o.OrderNumber {
				return apperror.Duplicate("Order with this order_number already exists")
			}
		}
		if _, ok := t.users[o.UserID]; !ok {
			return apperror.Conflict("Order is referenced by other records")
		}
		for _, it := range o.Items {
			if _, ok := t.products[it.ProductID]; !ok {
				return apperror.Conflict("Order is referenced by other records")
			}
		}
		o.ID = t.next("orders")
		o.CreatedAt, o.UpdatedAt = now, now
		for i := range o.Items {
			o.Items[i].ID = t.next("order_items")
			o.Items[i].OrderID = o.ID
			t.orderItems[o.Items[i].ID] = o.Items[i]
		}
		row := *o
		row.Items, row.User, row.Payment, row.ShippingAddress, row.BillingAddress = nil, nil, nil, nil, nil
		t.orders[o.ID] = row
		return nil
	})
}

func (r *OrderRepository) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	return r.find(func(o entity.Order) bool { return o.ID == id })
}

func (r *OrderRepository) GetByOrderNumber(_ context.Context, number string) (*entity.Order, error) {
	return r.find(func(o entity.Order) bool { return o.OrderNumber == number })
}

func (r *OrderRepository) List(_ context.Context, page repository.PageRequest) (repository.Page[entity.Order], error) {
	return r.page(nil, page), nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID int64, page repository.PageRequest) (repository.Page[entity.Order], error) {
	return r.page(func(o entity.Order) bool { return o.UserID == userID }, page), nil
}

func (r *OrderRepository) ListByStatus(_ context.Context, status entity.OrderStatus, page repository.PageRequest) (repository.Page[entity.Order], error) {
	return r.page(func(o entity.Order) bool { return o.Status == status }, page), nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, o *entity.Order) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		cur, ok := t.orders[o.ID]
		if !ok {
			return apperror.NotFound("Order not found")
		}
		cur.Status, cur.TrackingNumber, cur.UpdatedAt = o.Status, o.TrackingNumber, now
		t.orders[o.ID] = cur
		o.UpdatedAt = now
		return nil
	})
}

func (r *OrderRepository) CountCreatedBetween(_ context.Context, from, to time.Time) (int, error) {
	n := 0
	r.s.read(func(t *tables) {
		for _, o := range t.orders {
			if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
				n++
			}
		}
	})
	return n, nil
}

func (r *OrderRepository) RevenueBetween(_ context.Context, status entity.OrderStatus, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	r.s.read(func(t *tables) {
		for _, o := range t.orders {
			if o.Status == status && !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
				sum = sum.Add(o.TotalAmount)
			}
		}
	})
	return sum, nil
}

func (r *OrderRepository) find(match func(entity.Order) bool) (*entity.Order, error) {
	var found *entity.Order
	r.s.read(func(t *tables) {
		for _, o := range t.orders {
			if match(o) {
				v := orderView(t, o)
				found = &v
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("Order not found")
	}
	return found, nil
}

func (r *OrderRepository) page(keep func(entity.Order) bool, page repository.PageRequest) repository.Page[entity.Order] {
	var all []entity.Order
	r.s.read(func(t *tables) {
		all = sortedValues(t.orders, keep)
		for i := range all {
			all[i] = orderView(t, all[i])
		}
	})
	return paginate(all, page, orderSortKeys, newestOrderFirst, func(o entity.Order) int64 { return o.ID })
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

type PaymentRepository struct {
	s *Store
}

func NewPaymentRepository(s *Store) *PaymentRepository {
	return &PaymentRepository{s: s}
}

func (r *PaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		if _, ok := t.orders[p.OrderID]; !ok {
			return apperror.Conflict("Payment is referenced by other records")
		}
		for _, other := range t.payments {
			if other.OrderID == p.OrderID {
				return apperror.Duplicate("Payment with this order_id already exists")
			}
		}
		p.ID = t.next("payments")
		p.CreatedAt, p.UpdatedAt = now, now
		t.payments[p.ID] = *p
		return nil
	})
}

func (r *PaymentRepository) GetByOrderID(_ context.Context, orderID int64) (*entity.Payment, error) {
	var found *entity.Payment
	r.s.read(func(t *tables) {
		for _, p := range t.payments {
			if p.OrderID == orderID {
				found = &p
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("Payment not found")
	}
	return found, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status entity.PaymentStatus) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		p, ok := t.payments[id]
		if !ok {
			return apperror.ResourceNotFound("Payment", "id", id)
		}
		p.Status, p.UpdatedAt = status, now
		t.payments[id] = p
		return nil
	})
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)

type AddressRepository struct {
	s *Store
}

func NewAddressRepository(s *Store) *AddressRepository {
	return &AddressRepository{s: s}
}

func (r *AddressRepository) Create(ctx context.Context, a *entity.Address) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		if _, ok := t.users[a.UserID]; !ok {
			return apperror.Conflict("Address is referenced by other records")
		}
		a.ID = t.next("addresses")
		a.CreatedAt, a.UpdatedAt = now, now
		t.addresses[a.ID] = *a
		return nil
	})
}

func (r *AddressRepository) Update(ctx context.Context, a *entity.Address) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		cur, ok := t.addresses[a.ID]
		if !ok {
			return apperror.NotFound("Address not found")
		}
		a.UserID = cur.UserID
		a.CreatedAt, a.UpdatedAt = cur.CreatedAt, now
		t.addresses[a.ID] = *a
		return nil
	})
}

func (r *AddressRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		if _, ok := t.addresses[id]; !ok {
			return apperror.ResourceNotFound("Address", "id", id)
		}
		for oid, o := range t.orders {
			if o.ShippingAddressID == id {
				o.ShippingAddressID = 0
			}
			if o.BillingAddressID == id {
				o.BillingAddressID = 0
			}
			t.orders[oid] = o
		}
		delete(t.addresses, id)
		return nil
	})
}

func (r *AddressRepository) GetByID(_ context.Context, id int64) (*entity.Address, error) {
	var (
		a  entity.Address
		ok bool
	)
	r.s.read(func(t *tables) { a, ok = t.addresses[id] })
	if !ok {
		return nil, apperror.NotFound("Address not found")
	}
	return &a, nil
}

func (r *AddressRepository) ListByUser(_ context.Context, userID int64) ([]entity.Address, error) {
	var out []entity.Address
	r.s.read(func(t *tables) {
		out = sortedValues(t.addresses, func(a entity.Address) bool { return a.UserID == userID })
	})
	return out, nil
}

func (r *AddressRepository) UnsetDefault(ctx context.Context, userID, exceptID int64) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		for id, a := range t.addresses {
			if a.UserID == userID && id != exceptID && a.IsDefault {
				a.IsDefault, a.UpdatedAt = false, now
				t.addresses[id] = a
			}
		}
		return nil
	})
}

var _ repository.AddressRepository = (*AddressRepository)(nil)
