package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
)

const orderSelect = `
	SELECT o.id, o.order_number, o.user_id, COALESCE(o.shipping_address_id, 0), COALESCE(o.billing_address_id, 0),
	       o.status, o.subtotal, o.shipping_cost, o.tax_amount, o.discount_amount, o.promotion_code,
	       o.total_amount, o.tracking_number, o.notes, o.created_at, o.updated_at
	FROM orders o`

var orderSortColumns = map[string]string{
	"id":          "o.id",
	"createdAt":   "o.created_at",
	"totalAmount": "o.total_amount",
	"status":      "o.status",
}

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func scanOrder(row scanner, o *entity.Order) error {
	return row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.ShippingAddressID, &o.BillingAddressID,
		&o.Status, &o.Subtotal, &o.ShippingCost, &o.TaxAmount, &o.DiscountAmount, &o.PromotionCode,
		&o.TotalAmount, &o.TrackingNumber, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
}

// Create inserts the order and its items. Payment is stored by PaymentRepository.
func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	q := conn(ctx, r.pool)
	row := q.QueryRow(ctx, `
		INSERT INTO orders (order_number, user_id, shipping_address_id, billing_address_id, status,
		                    subtotal, shipping_cost, tax_amount, discount_amount, promotion_code,
		                    total_amount, tracking_number, notes)
		VALUES ($1, $2, NULLIF($3, 0), NULLIF($4, 0), $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, o.OrderNumber, o.UserID, o.ShippingAddressID, o.BillingAddressID, string(o.Status),
		o.Subtotal, o.ShippingCost, o.TaxAmount, o.DiscountAmount, o.PromotionCode,
		o.TotalAmount, o.TrackingNumber, o.Notes)
	if err := row.Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return mapErr(err, "Order")
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err := q.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, it.OrderID, it.ProductID, it.ProductName, it.Price, it.Quantity, it.Subtotal).Scan(&it.ID)
		if err != nil {
			return mapErr(err, "Order item")
		}
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE o.id = $1`, id)
}

func (r *OrderRepository) GetByOrderNumber(ctx context.Context, number string) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE o.order_number = $1`, number)
}

func (r *OrderRepository) List(ctx context.Context, page repository.PageRequest) (repository.Page[entity.Order], error) {
	return r.page(ctx, "", nil, page)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64, page repository.PageRequest) (repository.Page[entity.Order], error) {
	return r.page(ctx, ` WHERE o.user_id = $1`, []any{userID}, page)
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status entity.OrderStatus, page repository.PageRequest) (repository.Page[entity.Order], error) {
	return r.page(ctx, ` WHERE o.status = $1`, []any{string(status)}, page)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, o *entity.Order) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE orders SET status = $1, tracking_number = $2, updated_at = now()
		WHERE id = $3
		RETURNING updated_at
	`, string(o.Status), o.TrackingNumber, o.ID)
	return mapErr(row.Scan(&o.UpdatedAt), "Order")
}

func (r *OrderRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE created_at >= $1 AND created_at < $2`, from, to).Scan(&n)
	return n, err
}

func (r *OrderRepository) RevenueBetween(ctx context.Context, status entity.OrderStatus, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0) FROM orders
		WHERE status = $1 AND created_at >= $2 AND created_at < $3
	`, string(status), from, to).Scan(&total)
	return total, err
}

func (r *OrderRepository) getOne(ctx context.Context, sql string, arg any) (*entity.Order, error) {
	var o entity.Order
	if err := scanOrder(conn(ctx, r.pool).QueryRow(ctx, sql, arg), &o); err != nil {
		return nil, mapErr(err, "Order")
	}
	orders := []entity.Order{o}
	if err := r.hydrate(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *OrderRepository) page(ctx context.Context, where string, args []any, page repository.PageRequest) (repository.Page[entity.Order], error) {
	var res repository.Page[entity.Order]
	q := conn(ctx, r.pool)
	if err := q.QueryRow(ctx, `SELECT count(*) FROM orders o`+where, args...).Scan(&res.Total); err != nil {
		return res, err
	}
	sql := orderSelect + where + orderBy(page, orderSortColumns, "o.created_at DESC, o.id DESC", "o.id") +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := q.Query(ctx, sql, append(args, page.Size, page.Offset())...)
	if err != nil {
		return res, err
	}
	items := make([]entity.Order, 0, page.Size)
	for rows.Next() {
		var o entity.Order
		if err := scanOrder(rows, &o); err != nil {
			rows.Close()
			return res, err
		}
		items = append(items, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return res, err
	}
	if err := r.hydrate(ctx, items); err != nil {
		return res, err
	}
	res.Items = items
	return res, nil
}

// hydrate loads items, payment, user and addresses for a batch of orders.
func (r *OrderRepository) hydrate(ctx context.Context, orders []entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	q := conn(ctx, r.pool)
	orderIDs := make([]int64, 0, len(orders))
	userIDs := make([]int64, 0, len(orders))
	addrIDs := make([]int64, 0, len(orders)*2)
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
		userIDs = append(userIDs, o.UserID)
		if o.ShippingAddressID != 0 {
			addrIDs = append(addrIDs, o.ShippingAddressID)
		}
		if o.BillingAddressID != 0 {
			addrIDs = append(addrIDs, o.BillingAddressID)
		}
	}

	items := map[int64][]entity.OrderItem{}
	rows, err := q.Query(ctx, `
		SELECT id, order_id, product_id, product_name, price, quantity, subtotal
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`, orderIDs)
	if err != nil {
		return err
	}
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity, &it.Subtotal); err != nil {
			rows.Close()
			return err
		}
		items[it.OrderID] = append(items[it.OrderID], it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	payments := map[int64]*entity.Payment{}
	rows, err = q.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = ANY($1)`, orderIDs)
	if err != nil {
		return err
	}
	for rows.Next() {
		p := &entity.Payment{}
		if err := scanPayment(rows, p); err != nil {
			rows.Close()
			return err
		}
		payments[p.OrderID] = p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	users := map[int64]*entity.User{}
	rows, err = q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, userIDs)
	if err != nil {
		return err
	}
	for rows.Next() {
		u := &entity.User{}
		if err := scanUser(rows, u); err != nil {
			rows.Close()
			return err
		}
		users[u.ID] = u
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	addrs := map[int64]*entity.Address{}
	if len(addrIDs) > 0 {
		rows, err = q.Query(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = ANY($1)`, addrIDs)
		if err != nil {
			return err
		}
		for rows.Next() {
			a := &entity.Address{}
			if err := scanAddress(rows, a); err != nil {
				rows.Close()
				return err
			}
			addrs[a.ID] = a
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}

	for i := range orders {
		o := &orders[i]
		o.Items = items[o.ID]
		if o.Items == nil {
			o.Items = []entity.OrderItem{}
		}
		o.Payment = payments[o.ID]
		o.User = users[o.UserID]
		o.ShippingAddress = addrs[o.ShippingAddressID]
		o.BillingAddress = addrs[o.BillingAddressID]
	}
	return nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
