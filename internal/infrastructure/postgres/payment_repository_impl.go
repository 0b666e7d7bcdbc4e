package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

const paymentColumns = `id, order_id, transaction_id, payment_method, status, amount, created_at, updated_at`

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func scanPayment(row scanner, p *entity.Payment) error {
	return row.Scan(&p.ID, &p.OrderID, &p.TransactionID, &p.Method, &p.Status, &p.Amount, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO payments (order_id, transaction_id, payment_method, status, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.OrderID, p.TransactionID, string(p.Method), string(p.Status), p.Amount)
	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt), "Payment")
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID int64) (*entity.Payment, error) {
	p := &entity.Payment{}
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID)
	if err := scanPayment(row, p); err != nil {
		return nil, mapErr(err, "Payment")
	}
	return p, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status entity.PaymentStatus) error {
	res, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE payments SET status = $1, updated_at = now() WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperror.ResourceNotFound("Payment", "id", id)
	}
	return nil
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)
