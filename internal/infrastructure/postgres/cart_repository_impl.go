package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) Create(ctx context.Context, c *entity.Cart) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO carts (user_id) VALUES ($1)
		RETURNING id, created_at, updated_at
	`, c.UserID)
	return mapErr(row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt), "Cart")
}

func (r *CartRepository) GetByUserID(ctx context.Context, userID int64) (*entity.Cart, error) {
	q := conn(ctx, r.pool)
	c := &entity.Cart{}
	err := q.QueryRow(ctx, `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID).
		Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err, "Cart")
	}

	rows, err := q.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,`+productColumns+productFrom+`
		JOIN cart_items ci ON ci.product_id = p.id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c.Items = make([]entity.CartItem, 0)
	for rows.Next() {
		it := entity.CartItem{Product: &entity.Product{}}
		dest := append([]any{&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt},
			productDest(it.Product)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, it)
	}
	return c, rows.Err()
}

func (r *CartRepository) AddItem(ctx context.Context, item *entity.CartItem) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, item.CartID, item.ProductID, item.Quantity)
	return mapErr(row.Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt), "Cart item")
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	res, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE cart_items SET quantity = $1, updated_at = now() WHERE id = $2`, quantity, itemID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperror.ResourceNotFound("Cart item", "id", itemID)
	}
	return nil
}

func (r *CartRepository) DeleteItem(ctx context.Context, itemID int64) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperror.ResourceNotFound("Cart item", "id", itemID)
	}
	return nil
}

func (r *CartRepository) ClearItems(ctx context.Context, cartID int64) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}

func (r *CartRepository) Touch(ctx context.Context, cartID int64) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	return err
}

var _ repository.CartRepository = (*CartRepository)(nil)
