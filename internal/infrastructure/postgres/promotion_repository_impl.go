package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

const promotionSelect = `
	SELECT p.id, p.code, p.name, p.description, p.type, p.value, p.minimum_order_amount,
	       p.maximum_discount_amount, p.start_date, p.end_date, p.active, p.usage_limit, p.usage_count,
	       COALESCE((SELECT array_agg(pc.category_id ORDER BY pc.category_id)
	                 FROM promotion_categories pc WHERE pc.promotion_id = p.id), '{}'),
	       COALESCE((SELECT array_agg(pp.product_id ORDER BY pp.product_id)
	                 FROM promotion_products pp WHERE pp.promotion_id = p.id), '{}'),
	       p.created_at, p.updated_at
	FROM promotions p`

var promotionSortColumns = map[string]string{
	"id":        "p.id",
	"code":      "p.code",
	"name":      "p.name",
	"createdAt": "p.created_at",
	"startDate": "p.start_date",
	"endDate":   "p.end_date",
}

type PromotionRepository struct {
	pool *pgxpool.Pool
}

func NewPromotionRepository(pool *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

func scanPromotion(row scanner, p *entity.Promotion) error {
	return row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Type, &p.Value, &p.MinimumOrderAmount,
		&p.MaximumDiscountAmount, &p.StartDate, &p.EndDate, &p.Active, &p.UsageLimit, &p.UsageCount,
		&p.CategoryIDs, &p.ProductIDs, &p.CreatedAt, &p.UpdatedAt)
}

// Create inserts the promotion and its applicability sets; call inside a transaction.
func (r *PromotionRepository) Create(ctx context.Context, p *entity.Promotion) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO promotions (code, name, description, type, value, minimum_order_amount,
		                        maximum_discount_amount, start_date, end_date, active, usage_limit, usage_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, p.Code, p.Name, p.Description, string(p.Type), p.Value, p.MinimumOrderAmount,
		p.MaximumDiscountAmount, p.StartDate, p.EndDate, p.Active, p.UsageLimit, p.UsageCount)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return mapErr(err, "Promotion")
	}
	return r.writeSets(ctx, p)
}

// Update rewrites the promotion row and replaces its applicability sets.
func (r *PromotionRepository) Update(ctx context.Context, p *entity.Promotion) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE promotions
		SET code = $1, name = $2, description = $3, type = $4, value = $5, minimum_order_amount = $6,
		    maximum_discount_amount = $7, start_date = $8, end_date = $9, active = $10, usage_limit = $11,
		    updated_at = now()
		WHERE id = $12
		RETURNING updated_at
	`, p.Code, p.Name, p.Description, string(p.Type), p.Value, p.MinimumOrderAmount,
		p.MaximumDiscountAmount, p.StartDate, p.EndDate, p.Active, p.UsageLimit, p.ID)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		return mapErr(err, "Promotion")
	}
	return r.writeSets(ctx, p)
}

func (r *PromotionRepository) writeSets(ctx context.Context, p *entity.Promotion) error {
	q := conn(ctx, r.pool)
	if _, err := q.Exec(ctx, `DELETE FROM promotion_categories WHERE promotion_id = $1`, p.ID); err != nil {
		return err
	}
	if _, err := q.Exec(ctx, `DELETE FROM promotion_products WHERE promotion_id = $1`, p.ID); err != nil {
		return err
	}
	if len(p.CategoryIDs) > 0 {
		if _, err := q.Exec(ctx, `
			INSERT INTO promotion_categories (promotion_id, category_id)
			SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`, p.ID, p.CategoryIDs); err != nil {
			return mapErr(err, "Promotion")
		}
	}
	if len(p.ProductIDs) > 0 {
		if _, err := q.Exec(ctx, `
			INSERT INTO promotion_products (promotion_id, product_id)
			SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`, p.ID, p.ProductIDs); err != nil {
			return mapErr(err, "Promotion")
		}
	}
	return nil
}

func (r *PromotionRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperror.ResourceNotFound("Promotion", "id", id)
	}
	return nil
}

func (r *PromotionRepository) GetByID(ctx context.Context, id int64) (*entity.Promotion, error) {
	p := &entity.Promotion{}
	if err := scanPromotion(conn(ctx, r.pool).QueryRow(ctx, promotionSelect+` WHERE p.id = $1`, id), p); err != nil {
		return nil, mapErr(err, "Promotion")
	}
	return p, nil
}

func (r *PromotionRepository) GetByCode(ctx context.Context, code string) (*entity.Promotion, error) {
	p := &entity.Promotion{}
	if err := scanPromotion(conn(ctx, r.pool).QueryRow(ctx, promotionSelect+` WHERE p.code = $1`, code), p); err != nil {
		return nil, mapErr(err, "Promotion")
	}
	return p, nil
}

func (r *PromotionRepository) FindValidByCode(ctx context.Context, code string, at time.Time) (*entity.Promotion, error) {
	p := &entity.Promotion{}
	row := conn(ctx, r.pool).QueryRow(ctx, promotionSelect+`
		WHERE p.code = $1 AND p.active AND p.start_date <= $2 AND p.end_date >= $2
		  AND p.usage_count < p.usage_limit`, code, at)
	if err := scanPromotion(row, p); err != nil {
		return nil, mapErr(err, "Promotion")
	}
	return p, nil
}

func (r *PromotionRepository) List(ctx context.Context, page repository.PageRequest) (repository.Page[entity.Promotion], error) {
	return r.page(ctx, "", page)
}

func (r *PromotionRepository) ListActive(ctx context.Context, page repository.PageRequest) (repository.Page[entity.Promotion], error) {
	return r.page(ctx, ` WHERE p.active`, page)
}

func (r *PromotionRepository) IncrementUsage(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE promotions SET usage_count = usage_count + 1, updated_at = now()
		WHERE id = $1 AND usage_count < usage_limit`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperror.Conflict("Promotion usage limit reached")
	}
	return nil
}

func (r *PromotionRepository) page(ctx context.Context, where string, page repository.PageRequest) (repository.Page[entity.Promotion], error) {
	var res repository.Page[entity.Promotion]
	q := conn(ctx, r.pool)
	if err := q.QueryRow(ctx, `SELECT count(*) FROM promotions p`+where).Scan(&res.Total); err != nil {
		return res, err
	}
	sql := promotionSelect + where + orderBy(page, promotionSortColumns, "p.created_at DESC, p.id DESC", "p.id") +
		" LIMIT $1 OFFSET $2"
	rows, err := q.Query(ctx, sql, page.Size, page.Offset())
	if err != nil {
		return res, err
	}
	defer rows.Close()

	res.Items = make([]entity.Promotion, 0, page.Size)
	for rows.Next() {
		var p entity.Promotion
		if err := scanPromotion(rows, &p); err != nil {
			return res, err
		}
		res.Items = append(res.Items, p)
	}
	return res, rows.Err()
}

var _ repository.PromotionRepository = (*PromotionRepository)(nil)
