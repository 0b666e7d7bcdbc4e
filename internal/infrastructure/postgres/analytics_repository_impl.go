package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
)

const analyticsColumns = `id, date, total_visitors, unique_visitors, new_users, page_views, orders, total_revenue,
	conversion_rate, bounce_rate, average_session_duration, top_selling_products, top_categories,
	created_at, updated_at`

type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

func scanAnalytics(row scanner, a *entity.Analytics) error {
	return row.Scan(&a.ID, &a.Date, &a.TotalVisitors, &a.UniqueVisitors, &a.NewUsers, &a.PageViews, &a.Orders,
		&a.TotalRevenue, &a.ConversionRate, &a.BounceRate, &a.AverageSessionDuration, &a.TopSellingProducts,
		&a.TopCategories, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AnalyticsRepository) Upsert(ctx context.Context, a *entity.Analytics) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO analytics (date, total_visitors, unique_visitors, new_users, page_views, orders, total_revenue,
		                       conversion_rate, bounce_rate, average_session_duration, top_selling_products,
		                       top_categories)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (date) DO UPDATE SET
			total_visitors = EXCLUDED.total_visitors,
			unique_visitors = EXCLUDED.unique_visitors,
			new_users = EXCLUDED.new_users,
			page_views = EXCLUDED.page_views,
			orders = EXCLUDED.orders,
			total_revenue = EXCLUDED.total_revenue,
			conversion_rate = EXCLUDED.conversion_rate,
			bounce_rate = EXCLUDED.bounce_rate,
			average_session_duration = EXCLUDED.average_session_duration,
			top_selling_products = EXCLUDED.top_selling_products,
			top_categories = EXCLUDED.top_categories,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`, a.Date, a.TotalVisitors, a.UniqueVisitors, a.NewUsers, a.PageViews, a.Orders, a.TotalRevenue,
		a.ConversionRate, a.BounceRate, a.AverageSessionDuration, a.TopSellingProducts, a.TopCategories)
	return mapErr(row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt), "Analytics")
}

func (r *AnalyticsRepository) GetByDate(ctx context.Context, date time.Time) (*entity.Analytics, error) {
	a := &entity.Analytics{}
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+analyticsColumns+` FROM analytics WHERE date = $1`, date)
	if err := scanAnalytics(row, a); err != nil {
		return nil, mapErr(err, "Analytics")
	}
	return a, nil
}

func (r *AnalyticsRepository) ListBetween(ctx context.Context, from, to time.Time) ([]entity.Analytics, error) {
	return r.query(ctx, `SELECT `+analyticsColumns+` FROM analytics WHERE date BETWEEN $1 AND $2 ORDER BY date`, from, to)
}

func (r *AnalyticsRepository) List(ctx context.Context, page repository.PageRequest) (repository.Page[entity.Analytics], error) {
	var res repository.Page[entity.Analytics]
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM analytics`).Scan(&res.Total); err != nil {
		return res, err
	}
	items, err := r.query(ctx, `SELECT `+analyticsColumns+` FROM analytics ORDER BY date DESC LIMIT $1 OFFSET $2`,
		page.Size, page.Offset())
	if err != nil {
		return res, err
	}
	res.Items = items
	return res, nil
}

func (r *AnalyticsRepository) query(ctx context.Context, sql string, args ...any) ([]entity.Analytics, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]entity.Analytics, 0)
	for rows.Next() {
		var a entity.Analytics
		if err := scanAnalytics(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ repository.AnalyticsRepository = (*AnalyticsRepository)(nil)
