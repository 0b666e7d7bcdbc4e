package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

const productColumns = `
	p.id, p.name, p.slug, p.description, p.price, p.discount_price, p.stock, p.sku, p.category_id,
	p.images, p.attributes, p.active, p.featured, p.created_at, p.updated_at,
	c.id, c.name, c.slug, c.description, c.image_url, c.parent_id, COALESCE(cp.name, ''),
	EXISTS (SELECT 1 FROM categories ch WHERE ch.parent_id = c.id),
	c.created_at, c.updated_at`

const productFrom = `
	FROM products p
	JOIN categories c ON c.id = p.category_id
	LEFT JOIN categories cp ON cp.id = c.parent_id`

const productSelect = `SELECT` + productColumns + productFrom

var productSortColumns = map[string]string{
	"id":        "p.id",
	"name":      "p.name",
	"price":     "p.price",
	"stock":     "p.stock",
	"createdAt": "p.created_at",
}

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// productDest lists scan targets matching productSelect.
func productDest(p *entity.Product) []any {
	if p.Category == nil {
		p.Category = &entity.Category{}
	}
	c := p.Category
	return []any{
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.DiscountPrice, &p.Stock, &p.SKU, &p.CategoryID,
		&p.Images, &p.Attributes, &p.Active, &p.Featured, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.ParentID, &c.ParentName,
		&c.HasChildren, &c.CreatedAt, &c.UpdatedAt,
	}
}

func writableProduct(p *entity.Product) ([]string, map[string]string) {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	attrs := p.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	return images, attrs
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	images, attrs := writableProduct(p)
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO products (name, slug, description, price, discount_price, stock, sku, category_id,
		                      images, attributes, active, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Slug, p.Description, p.Price, p.DiscountPrice, p.Stock, p.SKU, p.CategoryID,
		images, attrs, p.Active, p.Featured)
	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt), "Product")
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	images, attrs := writableProduct(p)
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE products
		SET name = $1, slug = $2, description = $3, price = $4, discount_price = $5, stock = $6, sku = $7,
		    category_id = $8, images = $9, attributes = $10, active = $11, featured = $12, updated_at = now()
		WHERE id = $13
		RETURNING updated_at
	`, p.Name, p.Slug, p.Description, p.Price, p.DiscountPrice, p.Stock, p.SKU, p.CategoryID,
		images, attrs, p.Active, p.Featured, p.ID)
	return mapErr(row.Scan(&p.UpdatedAt), "Product")
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "Product")
	}
	if res.RowsAffected() == 0 {
		return apperror.ResourceNotFound("Product", "id", id)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p := &entity.Product{}
	if err := conn(ctx, r.pool).QueryRow(ctx, productSelect+` WHERE p.id = $1`, id).Scan(productDest(p)...); err != nil {
		return nil, mapErr(err, "Product")
	}
	return p, nil
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	p := &entity.Product{}
	if err := conn(ctx, r.pool).QueryRow(ctx, productSelect+` WHERE p.slug = $1`, slug).Scan(productDest(p)...); err != nil {
		return nil, mapErr(err, "Product")
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, page repository.PageRequest) (repository.Page[entity.Product], error) {
	return r.page(ctx, "", nil, page)
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID int64, page repository.PageRequest) (repository.Page[entity.Product], error) {
	return r.page(ctx, ` WHERE p.category_id = $1`, []any{categoryID}, page)
}

func (r *ProductRepository) Search(ctx context.Context, keyword string, page repository.PageRequest) (repository.Page[entity.Product], error) {
	return r.page(ctx, ` WHERE p.name ILIKE $1 OR p.description ILIKE $1`, []any{likePattern(keyword)}, page)
}

func (r *ProductRepository) ListFeatured(ctx context.Context, limit int) ([]entity.Product, error) {
	return r.query(ctx, productSelect+` WHERE p.active AND p.featured ORDER BY p.created_at DESC, p.id DESC LIMIT $1`, limit)
}

func (r *ProductRepository) ListLowStock(ctx context.Context, threshold int) ([]entity.Product, error) {
	return r.query(ctx, productSelect+` WHERE p.stock < $1 ORDER BY p.stock, p.id`, threshold)
}

func (r *ProductRepository) ListByIDs(ctx context.Context, ids []int64) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	return r.query(ctx, productSelect+` WHERE p.id = ANY($1) ORDER BY p.id`, ids)
}

func (r *ProductRepository) AdjustStock(ctx context.Context, id int64, delta int) (int, error) {
	q := conn(ctx, r.pool)
	var stock int
	err := q.QueryRow(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING stock
	`, id, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	var name string
	var current int
	if err := q.QueryRow(ctx, `SELECT name, stock FROM products WHERE id = $1`, id).Scan(&name, &current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.ResourceNotFound("Product", "id", id)
		}
		return 0, err
	}
	return 0, apperror.InsufficientStock("Insufficient stock for product %s: available %d, requested %d", name, current, -delta)
}

func (r *ProductRepository) BestSelling(ctx context.Context, limit int) ([]entity.RankedItem, error) {
	return r.ranked(ctx, `
		SELECT p.id, p.name, SUM(oi.quantity) AS qty
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		GROUP BY p.id, p.name
		ORDER BY qty DESC, p.id
		LIMIT $1`, limit)
}

func (r *ProductRepository) BestSellingCategories(ctx context.Context, limit int) ([]entity.RankedItem, error) {
	return r.ranked(ctx, `
		SELECT c.id, c.name, SUM(oi.quantity) AS qty
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		JOIN categories c ON c.id = p.category_id
		GROUP BY c.id, c.name
		ORDER BY qty DESC, c.id
		LIMIT $1`, limit)
}

func (r *ProductRepository) ranked(ctx context.Context, sql string, limit int) ([]entity.RankedItem, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]entity.RankedItem, 0, limit)
	for rows.Next() {
		var it entity.RankedItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *ProductRepository) page(ctx context.Context, where string, args []any, page repository.PageRequest) (repository.Page[entity.Product], error) {
	var res repository.Page[entity.Product]
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM products p`+where, args...).Scan(&res.Total); err != nil {
		return res, err
	}
	sql := productSelect + where + orderBy(page, productSortColumns, "p.id ASC", "p.id") +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	items, err := r.query(ctx, sql, append(args, page.Size, page.Offset())...)
	if err != nil {
		return res, err
	}
	res.Items = items
	return res, nil
}

func (r *ProductRepository) query(ctx context.Context, sql string, args ...any) ([]entity.Product, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Product, 0)
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(productDest(&p)...); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
