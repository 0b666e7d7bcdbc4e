package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

const categorySelect = `
	SELECT c.id, c.name, c.slug, c.description, c.image_url, c.parent_id,
	       COALESCE(p.name, ''),
	       EXISTS (SELECT 1 FROM categories ch WHERE ch.parent_id = c.id),
	       c.created_at, c.updated_at
	FROM categories c
	LEFT JOIN categories p ON p.id = c.parent_id`

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func scanCategory(row scanner, c *entity.Category) error {
	return row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.ParentID,
		&c.ParentName, &c.HasChildren, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO categories (name, slug, description, image_url, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Slug, c.Description, c.ImageURL, c.ParentID)
	return mapErr(row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt), "Category")
}

func (r *CategoryRepository) Update(ctx context.Context, c *entity.Category) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE categories
		SET name = $1, slug = $2, description = $3, image_url = $4, parent_id = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`, c.Name, c.Slug, c.Description, c.ImageURL, c.ParentID, c.ID)
	return mapErr(row.Scan(&c.UpdatedAt), "Category")
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "Category")
	}
	if res.RowsAffected() == 0 {
		return apperror.ResourceNotFound("Category", "id", id)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	c := &entity.Category{}
	if err := scanCategory(conn(ctx, r.pool).QueryRow(ctx, categorySelect+` WHERE c.id = $1`, id), c); err != nil {
		return nil, mapErr(err, "Category")
	}
	return c, nil
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	c := &entity.Category{}
	if err := scanCategory(conn(ctx, r.pool).QueryRow(ctx, categorySelect+` WHERE c.slug = $1`, slug), c); err != nil {
		return nil, mapErr(err, "Category")
	}
	return c, nil
}

func (r *CategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE lower(name) = lower($1))`, name).Scan(&ok)
	return ok, err
}

func (r *CategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	return r.query(ctx, categorySelect+` ORDER BY c.name`)
}

func (r *CategoryRepository) ListRoots(ctx context.Context) ([]entity.Category, error) {
	return r.query(ctx, categorySelect+` WHERE c.parent_id IS NULL ORDER BY c.name`)
}

func (r *CategoryRepository) ListChildren(ctx context.Context, parentID int64) ([]entity.Category, error) {
	return r.query(ctx, categorySelect+` WHERE c.parent_id = $1 ORDER BY c.name`, parentID)
}

func (r *CategoryRepository) ListByIDs(ctx context.Context, ids []int64) ([]entity.Category, error) {
	if len(ids) == 0 {
		return []entity.Category{}, nil
	}
	return r.query(ctx, categorySelect+` WHERE c.id = ANY($1) ORDER BY c.id`, ids)
}

func (r *CategoryRepository) query(ctx context.Context, sql string, args ...any) ([]entity.Category, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Category, 0)
	for rows.Next() {
		var c entity.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)
