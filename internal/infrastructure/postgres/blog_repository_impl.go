package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

const blogSelect = `
	SELECT b.id, b.title, b.slug, b.content, b.excerpt, b.featured_image, COALESCE(b.author_id, 0), b.tags,
	       b.published, b.published_at, b.created_at, b.updated_at,
	       COALESCE(u.email, ''), COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.role, '')
	FROM blog_posts b
	LEFT JOIN users u ON u.id = b.author_id`

var blogSortColumns = map[string]string{
	"id":          "b.id",
	"title":       "b.title",
	"createdAt":   "b.created_at",
	"publishedAt": "b.published_at",
}

type BlogPostRepository struct {
	pool *pgxpool.Pool
}

func NewBlogPostRepository(pool *pgxpool.Pool) *BlogPostRepository {
	return &BlogPostRepository{pool: pool}
}

func scanBlogPost(row scanner, p *entity.BlogPost) error {
	var author entity.User
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage, &p.AuthorID, &p.Tags,
		&p.Published, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		&author.Email, &author.FirstName, &author.LastName, &author.Role)
	if err != nil {
		return err
	}
	if p.AuthorID != 0 {
		author.ID = p.AuthorID
		p.Author = &author
	}
	return nil
}

func (r *BlogPostRepository) Create(ctx context.Context, p *entity.BlogPost) error {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO blog_posts (title, slug, content, excerpt, featured_image, author_id, tags, published, published_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0), $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, p.AuthorID, tags, p.Published, p.PublishedAt)
	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt), "Blog post")
}

func (r *BlogPostRepository) Update(ctx context.Context, p *entity.BlogPost) error {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE blog_posts
		SET title = $1, slug = $2, content = $3, excerpt = $4, featured_image = $5, tags = $6,
		    published = $7, published_at = $8, updated_at = now()
		WHERE id = $9
		RETURNING updated_at
	`, p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, tags, p.Published, p.PublishedAt, p.ID)
	return mapErr(row.Scan(&p.UpdatedAt), "Blog post")
}

func (r *BlogPostRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperror.ResourceNotFound("Blog post", "id", id)
	}
	return nil
}

func (r *BlogPostRepository) GetByID(ctx context.Context, id int64) (*entity.BlogPost, error) {
	p := &entity.BlogPost{}
	if err := scanBlogPost(conn(ctx, r.pool).QueryRow(ctx, blogSelect+` WHERE b.id = $1`, id), p); err != nil {
		return nil, mapErr(err, "Blog post")
	}
	return p, nil
}

func (r *BlogPostRepository) GetBySlug(ctx context.Context, slug string) (*entity.BlogPost, error) {
	p := &entity.BlogPost{}
	if err := scanBlogPost(conn(ctx, r.pool).QueryRow(ctx, blogSelect+` WHERE b.slug = $1`, slug), p); err != nil {
		return nil, mapErr(err, "Blog post")
	}
	return p, nil
}

func (r *BlogPostRepository) List(ctx context.Context, page repository.PageRequest) (repository.Page[entity.BlogPost], error) {
	return r.page(ctx, "", nil, page, "b.created_at DESC, b.id DESC")
}

func (r *BlogPostRepository) ListPublished(ctx context.Context, page repository.PageRequest) (repository.Page[entity.BlogPost], error) {
	return r.page(ctx, ` WHERE b.published`, nil, page, "b.published_at DESC NULLS LAST, b.id DESC")
}

func (r *BlogPostRepository) SearchPublished(ctx context.Context, keyword string, page repository.PageRequest) (repository.Page[entity.BlogPost], error) {
	return r.page(ctx, ` WHERE b.published AND (b.title ILIKE $1 OR b.content ILIKE $1)`,
		[]any{likePattern(keyword)}, page, "b.published_at DESC NULLS LAST, b.id DESC")
}

func (r *BlogPostRepository) ListPublishedByTag(ctx context.Context, tag string, page repository.PageRequest) (repository.Page[entity.BlogPost], error) {
	return r.page(ctx, ` WHERE b.published AND $1 = ANY(b.tags)`, []any{tag}, page, "b.published_at DESC NULLS LAST, b.id DESC")
}

func (r *BlogPostRepository) PublishedTags(ctx context.Context) ([]string, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT DISTINCT t FROM blog_posts, unnest(tags) AS t
		WHERE published ORDER BY t`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *BlogPostRepository) page(ctx context.Context, where string, args []any, page repository.PageRequest, def string) (repository.Page[entity.BlogPost], error) {
	var res repository.Page[entity.BlogPost]
	q := conn(ctx, r.pool)
	if err := q.QueryRow(ctx, `SELECT count(*) FROM blog_posts b`+where, args...).Scan(&res.Total); err != nil {
		return res, err
	}
	sql := blogSelect + where + orderBy(page, blogSortColumns, def, "b.id") +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := q.Query(ctx, sql, append(args, page.Size, page.Offset())...)
	if err != nil {
		return res, err
	}
	defer rows.Close()

	res.Items = make([]entity.BlogPost, 0, page.Size)
	for rows.Next() {
		var p entity.BlogPost
		if err := scanBlogPost(rows, &p); err != nil {
			return res, err
		}
		res.Items = append(res.Items, p)
	}
	return res, rows.Err()
}

var _ repository.BlogPostRepository = (*BlogPostRepository)(nil)
