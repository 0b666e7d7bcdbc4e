package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

const aboutColumns = `id, title, content, hero_image, mission_statement, vision_statement, active, created_at, updated_at`

type AboutPageRepository struct {
	pool *pgxpool.Pool
}

func NewAboutPageRepository(pool *pgxpool.Pool) *AboutPageRepository {
	return &AboutPageRepository{pool: pool}
}

func scanAbout(row scanner, p *entity.AboutPage) error {
	return row.Scan(&p.ID, &p.Title, &p.Content, &p.HeroImage, &p.MissionStatement, &p.VisionStatement,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
}

func (r *AboutPageRepository) Create(ctx context.Context, p *entity.AboutPage) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO about_pages (title, content, hero_image, mission_statement, vision_statement, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Content, p.HeroImage, p.MissionStatement, p.VisionStatement, p.Active)
	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt), "About page")
}

func (r *AboutPageRepository) Update(ctx context.Context, p *entity.AboutPage) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE about_pages
		SET title = $1, content = $2, hero_image = $3, mission_statement = $4, vision_statement = $5,
		    active = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`, p.Title, p.Content, p.HeroImage, p.MissionStatement, p.VisionStatement, p.Active, p.ID)
	return mapErr(row.Scan(&p.UpdatedAt), "About page")
}

func (r *AboutPageRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM about_pages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperror.ResourceNotFound("About page", "id", id)
	}
	return nil
}

func (r *AboutPageRepository) GetByID(ctx context.Context, id int64) (*entity.AboutPage, error) {
	p := &entity.AboutPage{}
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+aboutColumns+` FROM about_pages WHERE id = $1`, id)
	if err := scanAbout(row, p); err != nil {
		return nil, mapErr(err, "About page")
	}
	return p, nil
}

func (r *AboutPageRepository) GetActive(ctx context.Context) (*entity.AboutPage, error) {
	p := &entity.AboutPage{}
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+aboutColumns+` FROM about_pages WHERE active ORDER BY updated_at DESC LIMIT 1`)
	if err := scanAbout(row, p); err != nil {
		return nil, mapErr(err, "About page")
	}
	return p, nil
}

func (r *AboutPageRepository) List(ctx context.Context) ([]entity.AboutPage, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+aboutColumns+` FROM about_pages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]entity.AboutPage, 0)
	for rows.Next() {
		var p entity.AboutPage
		if err := scanAbout(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *AboutPageRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM about_pages`).Scan(&n)
	return n, err
}

func (r *AboutPageRepository) DeactivateOthers(ctx context.Context, exceptID int64) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE about_pages SET active = FALSE, updated_at = now() WHERE active AND id <> $1`, exceptID)
	return err
}

var _ repository.AboutPageRepository = (*AboutPageRepository)(nil)
