package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

const addressColumns = `id, user_id, full_name, address_line1, address_line2, city, state, postal_code,
	country, phone, is_default, type, created_at, updated_at`

type AddressRepository struct {
	pool *pgxpool.Pool
}

func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

func scanAddress(row scanner, a *entity.Address) error {
	return row.Scan(&a.ID, &a.UserID, &a.FullName, &a.AddressLine1, &a.AddressLine2, &a.City, &a.State,
		&a.PostalCode, &a.Country, &a.Phone, &a.IsDefault, &a.Type, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AddressRepository) Create(ctx context.Context, a *entity.Address) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO addresses (user_id, full_name, address_line1, address_line2, city, state, postal_code,
		                       country, phone, is_default, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, a.UserID, a.FullName, a.AddressLine1, a.AddressLine2, a.City, a.State, a.PostalCode,
		a.Country, a.Phone, a.IsDefault, string(a.Type))
	return mapErr(row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt), "Address")
}

func (r *AddressRepository) Update(ctx context.Context, a *entity.Address) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE addresses
		SET full_name = $1, address_line1 = $2, address_line2 = $3, city = $4, state = $5, postal_code = $6,
		    country = $7, phone = $8, is_default = $9, type = $10, updated_at = now()
		WHERE id = $11
		RETURNING updated_at
	`, a.FullName, a.AddressLine1, a.AddressLine2, a.City, a.State, a.PostalCode,
		a.Country, a.Phone, a.IsDefault, string(a.Type), a.ID)
	return mapErr(row.Scan(&a.UpdatedAt), "Address")
}

func (r *AddressRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "Address")
	}
	if res.RowsAffected() == 0 {
		return apperror.ResourceNotFound("Address", "id", id)
	}
	return nil
}

func (r *AddressRepository) GetByID(ctx context.Context, id int64) (*entity.Address, error) {
	a := &entity.Address{}
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id)
	if err := scanAddress(row, a); err != nil {
		return nil, mapErr(err, "Address")
	}
	return a, nil
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Address, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Address, 0)
	for rows.Next() {
		var a entity.Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AddressRepository) UnsetDefault(ctx context.Context, userID, exceptID int64) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE addresses SET is_default = FALSE, updated_at = now()
		WHERE user_id = $1 AND id <> $2 AND is_default
	`, userID, exceptID)
	return err
}

var _ repository.AddressRepository = (*AddressRepository)(nil)
