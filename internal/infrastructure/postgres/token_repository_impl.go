package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

type RefreshTokenRepository struct {
	pool *pgxpool.Pool
}

func NewRefreshTokenRepository(pool *pgxpool.Pool) *RefreshTokenRepository {
	return &RefreshTokenRepository{pool: pool}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *entity.RefreshToken) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO refresh_tokens (user_id, token, expiry_date, revoked)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, t.UserID, t.Token, t.ExpiryDate, t.Revoked)
	return mapErr(row.Scan(&t.ID, &t.CreatedAt), "Refresh token")
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	t := &entity.RefreshToken{}
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, user_id, token, expiry_date, revoked, created_at
		FROM refresh_tokens WHERE token = $1
	`, token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiryDate, &t.Revoked, &t.CreatedAt)
	if err != nil {
		return nil, mapErr(err, "Refresh token")
	}
	return t, nil
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, id int64) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id)
	return err
}

// Revoke marks the token revoked. Only one caller can win for a given token;
// the others get a TokenRefresh error.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1 AND NOT revoked`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperror.TokenRefresh("Refresh token was revoked. Please make a new signin request")
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND NOT revoked`, userID)
	return err
}

func (r *RefreshTokenRepository) DeleteRevokedOrExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM refresh_tokens WHERE revoked OR expiry_date < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.RefreshTokenRepository = (*RefreshTokenRepository)(nil)

type PasswordResetTokenRepository struct {
	pool *pgxpool.Pool
}

func NewPasswordResetTokenRepository(pool *pgxpool.Pool) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{pool: pool}
}

func (r *PasswordResetTokenRepository) Create(ctx context.Context, t *entity.PasswordResetToken) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO password_reset_tokens (user_id, token, expiry_date, used)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, t.UserID, t.Token, t.ExpiryDate, t.Used)
	return mapErr(row.Scan(&t.ID, &t.CreatedAt), "Password reset token")
}

func (r *PasswordResetTokenRepository) GetByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	t := &entity.PasswordResetToken{}
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, user_id, token, expiry_date, used, created_at
		FROM password_reset_tokens WHERE token = $1
	`, token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiryDate, &t.Used, &t.CreatedAt)
	if err != nil {
		return nil, mapErr(err, "Password reset token")
	}
	return t, nil
}

func (r *PasswordResetTokenRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, userID)
	return err
}

func (r *PasswordResetTokenRepository) MarkUsed(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE password_reset_tokens SET used = TRUE WHERE id = $1 AND NOT used`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperror.TokenRefresh("Password reset token has already been used")
	}
	return nil
}

func (r *PasswordResetTokenRepository) DeleteUsedOrExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM password_reset_tokens WHERE used OR expiry_date < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.PasswordResetTokenRepository = (*PasswordResetTokenRepository)(nil)
