package repository

import (
	"context"
	"time"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, t *entity.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*entity.RefreshToken, error)
	Delete(ctx context.Context, id int64) error
	Revoke(ctx context.Context, id int64) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteRevokedOrExpired(ctx context.Context, now time.Time) (int64, error)
}

type PasswordResetTokenRepository interface {
	Create(ctx context.Context, t *entity.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)
	DeleteByUser(ctx context.Context, userID int64) error
	MarkUsed(ctx context.Context, id int64) error
	DeleteUsedOrExpired(ctx context.Context, now time.Time) (int64, error)
}
