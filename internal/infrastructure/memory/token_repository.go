package memory

import (
	"context"
	"time"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

type RefreshTokenRepository struct {
	s *Store
}

func NewRefreshTokenRepository(s *Store) *RefreshTokenRepository {
	return &RefreshTokenRepository{s: s}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, tok *entity.RefreshToken) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		for _, other := range t.refreshTokens {
			if other.Token == tok.Token {
				return apperror.Duplicate("Refresh token with this token already exists")
			}
		}
		tok.ID = t.next("refresh_tokens")
		tok.CreatedAt = now
		t.refreshTokens[tok.ID] = *tok
		return nil
	})
}

func (r *RefreshTokenRepository) GetByToken(_ context.Context, token string) (*entity.RefreshToken, error) {
	var found *entity.RefreshToken
	r.s.read(func(t *tables) {
		for _, tok := range t.refreshTokens {
			if tok.Token == token {
				found = &tok
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("Refresh token not found")
	}
	return found, nil
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		delete(t.refreshTokens, id)
		return nil
	})
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		tok, ok := t.refreshTokens[id]
		if !ok || tok.Revoked {
			return apperror.TokenRefresh("Refresh token was revoked. Please make a new signin request")
		}
		tok.Revoked = true
		t.refreshTokens[id] = tok
		return nil
	})
}

func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		for id, tok := range t.refreshTokens {
			if tok.UserID == userID {
				tok.Revoked = true
				t.refreshTokens[id] = tok
			}
		}
		return nil
	})
}

func (r *RefreshTokenRepository) DeleteRevokedOrExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.s.write(ctx, func(t *tables, _ time.Time) error {
		for id, tok := range t.refreshTokens {
			if tok.Revoked || tok.ExpiryDate.Before(now) {
				delete(t.refreshTokens, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

var _ repository.RefreshTokenRepository = (*RefreshTokenRepository)(nil)

type PasswordResetTokenRepository struct {
	s *Store
}

func NewPasswordResetTokenRepository(s *Store) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{s: s}
}

func (r *PasswordResetTokenRepository) Create(ctx context.Context, tok *entity.PasswordResetToken) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		tok.ID = t.next("password_reset_tokens")
		tok.CreatedAt = now
		t.passwordResets[tok.ID] = *tok
		return nil
	})
}

func (r *PasswordResetTokenRepository) GetByToken(_ context.Context, token string) (*entity.PasswordResetToken, error) {
	var found *entity.PasswordResetToken
	r.s.read(func(t *tables) {
		for _, tok := range t.passwordResets {
			if tok.Token == token {
				found = &tok
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("Password reset token not found")
	}
	return found, nil
}

func (r *PasswordResetTokenRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		for id, tok := range t.passwordResets {
			if tok.UserID == userID {
				delete(t.passwordResets, id)
			}
		}
		return nil
	})
}

func (r *PasswordResetTokenRepository) MarkUsed(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		tok, ok := t.passwordResets[id]
		if !ok || tok.Used {
			return apperror.TokenRefresh("Password reset token has already been used")
		}
		tok.Used = true
		t.passwordResets[id] = tok
		return nil
	})
}

func (r *PasswordResetTokenRepository) DeleteUsedOrExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.s.write(ctx, func(t *tables, _ time.Time) error {
		for id, tok := range t.passwordResets {
			if tok.Used || tok.ExpiryDate.Before(now) {
				delete(t.passwordResets, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

var _ repository.PasswordResetTokenRepository = (*PasswordResetTokenRepository)(nil)
