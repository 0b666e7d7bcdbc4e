package memory

import (
	"context"
	"strings"
	"time"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func emailTaken(t *tables, email string, except int64) bool {
	for _, u := range t.users {
		if u.ID != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		if emailTaken(t, u.Email, 0) {
			return apperror.Duplicate("User with this email already exists")
		}
		u.ID = t.next("users")
		u.CreatedAt, u.UpdatedAt = now, now
		t.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var (
		u  entity.User
		ok bool
	)
	r.s.read(func(t *tables) { u, ok = t.users[id] })
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var found *entity.User
	r.s.read(func(t *tables) {
		for _, u := range t.users {
			if strings.EqualFold(u.Email, email) {
				found = &u
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("User not found")
	}
	return found, nil
}

func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	var ok bool
	r.s.read(func(t *tables) { ok = emailTaken(t, email, 0) })
	return ok, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		cur, ok := t.users[u.ID]
		if !ok {
			return apperror.NotFound("User not found")
		}
		if emailTaken(t, u.Email, u.ID) {
			return apperror.Duplicate("User with this email already exists")
		}
		u.Password = cur.Password
		u.CreatedAt, u.UpdatedAt = cur.CreatedAt, now
		t.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		u, ok := t.users[id]
		if !ok {
			return apperror.NotFound("User not found")
		}
		u.Password, u.UpdatedAt = hash, now
		t.users[id] = u
		return nil
	})
}

var _ repository.UserRepository = (*UserRepository)(nil)
