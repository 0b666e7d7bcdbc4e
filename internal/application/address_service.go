package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

// AddressService keeps at most one default address per user. The first
// address a user saves becomes the default.
type AddressService struct {
	Repo   repo.AddressRepository
	Tx     repo.TxManager
	Logger *logrus.Logger
}

func NewAddressService(repo repo.AddressRepository, tx repo.TxManager, logger *logrus.Logger) *AddressService {
	return &AddressService{Repo: repo, Tx: tx, Logger: logger}
}

func (s *AddressService) List(ctx context.Context, userID int64) ([]entity.Address, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *AddressService) Get(ctx context.Context, userID, id int64) (*entity.Address, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "Address", "id", id)
	}
	if a.UserID != userID {
		return nil, apperror.Forbidden("Address does not belong to the user")
	}
	return a, nil
}

func (s *AddressService) Create(ctx context.Context, userID int64, a *entity.Address) (*entity.Address, error) {
	if !a.Type.Valid() {
		return nil, apperror.BadRequest("Invalid address type: %s", a.Type)
	}
	a.UserID = userID
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.Repo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			a.IsDefault = true
		}
		if err := s.Repo.Create(ctx, a); err != nil {
			return err
		}
		if a.IsDefault {
			return s.Repo.UnsetDefault(ctx, userID, a.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the address fields. A default address stays default; use
// another address with isDefault to move the flag.
func (s *AddressService) Update(ctx context.Context, userID, id int64, in *entity.Address) (*entity.Address, error) {
	if !in.Type.Valid() {
		return nil, apperror.BadRequest("Invalid address type: %s", in.Type)
	}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		cur, err := s.Get(ctx, userID, id)
		if err != nil {
			return err
		}
		in.ID = id
		in.UserID = userID
		in.IsDefault = in.IsDefault || cur.IsDefault
		if err := s.Repo.Update(ctx, in); err != nil {
			return err
		}
		if in.IsDefault {
			return s.Repo.UnsetDefault(ctx, userID, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}

// Delete removes an address. When it was the default, the oldest remaining
// address of the user takes over.
func (s *AddressService) Delete(ctx context.Context, userID, id int64) error {
	return s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		cur, err := s.Get(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := s.Repo.Delete(ctx, id); err != nil {
			return err
		}
		if !cur.IsDefault {
			return nil
		}
		rest, err := s.Repo.ListByUser(ctx, userID)
		if err != nil || len(rest) == 0 {
			return err
		}
		next := rest[0]
		next.IsDefault = true
		return s.Repo.Update(ctx, &next)
	})
}
