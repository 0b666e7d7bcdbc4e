package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

const cacheAboutActive = "cache:about:active"

// AboutService manages the about pages. At most one page is active.
type AboutService struct {
	Repo     repo.AboutPageRepository
	Tx       repo.TxManager
	Cache    redis.Cmdable // nil disables caching
	CacheTTL time.Duration
	Logger   *logrus.Logger
}

func NewAboutService(repo repo.AboutPageRepository, tx repo.TxManager, cache redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *AboutService {
	return &AboutService{Repo: repo, Tx: tx, Cache: cache, CacheTTL: ttl, Logger: logger}
}

func (s *AboutService) Active(ctx context.Context) (*entity.AboutPage, error) {
	if s.Cache != nil {
		var p entity.AboutPage
		ok, err := helpers.RedisGetJSON(ctx, s.Cache, cacheAboutActive, &p)
		if err != nil {
			s.Logger.WithError(err).Warn("about cache read failed")
		} else if ok {
			return &p, nil
		}
	}
	p, err := s.Repo.GetActive(ctx)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.NotFound("No active about page found")
		}
		return nil, err
	}
	if s.Cache != nil {
		if err := helpers.RedisSetJSON(ctx, s.Cache, cacheAboutActive, p, s.CacheTTL); err != nil {
			s.Logger.WithError(err).Warn("about cache write failed")
		}
	}
	return p, nil
}

func (s *AboutService) List(ctx context.Context) ([]entity.AboutPage, error) {
	return s.Repo.List(ctx)
}

func (s *AboutService) Get(ctx context.Context, id int64) (*entity.AboutPage, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "About page", "id", id)
	}
	return p, nil
}

func (s *AboutService) Create(ctx context.Context, p *entity.AboutPage) (*entity.AboutPage, error) {
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Repo.Create(ctx, p); err != nil {
			return err
		}
		if p.Active {
			return s.Repo.DeactivateOthers(ctx, p.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *AboutService) Update(ctx context.Context, id int64, in *entity.AboutPage) (*entity.AboutPage, error) {
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		in.ID = id
		if err := s.Repo.Update(ctx, in); err != nil {
			return err
		}
		if in.Active {
			return s.Repo.DeactivateOthers(ctx, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.Repo.GetByID(ctx, id)
}

// Delete refuses to remove the last page while it is active. Deleting the
// active page activates the first remaining one.
func (s *AboutService) Delete(ctx context.Context, id int64) error {
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		cur, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if cur.Active {
			n, err := s.Repo.Count(ctx)
			if err != nil {
				return err
			}
			if n <= 1 {
				return apperror.Conflict("Cannot delete the only active about page")
			}
		}
		if err := s.Repo.Delete(ctx, id); err != nil {
			return err
		}
		if !cur.Active {
			return nil
		}
		rest, err := s.Repo.List(ctx)
		if err != nil || len(rest) == 0 {
			return err
		}
		next := rest[0]
		next.Active = true
		if err := s.Repo.Update(ctx, &next); err != nil {
			return err
		}
		return s.Repo.DeactivateOthers(ctx, next.ID)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *AboutService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Cache, cacheAboutActive); err != nil {
		s.Logger.WithError(err).Warn("about cache invalidation failed")
	}
}
