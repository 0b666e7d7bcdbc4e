package application

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

const (
	cacheCategoriesAll   = "cache:categories:all"
	cacheCategoriesRoots = "cache:categories:roots"
)

type CategoryService struct {
	Repo     repo.CategoryRepository
	Cache    redis.Cmdable // nil disables caching
	CacheTTL time.Duration
	Logger   *logrus.Logger
}

func NewCategoryService(repo repo.CategoryRepository, cache redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *CategoryService {
	return &CategoryService{Repo: repo, Cache: cache, CacheTTL: ttl, Logger: logger}
}

func (s *CategoryService) List(ctx context.Context) ([]entity.Category, error) {
	return s.cached(ctx, cacheCategoriesAll, s.Repo.List)
}

func (s *CategoryService) ListRoots(ctx context.Context) ([]entity.Category, error) {
	return s.cached(ctx, cacheCategoriesRoots, s.Repo.ListRoots)
}

func (s *CategoryService) cached(ctx context.Context, key string, load func(context.Context) ([]entity.Category, error)) ([]entity.Category, error) {
	if s.Cache != nil {
		var out []entity.Category
		ok, err := helpers.RedisGetJSON(ctx, s.Cache, key, &out)
		if err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("category cache read failed")
		} else if ok {
			return out, nil
		}
	}
	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if err := helpers.RedisSetJSON(ctx, s.Cache, key, out, s.CacheTTL); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("category cache write failed")
		}
	}
	return out, nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Cache, cacheCategoriesAll, cacheCategoriesRoots); err != nil {
		s.Logger.WithError(err).Warn("category cache invalidation failed")
	}
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*entity.Category, error) {
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "Category", "id", id)
	}
	return c, nil
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	c, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, orNotFound(err, "Category", "slug", slug)
	}
	return c, nil
}

func (s *CategoryService) Subcategories(ctx context.Context, parentID int64) ([]entity.Category, error) {
	if _, err := s.Repo.GetByID(ctx, parentID); err != nil {
		return nil, orNotFound(err, "Parent category", "id", parentID)
	}
	return s.Repo.ListChildren(ctx, parentID)
}

func (s *CategoryService) Create(ctx context.Context, c *entity.Category) (*entity.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	exists, err := s.Repo.ExistsByName(ctx, c.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Duplicate("Category already exists with name: %s", c.Name)
	}
	if c.ParentID != nil {
		if _, err := s.Repo.GetByID(ctx, *c.ParentID); err != nil {
			return nil, orNotFound(err, "Parent category", "id", *c.ParentID)
		}
	}
	if c.Slug == "" {
		c.Slug = helpers.Slugify(c.Name)
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.Get(ctx, c.ID)
}

// Update replaces the editable fields. A nil ParentID moves the category to the root.
func (s *CategoryService) Update(ctx context.Context, id int64, in *entity.Category) (*entity.Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name != c.Name {
		exists, err := s.Repo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.Duplicate("Category already exists with name: %s", name)
		}
	}
	if in.ParentID != nil {
		if *in.ParentID == id {
			return nil, apperror.BadRequest("Category cannot be its own parent")
		}
		if _, err := s.Repo.GetByID(ctx, *in.ParentID); err != nil {
			return nil, orNotFound(err, "Parent category", "id", *in.ParentID)
		}
	}

	c.Name = name
	c.Description = in.Description
	c.ImageURL = in.ImageURL
	c.ParentID = in.ParentID
	if in.Slug != "" {
		c.Slug = in.Slug
	}
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete fails with a conflict while products still reference the category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			return apperror.Conflict("Category %d still has products", id)
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}
