package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

type BlogService struct {
	Repo   repo.BlogPostRepository
	Logger *logrus.Logger

	now func() time.Time
}

func NewBlogService(repo repo.BlogPostRepository, logger *logrus.Logger) *BlogService {
	return &BlogService{Repo: repo, Logger: logger, now: time.Now}
}

func (s *BlogService) ListPublished(ctx context.Context, page repo.PageRequest) (repo.Page[entity.BlogPost], error) {
	return s.Repo.ListPublished(ctx, page)
}

func (s *BlogService) ListAll(ctx context.Context, page repo.PageRequest) (repo.Page[entity.BlogPost], error) {
	return s.Repo.List(ctx, page)
}

func (s *BlogService) Get(ctx context.Context, id int64) (*entity.BlogPost, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "Blog post", "id", id)
	}
	return p, nil
}

func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*entity.BlogPost, error) {
	p, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, orNotFound(err, "Blog post", "slug", slug)
	}
	return p, nil
}

func (s *BlogService) Search(ctx context.Context, keyword string, page repo.PageRequest) (repo.Page[entity.BlogPost], error) {
	return s.Repo.SearchPublished(ctx, keyword, page)
}

func (s *BlogService) ListByTag(ctx context.Context, tag string, page repo.PageRequest) (repo.Page[entity.BlogPost], error) {
	return s.Repo.ListPublishedByTag(ctx, tag, page)
}

func (s *BlogService) Tags(ctx context.Context) ([]string, error) {
	return s.Repo.PublishedTags(ctx)
}

func (s *BlogService) Create(ctx context.Context, authorID int64, p *entity.BlogPost) (*entity.BlogPost, error) {
	p.AuthorID = authorID
	p.Slug = postSlug(p)
	published := p.Published
	p.Published, p.PublishedAt = false, nil
	if published {
		p.Publish(s.now())
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, p.ID)
}

// Update replaces the editable fields. The author and first publication time
// are kept.
func (s *BlogService) Update(ctx context.Context, id int64, in *entity.BlogPost) (*entity.BlogPost, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cur.Title = in.Title
	cur.Content = in.Content
	cur.Excerpt = in.Excerpt
	cur.FeaturedImage = in.FeaturedImage
	cur.Tags = in.Tags
	if in.Slug != "" {
		cur.Slug = in.Slug
	}
	if in.Published {
		cur.Publish(s.now())
	} else {
		cur.Published = false
	}
	if err := s.Repo.Update(ctx, cur); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *BlogService) Delete(ctx context.Context, id int64) error {
	return orNotFound(s.Repo.Delete(ctx, id), "Blog post", "id", id)
}

func postSlug(p *entity.BlogPost) string {
	if slug := strings.TrimSpace(p.Slug); slug != "" {
		return slug
	}
	return helpers.Slugify(p.Title)
}
