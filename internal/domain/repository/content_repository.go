package repository

import (
	"context"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

type BlogPostRepository interface {
	Create(ctx context.Context, p *entity.BlogPost) error
	Update(ctx context.Context, p *entity.BlogPost) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entity.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*entity.BlogPost, error)
	List(ctx context.Context, page PageRequest) (Page[entity.BlogPost], error)
	ListPublished(ctx context.Context, page PageRequest) (Page[entity.BlogPost], error)
	SearchPublished(ctx context.Context, keyword string, page PageRequest) (Page[entity.BlogPost], error)
	ListPublishedByTag(ctx context.Context, tag string, page PageRequest) (Page[entity.BlogPost], error)
	PublishedTags(ctx context.Context) ([]string, error)
}

type AboutPageRepository interface {
	Create(ctx context.Context, p *entity.AboutPage) error
	Update(ctx context.Context, p *entity.AboutPage) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entity.AboutPage, error)
	GetActive(ctx context.Context) (*entity.AboutPage, error)
	List(ctx context.Context) ([]entity.AboutPage, error)
	Count(ctx context.Context) (int64, error)
	// DeactivateOthers sets active=false on every page except exceptID.
	DeactivateOthers(ctx context.Context, exceptID int64) error
}
