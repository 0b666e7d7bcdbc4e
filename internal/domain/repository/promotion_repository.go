package repository

import (
	"context"
	"time"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

// PromotionRepository stores promotions with their applicable category and product id sets.
type PromotionRepository interface {
	Create(ctx context.Context, p *entity.Promotion) error
	Update(ctx context.Context, p *entity.Promotion) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entity.Promotion, error)
	GetByCode(ctx context.Context, code string) (*entity.Promotion, error)
	FindValidByCode(ctx context.Context, code string, at time.Time) (*entity.Promotion, error)
	List(ctx context.Context, page PageRequest) (Page[entity.Promotion], error)
	ListActive(ctx context.Context, page PageRequest) (Page[entity.Promotion], error)
	IncrementUsage(ctx context.Context, id int64) error
}
