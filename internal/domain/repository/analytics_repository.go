package repository

import (
	"context"
	"time"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

type AnalyticsRepository interface {
	// Upsert inserts or replaces the row for a.Date.
	Upsert(ctx context.Context, a *entity.Analytics) error
	GetByDate(ctx context.Context, date time.Time) (*entity.Analytics, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]entity.Analytics, error)
	List(ctx context.Context, page PageRequest) (Page[entity.Analytics], error)
}
