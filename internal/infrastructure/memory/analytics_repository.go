package memory

import (
	"context"
	"slices"
	"time"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

type AnalyticsRepository struct {
	s *Store
}

func NewAnalyticsRepository(s *Store) *AnalyticsRepository {
	return &AnalyticsRepository{s: s}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (r *AnalyticsRepository) Upsert(ctx context.Context, a *entity.Analytics) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		for id, cur := range t.analytics {
			if sameDay(cur.Date, a.Date) {
				a.ID, a.CreatedAt, a.UpdatedAt = id, cur.CreatedAt, now
				t.analytics[id] = *a
				return nil
			}
		}
		a.ID = t.next("analytics")
		a.CreatedAt, a.UpdatedAt = now, now
		t.analytics[a.ID] = *a
		return nil
	})
}

func (r *AnalyticsRepository) GetByDate(_ context.Context, date time.Time) (*entity.Analytics, error) {
	var found *entity.Analytics
	r.s.read(func(t *tables) {
		for _, a := range t.analytics {
			if sameDay(a.Date, date) {
				found = &a
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("Analytics not found")
	}
	return found, nil
}

func (r *AnalyticsRepository) ListBetween(_ context.Context, from, to time.Time) ([]entity.Analytics, error) {
	var out []entity.Analytics
	r.s.read(func(t *tables) {
		out = sortedValues(t.analytics, func(a entity.Analytics) bool {
			return !a.Date.Before(from) && !a.Date.After(to)
		})
	})
	slices.SortFunc(out, func(a, b entity.Analytics) int { return a.Date.Compare(b.Date) })
	return out, nil
}

func (r *AnalyticsRepository) List(_ context.Context, page repository.PageRequest) (repository.Page[entity.Analytics], error) {
	var all []entity.Analytics
	r.s.read(func(t *tables) { all = sortedValues(t.analytics, nil) })
	return paginate(all, page, nil, func(a, b entity.Analytics) int {
		return timeDesc(a.Date, b.Date)
	}, func(a entity.Analytics) int64 { return a.ID }), nil
}

var _ repository.AnalyticsRepository = (*AnalyticsRepository)(nil)
