package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

type PromotionRepository struct {
	s *Store
}

func NewPromotionRepository(s *Store) *PromotionRepository {
	return &PromotionRepository{s: s}
}

var promotionSortKeys = sortKeys[entity.Promotion]{
	"id":        byID(func(p entity.Promotion) int64 { return p.ID }),
	"code":      func(a, b entity.Promotion) int { return cmp.Compare(a.Code, b.Code) },
	"name":      func(a, b entity.Promotion) int { return cmp.Compare(a.Name, b.Name) },
	"startDate": func(a, b entity.Promotion) int { return a.StartDate.Compare(b.StartDate) },
	"endDate":   func(a, b entity.Promotion) int { return a.EndDate.Compare(b.EndDate) },
	"createdAt": func(a, b entity.Promotion) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

func promotionRow(p entity.Promotion) entity.Promotion {
	p.CategoryIDs = sortedIDs(p.CategoryIDs)
	p.ProductIDs = sortedIDs(p.ProductIDs)
	p.Categories, p.Products = nil, nil
	return p
}

func sortedIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []int64{}
	}
	return out
}

func promotionConflict(t *tables, p *entity.Promotion) error {
	for _, other := range t.promotions {
		if other.ID != p.ID && other.Code == p.Code {
			return apperror.Duplicate("Promotion with this code already exists")
		}
	}
	for _, id := range p.CategoryIDs {
		if _, ok := t.categories[id]; !ok {
			return apperror.Conflict("Promotion is referenced by other records")
		}
	}
	for _, id := range p.ProductIDs {
		if _, ok := t.products[id]; !ok {
			return apperror.Conflict("Promotion is referenced by other records")
		}
	}
	return nil
}

func (r *PromotionRepository) Create(ctx context.Context, p *entity.Promotion) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		if err := promotionConflict(t, p); err != nil {
			return err
		}
		p.ID = t.next("promotions")
		p.CreatedAt, p.UpdatedAt = now, now
		row := promotionRow(*p)
		p.CategoryIDs, p.ProductIDs = row.CategoryIDs, row.ProductIDs
		t.promotions[p.ID] = row
		return nil
	})
}

func (r *PromotionRepository) Update(ctx context.Context, p *entity.Promotion) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		cur, ok := t.promotions[p.ID]
		if !ok {
			return apperror.NotFound("Promotion not found")
		}
		if err := promotionConflict(t, p); err != nil {
			return err
		}
		p.UsageCount = cur.UsageCount
		p.CreatedAt, p.UpdatedAt = cur.CreatedAt, now
		row := promotionRow(*p)
		p.CategoryIDs, p.ProductIDs = row.CategoryIDs, row.ProductIDs
		t.promotions[p.ID] = row
		return nil
	})
}

func (r *PromotionRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		if _, ok := t.promotions[id]; !ok {
			return apperror.ResourceNotFound("Promotion", "id", id)
		}
		delete(t.promotions, id)
		return nil
	})
}

func (r *PromotionRepository) GetByID(_ context.Context, id int64) (*entity.Promotion, error) {
	return r.find(func(p entity.Promotion) bool { return p.ID == id })
}

func (r *PromotionRepository) GetByCode(_ context.Context, code string) (*entity.Promotion, error) {
	return r.find(func(p entity.Promotion) bool { return p.Code == code })
}

func (r *PromotionRepository) FindValidByCode(_ context.Context, code string, at time.Time) (*entity.Promotion, error) {
	return r.find(func(p entity.Promotion) bool {
		return p.Code == code && p.Active && !p.StartDate.After(at) && !p.EndDate.Before(at)
	})
}

func (r *PromotionRepository) List(_ context.Context, page repository.PageRequest) (repository.Page[entity.Promotion], error) {
	return r.page(nil, page), nil
}

func (r *PromotionRepository) ListActive(_ context.Context, page repository.PageRequest) (repository.Page[entity.Promotion], error) {
	return r.page(func(p entity.Promotion) bool { return p.Active }, page), nil
}

func (r *PromotionRepository) IncrementUsage(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		p, ok := t.promotions[id]
		if !ok || p.UsageCount >= p.UsageLimit {
			return apperror.Conflict("Promotion usage limit reached")
		}
		p.UsageCount++
		p.UpdatedAt = now
		t.promotions[id] = p
		return nil
	})
}

func (r *PromotionRepository) find(match func(entity.Promotion) bool) (*entity.Promotion, error) {
	var found *entity.Promotion
	r.s.read(func(t *tables) {
		for _, p := range t.promotions {
			if match(p) {
				v := promotionRow(p)
				found = &v
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("Promotion not found")
	}
	return found, nil
}

func (r *PromotionRepository) page(keep func(entity.Promotion) bool, page repository.PageRequest) repository.Page[entity.Promotion] {
	var all []entity.Promotion
	r.s.read(func(t *tables) {
		all = sortedValues(t.promotions, keep)
		for i := range all {
			all[i] = promotionRow(all[i])
		}
	})
	return paginate(all, page, promotionSortKeys, func(a, b entity.Promotion) int {
		return cmp.Or(timeDesc(a.CreatedAt, b.CreatedAt), cmp.Compare(b.ID, a.ID))
	}, func(p entity.Promotion) int64 { return p.ID })
}

var _ repository.PromotionRepository = (*PromotionRepository)(nil)
