package application

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

type PromotionService struct {
	Promotions repo.PromotionRepository
	Categories repo.CategoryRepository
	Products   repo.ProductRepository
	Logger     *logrus.Logger

	now func() time.Time
}

func NewPromotionService(promotions repo.PromotionRepository, categories repo.CategoryRepository, products repo.ProductRepository, logger *logrus.Logger) *PromotionService {
	return &PromotionService{
		Promotions: promotions,
		Categories: categories,
		Products:   products,
		Logger:     logger,
		now:        time.Now,
	}
}

func (s *PromotionService) List(ctx context.Context, page repo.PageRequest) (repo.Page[entity.Promotion], error) {
	return s.Promotions.List(ctx, page)
}

func (s *PromotionService) ListActive(ctx context.Context, page repo.PageRequest) (repo.Page[entity.Promotion], error) {
	return s.Promotions.ListActive(ctx, page)
}

func (s *PromotionService) Get(ctx context.Context, id int64) (*entity.Promotion, error) {
	p, err := s.Promotions.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "Promotion", "id", id)
	}
	return p, nil
}

func (s *PromotionService) GetByCode(ctx context.Context, code string) (*entity.Promotion, error) {
	p, err := s.Promotions.GetByCode(ctx, code)
	if err != nil {
		return nil, orNotFound(err, "Promotion", "code", code)
	}
	return p, nil
}

func (s *PromotionService) Create(ctx context.Context, p *entity.Promotion) (*entity.Promotion, error) {
	p.Code = strings.TrimSpace(p.Code)
	if err := s.check(ctx, p); err != nil {
		return nil, err
	}
	if err := s.Promotions.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.Promotions.GetByID(ctx, p.ID)
}

// Update replaces every editable field. The usage count is kept.
func (s *PromotionService) Update(ctx context.Context, id int64, in *entity.Promotion) (*entity.Promotion, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.ID = id
	in.Code = strings.TrimSpace(in.Code)
	in.UsageCount = cur.UsageCount
	if err := s.check(ctx, in); err != nil {
		return nil, err
	}
	if err := s.Promotions.Update(ctx, in); err != nil {
		return nil, err
	}
	return s.Promotions.GetByID(ctx, id)
}

func (s *PromotionService) Delete(ctx context.Context, id int64) error {
	return orNotFound(s.Promotions.Delete(ctx, id), "Promotion", "id", id)
}

func (s *PromotionService) check(ctx context.Context, p *entity.Promotion) error {
	if !p.Type.Valid() {
		return apperror.BadRequest("Invalid promotion type: %s", p.Type)
	}
	if !p.EndDate.After(p.StartDate) {
		return apperror.BadRequest("End date must be after start date")
	}
	existing, err := s.Promotions.GetByCode(ctx, p.Code)
	switch {
	case err == nil && existing.ID != p.ID:
		return apperror.Duplicate("Promotion already exists with code: %s", p.Code)
	case err != nil && !apperror.Is(err, apperror.KindNotFound):
		return err
	}

	if len(p.CategoryIDs) > 0 {
		found, err := s.Categories.ListByIDs(ctx, p.CategoryIDs)
		if err != nil {
			return err
		}
		if id, ok := firstMissing(p.CategoryIDs, found, func(c entity.Category) int64 { return c.ID }); !ok {
			return apperror.ResourceNotFound("Category", "id", id)
		}
	}
	if len(p.ProductIDs) > 0 {
		found, err := s.Products.ListByIDs(ctx, p.ProductIDs)
		if err != nil {
			return err
		}
		if id, ok := firstMissing(p.ProductIDs, found, func(x entity.Product) int64 { return x.ID }); !ok {
			return apperror.ResourceNotFound("Product", "id", id)
		}
	}
	return nil
}

func firstMissing[T any](want []int64, found []T, id func(T) int64) (int64, bool) {
	have := make(map[int64]bool, len(found))
	for _, f := range found {
		have[id(f)] = true
	}
	for _, w := range want {
		if !have[w] {
			return w, false
		}
	}
	return 0, true
}

// Validate prices a promotion code against an order amount and the ids of
// the ordered products, without consuming it.
func (s *PromotionService) Validate(ctx context.Context, code string, amount decimal.Decimal, productIDs []int64) (*entity.Promotion, decimal.Decimal, error) {
	var products []entity.Product
	if len(productIDs) > 0 {
		var err error
		if products, err = s.Products.ListByIDs(ctx, productIDs); err != nil {
			return nil, decimal.Zero, err
		}
	}
	return s.CalculateDiscount(ctx, code, amount, products)
}

// CalculateDiscount looks up a redeemable promotion and returns the discount it
// grants on amount. Restricted promotions need at least one product that is
// listed directly or belongs to a listed category.
func (s *PromotionService) CalculateDiscount(ctx context.Context, code string, amount decimal.Decimal, products []entity.Product) (*entity.Promotion, decimal.Decimal, error) {
	now := s.now()
	p, err := s.Promotions.FindValidByCode(ctx, code, now)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, decimal.Zero, apperror.NotFound("Invalid or expired promotion code: %s", code)
		}
		return nil, decimal.Zero, err
	}
	if !p.IsValidAt(now) {
		return nil, decimal.Zero, apperror.NotFound("Invalid or expired promotion code: %s", code)
	}
	if !p.MeetsMinimum(amount) {
		return nil, decimal.Zero, apperror.BadRequest("Order amount does not meet minimum requirement for this promotion")
	}
	if p.Restricted() && !applies(p, products) {
		return nil, decimal.Zero, apperror.BadRequest("This promotion is not applicable to the products in your order")
	}
	return p, p.Discount(amount), nil
}

func applies(p *entity.Promotion, products []entity.Product) bool {
	for _, prod := range products {
		if slices.Contains(p.ProductIDs, prod.ID) || slices.Contains(p.CategoryIDs, prod.CategoryID) {
			return true
		}
	}
	return false
}
