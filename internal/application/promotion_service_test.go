package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

func newPromotion(code string) *entity.Promotion {
	return &entity.Promotion{
		Code:       code,
		Name:       code,
		Type:       entity.PromotionFixedAmount,
		Value:      decimal.NewFromInt(15),
		StartDate:  time.Now().Add(-time.Hour),
		EndDate:    time.Now().Add(24 * time.Hour),
		Active:     true,
		UsageLimit: 10,
	}
}

func TestPromotion_CreateRules(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	_, err := app.promotion.Create(ctx, newPromotion("FLAT15"))
	require.NoError(t, err)

	_, err = app.promotion.Create(ctx, newPromotion("FLAT15"))
	assert.Equal(t, apperror.KindDuplicate, apperror.KindOf(err))

	bad := newPromotion("BACKWARDS")
	bad.EndDate = bad.StartDate.Add(-time.Minute)
	_, err = app.promotion.Create(ctx, bad)
	assert.EqualError(t, err, "End date must be after start date")

	missing := newPromotion("GHOST")
	missing.CategoryIDs = []int64{42}
	_, err = app.promotion.Create(ctx, missing)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.EqualError(t, err, "Category not found with id: 42")
}

func TestPromotion_Validate(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	mugs := app.seedCategory(t, "Mugs")
	books := app.seedCategory(t, "Books")
	mug := app.seedProduct(t, mugs, "Blue Mug", "10", 5)
	book := app.seedProduct(t, books, "Go Book", "30", 5)

	p := newPromotion("MUGS")
	p.Type = entity.PromotionPercentage
	p.Value = decimal.NewFromInt(20)
	p.MinimumOrderAmount = decimal.NewNullDecimal(decimal.NewFromInt(50))
	p.MaximumDiscountAmount = decimal.NewNullDecimal(decimal.NewFromInt(25))
	p.CategoryIDs = []int64{mugs.ID}
	_, err := app.promotion.Create(ctx, p)
	require.NoError(t, err)

	_, discount, err := app.promotion.Validate(ctx, "MUGS", decimal.NewFromInt(100), []int64{mug.ID})
	require.NoError(t, err)
	assert.Equal(t, "20", discount.String())

	_, discount, err = app.promotion.Validate(ctx, "MUGS", decimal.NewFromInt(200), []int64{mug.ID})
	require.NoError(t, err)
	assert.Equal(t, "25", discount.String(), "capped at the maximum discount")

	_, _, err = app.promotion.Validate(ctx, "MUGS", decimal.NewFromInt(40), []int64{mug.ID})
	assert.EqualError(t, err, "Order amount does not meet minimum requirement for this promotion")

	_, _, err = app.promotion.Validate(ctx, "MUGS", decimal.NewFromInt(100), []int64{book.ID})
	assert.EqualError(t, err, "This promotion is not applicable to the products in your order")

	_, _, err = app.promotion.Validate(ctx, "NOPE", decimal.NewFromInt(100), nil)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestPromotion_UsageLimitExhausted(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	p := newPromotion("ONCE")
	p.UsageLimit = 1
	created, err := app.promotion.Create(ctx, p)
	require.NoError(t, err)
	require.NoError(t, app.promotions.IncrementUsage(ctx, created.ID))

	_, _, err = app.promotion.Validate(ctx, "ONCE", decimal.NewFromInt(100), nil)
	assert.EqualError(t, err, "Invalid or expired promotion code: ONCE")
}

func TestPromotion_UpdateKeepsUsage(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	created, err := app.promotion.Create(ctx, newPromotion("KEEP"))
	require.NoError(t, err)
	require.NoError(t, app.promotions.IncrementUsage(ctx, created.ID))

	in := newPromotion("KEEP")
	in.Name = "Renamed"
	got, err := app.promotion.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 1, got.UsageCount)

	require.NoError(t, app.promotion.Delete(ctx, created.ID))
	_, err = app.promotion.Get(ctx, created.ID)
	assert.EqualError(t, err, "Promotion not found with id: "+itoa(created.ID))
}
