package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPromotionDiscount(t *testing.T) {
	tests := []struct {
		name  string
		promo Promotion
		want  string
	}{
		{"percentage", Promotion{Type: PromotionPercentage, Value: dec("15")}, "30"},
		{"percentage capped", Promotion{Type: PromotionPercentage, Value: dec("50"), MaximumDiscountAmount: decimal.NewNullDecimal(dec("25"))}, "25"},
		{"fixed", Promotion{Type: PromotionFixedAmount, Value: dec("12.5")}, "12.5"},
		{"free shipping", Promotion{Type: PromotionFreeShipping, Value: dec("99")}, "0"},
		{"bogo", Promotion{Type: PromotionBuyOneGetOne}, "0"},
		{"rounded", Promotion{Type: PromotionPercentage, Value: dec("33.333")}, "66.67"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.promo.Discount(dec("200"))
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestPromotionIsValidAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	base := Promotion{
		Active:     true,
		StartDate:  now.Add(-time.Hour),
		EndDate:    now.Add(time.Hour),
		UsageLimit: 2,
	}
	assert.True(t, base.IsValidAt(now))

	inactive := base
	inactive.Active = false
	assert.False(t, inactive.IsValidAt(now))

	assert.False(t, base.IsValidAt(now.Add(2*time.Hour)))
	assert.False(t, base.IsValidAt(now.Add(-2*time.Hour)))

	usedUp := base
	usedUp.UsageCount = 2
	assert.False(t, usedUp.IsValidAt(now))
}

func TestPromotionMeetsMinimum(t *testing.T) {
	p := Promotion{}
	assert.True(t, p.MeetsMinimum(decimal.Zero))

	p.MinimumOrderAmount = decimal.NewNullDecimal(dec("50"))
	assert.True(t, p.MeetsMinimum(dec("50")))
	assert.False(t, p.MeetsMinimum(dec("49.99")))
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderPending.CanTransitionTo(OrderProcessing))
	assert.True(t, OrderProcessing.CanTransitionTo(OrderShipped))
	assert.True(t, OrderShipped.CanTransitionTo(OrderDelivered))
	assert.False(t, OrderShipped.CanTransitionTo(OrderPending))
	for _, terminal := range []OrderStatus{OrderDelivered, OrderCancelled} {
		for _, next := range []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled} {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}
	assert.False(t, OrderStatus("PAID").Valid())
}

func TestCartTotals(t *testing.T) {
	desk := &Product{Price: dec("100")}
	lamp := &Product{Price: dec("40"), DiscountPrice: decimal.NewNullDecimal(dec("30"))}
	c := Cart{Items: []CartItem{
		{Product: desk, Quantity: 2},
		{Product: lamp, Quantity: 3},
		{Quantity: 1},
	}}
	assert.True(t, dec("290").Equal(c.TotalPrice()), c.TotalPrice().String())
	assert.Equal(t, 6, c.ItemCount())
}

func TestConversionRate(t *testing.T) {
	assert.Zero(t, ConversionRate(5, 0))
	assert.InDelta(t, 12.5, ConversionRate(5, 40), 1e-9)
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", (&User{FirstName: "Jane", LastName: "Doe"}).FullName())
	assert.Equal(t, "Doe", (&User{LastName: "Doe"}).FullName())
	assert.Equal(t, "Jane", (&User{FirstName: "Jane"}).FullName())
}
