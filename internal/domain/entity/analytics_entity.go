package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Analytics is one row of daily store metrics keyed by Date (midnight UTC).
type Analytics struct {
	ID                     int64
	Date                   time.Time
	TotalVisitors          int
	UniqueVisitors         int
	NewUsers               int
	PageViews              int
	Orders                 int
	TotalRevenue           decimal.Decimal
	ConversionRate         float64
	BounceRate             float64
	AverageSessionDuration float64
	TopSellingProducts     string
	TopCategories          string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// AnalyticsSummary aggregates Analytics rows over a date range.
type AnalyticsSummary struct {
	TotalRevenue          decimal.Decimal
	TotalOrders           int64
	AverageConversionRate float64
	RevenueByDay          map[string]decimal.Decimal
}

// RankedItem is a best seller entry used for analytics reporting.
type RankedItem struct {
	ID       int64
	Name     string
	Quantity int64
}

// ConversionRate returns orders per unique visitor as a percentage.
func ConversionRate(orders, uniqueVisitors int) float64 {
	if uniqueVisitors <= 0 {
		return 0
	}
	return float64(orders) / float64(uniqueVisitors) * 100
}
