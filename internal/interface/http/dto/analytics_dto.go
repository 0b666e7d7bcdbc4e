package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

type AnalyticsRecordRequest struct {
	TotalVisitors          int     `json:"totalVisitors" binding:"gte=0"`
	UniqueVisitors         int     `json:"uniqueVisitors" binding:"gte=0,ltefield=TotalVisitors"`
	NewUsers               int     `json:"newUsers" binding:"gte=0"`
	PageViews              int     `json:"pageViews" binding:"gte=0"`
	BounceRate             float64 `json:"bounceRate" binding:"gte=0,lte=100"`
	AverageSessionDuration float64 `json:"averageSessionDuration" binding:"gte=0"`
}

type AnalyticsResponse struct {
	ID                     int64           `json:"id"`
	Date                   string          `json:"date"`
	TotalVisitors          int             `json:"totalVisitors"`
	UniqueVisitors         int             `json:"uniqueVisitors"`
	NewUsers               int             `json:"newUsers"`
	PageViews              int             `json:"pageViews"`
	Orders                 int             `json:"orders"`
	TotalRevenue           decimal.Decimal `json:"totalRevenue"`
	ConversionRate         float64         `json:"conversionRate"`
	BounceRate             float64         `json:"bounceRate"`
	AverageSessionDuration float64         `json:"averageSessionDuration"`
	TopSellingProducts     string          `json:"topSellingProducts"`
	TopCategories          string          `json:"topCategories"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

func NewAnalyticsResponse(a *entity.Analytics) AnalyticsResponse {
	return AnalyticsResponse{
		ID:                     a.ID,
		Date:                   a.Date.Format(dateLayout),
		TotalVisitors:          a.TotalVisitors,
		UniqueVisitors:         a.UniqueVisitors,
		NewUsers:               a.NewUsers,
		PageViews:              a.PageViews,
		Orders:                 a.Orders,
		TotalRevenue:           a.TotalRevenue,
		ConversionRate:         a.ConversionRate,
		BounceRate:             a.BounceRate,
		AverageSessionDuration: a.AverageSessionDuration,
		TopSellingProducts:     a.TopSellingProducts,
		TopCategories:          a.TopCategories,
		CreatedAt:              a.CreatedAt,
		UpdatedAt:              a.UpdatedAt,
	}
}

type AnalyticsSummaryResponse struct {
	StartDate             string                     `json:"startDate"`
	EndDate               string                     `json:"endDate"`
	TotalRevenue          decimal.Decimal            `json:"totalRevenue"`
	TotalOrders           int64                      `json:"totalOrders"`
	AverageConversionRate float64                    `json:"averageConversionRate"`
	RevenueByDay          map[string]decimal.Decimal `json:"revenueByDay"`
}

func NewAnalyticsSummaryResponse(start, end time.Time, s *entity.AnalyticsSummary) AnalyticsSummaryResponse {
	byDay := s.RevenueByDay
	if byDay == nil {
		byDay = map[string]decimal.Decimal{}
	}
	return AnalyticsSummaryResponse{
		StartDate:             start.Format(dateLayout),
		EndDate:               end.Format(dateLayout),
		TotalRevenue:          s.TotalRevenue,
		TotalOrders:           s.TotalOrders,
		AverageConversionRate: s.AverageConversionRate,
		RevenueByDay:          byDay,
	}
}
