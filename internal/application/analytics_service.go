package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

// DateLayout is the wire format of analytics dates.
const DateLayout = "2006-01-02"

const topN = 5

type AnalyticsService struct {
	Repo     repo.AnalyticsRepository
	Orders   repo.OrderRepository
	Products repo.ProductRepository
	Logger   *logrus.Logger

	now func() time.Time
}

func NewAnalyticsService(repo repo.AnalyticsRepository, orders repo.OrderRepository, products repo.ProductRepository, logger *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{Repo: repo, Orders: orders, Products: products, Logger: logger, now: time.Now}
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *AnalyticsService) List(ctx context.Context, page repo.PageRequest) (repo.Page[entity.Analytics], error) {
	return s.Repo.List(ctx, page)
}

func (s *AnalyticsService) Range(ctx context.Context, start, end time.Time) ([]entity.Analytics, error) {
	if start.After(end) {
		return nil, apperror.BadRequest("Start date must not be after end date")
	}
	return s.Repo.ListBetween(ctx, Day(start), Day(end))
}

func (s *AnalyticsService) ByDate(ctx context.Context, date time.Time) (*entity.Analytics, error) {
	a, err := s.Repo.GetByDate(ctx, Day(date))
	if err != nil {
		return nil, orNotFound(err, "Analytics", "date", date.Format(DateLayout))
	}
	return a, nil
}

// Summary totals revenue and orders over [start, end] and averages the
// conversion rate over the days that have a row.
func (s *AnalyticsService) Summary(ctx context.Context, start, end time.Time) (*entity.AnalyticsSummary, error) {
	rows, err := s.Range(ctx, start, end)
	if err != nil {
		return nil, err
	}
	sum := &entity.AnalyticsSummary{
		TotalRevenue: decimal.Zero,
		RevenueByDay: make(map[string]decimal.Decimal, len(rows)),
	}
	conversion := 0.0
	for _, r := range rows {
		sum.TotalRevenue = sum.TotalRevenue.Add(r.TotalRevenue)
		sum.TotalOrders += int64(r.Orders)
		conversion += r.ConversionRate
		sum.RevenueByDay[r.Date.Format(DateLayout)] = r.TotalRevenue
	}
	if len(rows) > 0 {
		sum.AverageConversionRate = conversion / float64(len(rows))
	}
	return sum, nil
}

// TrafficInput carries the visitor figures reported by the frontend.
type TrafficInput struct {
	TotalVisitors          int
	UniqueVisitors         int
	NewUsers               int
	PageViews              int
	BounceRate             float64
	AverageSessionDuration float64
}

// Record upserts today's row, deriving the order figures from the order
// and product tables.
func (s *AnalyticsService) Record(ctx context.Context, in TrafficInput) (*entity.Analytics, error) {
	today := Day(s.now())
	tomorrow := today.AddDate(0, 0, 1)

	orders, err := s.Orders.CountCreatedBetween(ctx, today, tomorrow)
	if err != nil {
		return nil, err
	}
	revenue, err := s.Orders.RevenueBetween(ctx, entity.OrderDelivered, today, tomorrow)
	if err != nil {
		return nil, err
	}
	products, err := s.Products.BestSelling(ctx, topN)
	if err != nil {
		return nil, err
	}
	categories, err := s.Products.BestSellingCategories(ctx, topN)
	if err != nil {
		return nil, err
	}

	a := &entity.Analytics{
		Date:                   today,
		TotalVisitors:          in.TotalVisitors,
		UniqueVisitors:         in.UniqueVisitors,
		NewUsers:               in.NewUsers,
		PageViews:              in.PageViews,
		Orders:                 orders,
		TotalRevenue:           revenue,
		ConversionRate:         entity.ConversionRate(orders, in.UniqueVisitors),
		BounceRate:             in.BounceRate,
		AverageSessionDuration: in.AverageSessionDuration,
		TopSellingProducts:     joinRanked(products),
		TopCategories:          joinRanked(categories),
	}
	if err := s.Repo.Upsert(ctx, a); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{
		"date":   today.Format(DateLayout),
		"orders": orders,
	}).Info("daily analytics recorded")
	return a, nil
}

func joinRanked(items []entity.RankedItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (ID: %d)", it.Name, it.ID))
	}
	return strings.Join(parts, ", ")
}
