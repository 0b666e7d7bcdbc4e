package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/interface/http/dto"
	"github.com/oksasatya/storefront-api/pkg/response"
)

type AnalyticsHandler struct {
	Svc    *application.AnalyticsService
	Logger *logrus.Logger
}

func NewAnalyticsHandler(svc *application.AnalyticsService, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{Svc: svc, Logger: logger}
}

func (h *AnalyticsHandler) List(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	res, err := h.Svc.List(c.Request.Context(), page)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, paged(res, page, dto.NewAnalyticsResponse))
}

func (h *AnalyticsHandler) Range(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	rows, err := h.Svc.Range(c.Request.Context(), start, end)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.Map(rows, dto.NewAnalyticsResponse))
}

func (h *AnalyticsHandler) ByDate(c *gin.Context) {
	date, ok := parseDate(c, "date", c.Param("date"))
	if !ok {
		return
	}
	a, err := h.Svc.ByDate(c.Request.Context(), date)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewAnalyticsResponse(a))
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	sum, err := h.Svc.Summary(c.Request.Context(), start, end)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewAnalyticsSummaryResponse(start, end, sum))
}

// Record POST /api/analytics/record upserts today's row from the posted traffic figures.
func (h *AnalyticsHandler) Record(c *gin.Context) {
	var req dto.AnalyticsRecordRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Svc.Record(c.Request.Context(), application.TrafficInput{
		TotalVisitors:          req.TotalVisitors,
		UniqueVisitors:         req.UniqueVisitors,
		NewUsers:               req.NewUsers,
		PageViews:              req.PageViews,
		BounceRate:             req.BounceRate,
		AverageSessionDuration: req.AverageSessionDuration,
	})
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.OK(c, dto.NewAnalyticsResponse(a))
}
