package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-api/internal/application"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/internal/interface/http/dto"
	"github.com/oksasatya/storefront-api/internal/interface/middleware"
	"github.com/oksasatya/storefront-api/pkg/response"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ValidationError(c, err)
		return false
	}
	return true
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, response.Message{Message: msg})
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+name+": "+raw)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "Invalid "+key+": "+raw)
		return 0, false
	}
	return n, true
}

// pageRequest reads page, size, sortBy and direction. Page is zero-based and
// size is capped at maxPageSize. Unknown sort keys fall back to the
// repository default order.
func pageRequest(c *gin.Context) (repo.PageRequest, bool) {
	page, ok := queryInt(c, "page", 0)
	if !ok {
		return repo.PageRequest{}, false
	}
	size, ok := queryInt(c, "size", defaultPageSize)
	if !ok {
		return repo.PageRequest{}, false
	}
	dir := strings.ToLower(c.DefaultQuery("direction", "asc"))
	if dir != "asc" && dir != "desc" {
		badRequest(c, "Invalid direction: "+dir)
		return repo.PageRequest{}, false
	}
	if size <= 0 {
		size = defaultPageSize
	}
	size = min(size, maxPageSize)
	// offsets must fit in an int and in a SQL OFFSET
	if page > math.MaxInt32/size {
		badRequest(c, "Invalid page: "+c.Query("page"))
		return repo.PageRequest{}, false
	}
	return repo.PageRequest{
		Page: max(page, 0),
		Size: size,
		Sort: strings.TrimSpace(c.Query("sortBy")),
		Desc: dir == "desc",
	}, true
}

func paged[E, R any](p repo.Page[E], req repo.PageRequest, fn func(*E) R) response.Paged[R] {
	return response.NewPaged(dto.Map(p.Items, fn), req.Page, req.Size, p.Total)
}

func parseDate(c *gin.Context, name, raw string) (time.Time, bool) {
	t, err := time.ParseInLocation(application.DateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		badRequest(c, "Invalid "+name+", expected format YYYY-MM-DD: "+raw)
		return time.Time{}, false
	}
	return t, true
}

// dateRange reads the required startDate and endDate query parameters.
func dateRange(c *gin.Context) (start, end time.Time, ok bool) {
	if start, ok = parseDate(c, "startDate", c.Query("startDate")); !ok {
		return
	}
	end, ok = parseDate(c, "endDate", c.Query("endDate"))
	return
}

func viewer(c *gin.Context) application.Viewer {
	return application.Viewer{UserID: middleware.UserID(c), Admin: middleware.IsAdmin(c)}
}
