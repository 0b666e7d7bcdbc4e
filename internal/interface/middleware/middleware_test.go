package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": UserID(c), "role": UserRole(c)})
	})
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Minute)
	tok, _, err := jwt.GenerateAccessToken(42, "a@b.c", string(entity.RoleAdmin))
	require.NoError(t, err)

	r := newEngine(Auth(jwt), RequireRole(entity.RoleAdmin))

	t.Run("missing token", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := do(r, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"uid":42,"role":"ADMIN"}`, w.Body.String())
	})

	t.Run("cookie fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: tok})
		assert.Equal(t, http.StatusOK, do(r, req).Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		other := helpers.NewJWTManager("other", time.Minute)
		bad, _, _ := other.GenerateAccessToken(42, "a@b.c", "ADMIN")
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+bad)
		assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		cust, _, _ := jwt.GenerateAccessToken(7, "c@d.e", string(entity.RoleCustomer))
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+cust)
		assert.Equal(t, http.StatusForbidden, do(r, req).Code)
	})
}

func TestRateLimit_LocalFallback(t *testing.T) {
	r := newEngine(RealIP(), RateLimit(nil, 2, time.Minute, KeyByIP(), nil))

	for i := 0; i < 2; i++ {
		w := do(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}
	w := do(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestRateLimit_AllowBypass(t *testing.T) {
	r := newEngine(RealIP(), RateLimit(nil, 1, time.Minute, KeyByIP(), AllowPrivateIP()))
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		assert.Equal(t, http.StatusOK, do(r, req).Code)
	}
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := do(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", do(r, req).Header().Get(RequestIDHeader))
}

func TestRealIP_PrefersCloudflare(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.7")
	req.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	assert.Equal(t, "198.51.100.7", do(r, req).Body.String())
}
