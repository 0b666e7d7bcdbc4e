package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront-api/config"
	"github.com/oksasatya/storefront-api/internal/container"
	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/infrastructure/memory"
	"github.com/oksasatya/storefront-api/internal/interface/http/dto"
	"github.com/oksasatya/storefront-api/pkg/helpers"
	"github.com/oksasatya/storefront-api/pkg/response"
	"github.com/oksasatya/storefront-api/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

type api struct {
	t      *testing.T
	engine *gin.Engine
	store  *memory.Store
}

// newAPI wires every module on a fresh in-memory store with no optional
// infrastructure configured.
func newAPI(t *testing.T) *api {
	t.Helper()
	cfg := config.Load()
	cfg.MailSendEnabled = false
	cfg.DebugMetricsEnabled = false
	cfg.TaxRate = decimal.RequireFromString("0.10")
	cfg.ShippingStandard = decimal.NewFromInt(5)
	cfg.ShippingExpress = decimal.NewFromInt(15)

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := memory.NewStore()
	container.SetConfig(cfg)
	container.SetLogger(log)
	container.SetMemoryStore(store)
	container.SetRedis(nil)
	container.SetES(nil)
	container.SetGCS(nil)
	container.SetRabbitPub(nil)
	container.SetJWT(helpers.NewJWTManager("router-test-secret", time.Hour))

	r := gin.New()
	reg := NewRegistry(r, log)
	InitModules(reg)
	require.Positive(t, reg.RegisterAll())
	return &api{t: t, engine: r, store: store}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, "/api"+path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *api) register(email string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/v1/auth/register", "", gin.H{
		"email": email, "password": "secret123", "firstName": "Jane", "lastName": "Doe",
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
}

func (a *api) login(email, password string) dto.JwtResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/v1/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode[dto.JwtResponse](a.t, w)
}

func (a *api) customerToken() string {
	a.register("jane@example.com")
	return a.login("jane@example.com", "secret123").AccessToken
}

func (a *api) adminToken() string {
	a.t.Helper()
	hash, err := helpers.HashPassword("admin123")
	require.NoError(a.t, err)
	admin := &entity.User{Email: "admin@example.com", Password: hash, FirstName: "Ada", LastName: "Admin", Role: entity.RoleAdmin}
	require.NoError(a.t, memory.NewUserRepository(a.store).Create(context.Background(), admin))
	return a.login("admin@example.com", "admin123").AccessToken
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)
	a.register("jane@example.com")

	w := a.do(http.MethodPost, "/v1/auth/register", "", gin.H{
		"email": "jane@example.com", "password": "secret123", "firstName": "Jane", "lastName": "Doe",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, "/v1/auth/register", "", gin.H{"email": "not-an-email", "password": "1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode[map[string]string](t, w)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	w = a.do(http.MethodPost, "/v1/auth/login", "", gin.H{"email": "jane@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	jwt := a.login("jane@example.com", "secret123")
	assert.Equal(t, entity.RoleCustomer, jwt.Role)
	assert.Equal(t, "Bearer", jwt.TokenType)

	w = a.do(http.MethodGet, "/v1/users/me", jwt.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"jane@example.com"`)

	w = a.do(http.MethodPost, "/v1/auth/refresh-token", "", gin.H{"refreshToken": jwt.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	refreshed := decode[dto.TokenRefreshResponse](t, w)
	assert.NotEmpty(t, refreshed.AccessToken)

	w = a.do(http.MethodPost, "/v1/auth/logout", "", gin.H{"refreshToken": refreshed.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Log out successful!", decode[response.Message](t, w).Message)

	w = a.do(http.MethodPost, "/v1/auth/refresh-token", "", gin.H{"refreshToken": refreshed.RefreshToken})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleChecks(t *testing.T) {
	a := newAPI(t)
	customer := a.customerToken()

	w := a.do(http.MethodPost, "/v1/categories", "", gin.H{"name": "Books"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/v1/categories", customer, gin.H{"name": "Books"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := a.adminToken()
	w = a.do(http.MethodGet, "/v1/cart", admin, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCheckoutFlow(t *testing.T) {
	a := newAPI(t)
	admin := a.adminToken()
	customer := a.customerToken()

	w := a.do(http.MethodPost, "/v1/categories", admin, gin.H{"name": "Home Office"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cat := decode[dto.CategoryResponse](t, w)
	assert.Equal(t, "home-office", cat.Slug)

	w = a.do(http.MethodPost, "/v1/products", admin, gin.H{
		"name": "Standing Desk", "price": 100, "stock": 5, "sku": "DESK-1", "categoryId": cat.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode[dto.ProductResponse](t, w)

	w = a.do(http.MethodPost, "/v1/cart/items", customer, gin.H{"productId": product.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cart := decode[dto.CartResponse](t, w)
	assert.Equal(t, 2, cart.ItemCount)
	assert.True(t, decimal.NewFromInt(200).Equal(cart.TotalPrice))

	w = a.do(http.MethodPost, "/v1/addresses", customer, gin.H{
		"fullName": "Jane Doe", "addressLine1": "1 Main St", "city": "Springfield",
		"postalCode": "12345", "country": "US", "type": "SHIPPING",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	addr := decode[dto.AddressResponse](t, w)

	w = a.do(http.MethodPost, "/v1/checkout", customer, gin.H{
		"shippingAddressId": addr.ID, "paymentMethod": "CREDIT_CARD",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[dto.OrderResponse](t, w)
	assert.Equal(t, entity.OrderPending, order.Status)
	assert.True(t, decimal.NewFromInt(200).Equal(order.Subtotal), order.Subtotal.String())
	assert.True(t, decimal.NewFromInt(5).Equal(order.ShippingCost))
	assert.True(t, decimal.NewFromInt(20).Equal(order.TaxAmount))
	assert.True(t, decimal.NewFromInt(225).Equal(order.TotalAmount))
	require.Len(t, order.Items, 1)

	w = a.do(http.MethodGet, fmt.Sprintf("/v1/products/%d", product.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[dto.ProductResponse](t, w).Stock)

	w = a.do(http.MethodGet, "/v1/cart", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[dto.CartResponse](t, w).Items)

	w = a.do(http.MethodGet, "/v1/orders", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[response.Paged[dto.OrderResponse]](t, w)
	assert.EqualValues(t, 1, mine.TotalElements)

	w = a.do(http.MethodGet, "/v1/orders/number/"+order.OrderNumber, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPut, fmt.Sprintf("/v1/admin/orders/%d/status", order.ID), admin, gin.H{"status": "PROCESSING"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, entity.OrderProcessing, decode[dto.OrderResponse](t, w).Status)

	w = a.do(http.MethodPut, fmt.Sprintf("/v1/admin/orders/%d/status", order.ID), admin, gin.H{"status": "PAID"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckout_EmptyCart(t *testing.T) {
	a := newAPI(t)
	customer := a.customerToken()

	w := a.do(http.MethodPost, "/v1/addresses", customer, gin.H{
		"fullName": "Jane Doe", "addressLine1": "1 Main St", "city": "Springfield",
		"postalCode": "12345", "country": "US", "type": "SHIPPING",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	addr := decode[dto.AddressResponse](t, w)

	w = a.do(http.MethodPost, "/v1/checkout", customer, gin.H{"shippingAddressId": addr.ID, "paymentMethod": "PAYPAL"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListPaging(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/v1/products?size=1000&page=-3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[response.Paged[dto.ProductResponse]](t, w)
	assert.Equal(t, 100, page.Size)
	assert.Equal(t, 0, page.Page)
	assert.Empty(t, page.Content)
	assert.True(t, page.Last)

	w = a.do(http.MethodGet, "/v1/products?direction=sideways", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/v1/products?page=92233720368547759&size=100", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[response.Message](t, w).Message, "Invalid page")

	w = a.do(http.MethodGet, "/v1/products?page=21474835&size=100", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[response.Paged[dto.ProductResponse]](t, w).Content)

	w = a.do(http.MethodGet, "/v1/products/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[response.Message](t, w).Message, "abc")

	w = a.do(http.MethodGet, "/v1/products/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPromotionValidate(t *testing.T) {
	a := newAPI(t)
	admin := a.adminToken()

	now := time.Now().UTC()
	w := a.do(http.MethodPost, "/promotions", admin, gin.H{
		"name": "Ten off", "code": "SAVE10", "type": "PERCENTAGE", "value": 10,
		"startDate": now.Add(-time.Hour), "endDate": now.Add(24 * time.Hour), "usageLimit": 100,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/promotions/validate", "", gin.H{"code": "SAVE10", "orderAmount": 200})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[dto.DiscountResponse](t, w)
	assert.Equal(t, "SAVE10", got.Code)
	assert.True(t, decimal.NewFromInt(20).Equal(got.Discount), got.Discount.String())

	w = a.do(http.MethodPost, "/promotions/validate", "", gin.H{"code": "NOPE", "orderAmount": 200})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/promotions/code/SAVE10", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyticsDates(t *testing.T) {
	a := newAPI(t)
	admin := a.adminToken()

	w := a.do(http.MethodGet, "/analytics/range?startDate=2024-13-01&endDate=2024-12-31", admin, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[response.Message](t, w).Message, "expected format YYYY-MM-DD")

	w = a.do(http.MethodGet, "/analytics/date/yesterday", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/analytics/record", admin, gin.H{"totalVisitors": 10, "uniqueVisitors": 20})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/analytics/record", admin, gin.H{"totalVisitors": 10, "uniqueVisitors": 4, "pageViews": 30})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodGet, "/analytics/summary?startDate=2000-01-01&endDate=2100-01-01", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
