package application

import (
	"context"
	"io"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/internal/infrastructure/memory"
	"github.com/oksasatya/storefront-api/pkg/helpers"
	"github.com/oksasatya/storefront-api/pkg/mailer"
)

type fakePublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if job, ok := body.(mailer.EmailJob); ok {
		p.jobs = append(p.jobs, job)
	}
	return nil
}

func (p *fakePublisher) last() mailer.EmailJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jobs[len(p.jobs)-1]
}

// testApp wires every service on top of one in-memory store.
type testApp struct {
	store *memory.Store
	mail  *fakePublisher

	users      *memory.UserRepository
	categories *memory.CategoryRepository
	products   *memory.ProductRepository
	promotions *memory.PromotionRepository

	auth      *AuthService
	user      *UserService
	category  *CategoryService
	product   *ProductService
	cart      *CartService
	checkout  *CheckoutService
	order     *OrderService
	address   *AddressService
	promotion *PromotionService
	blog      *BlogService
	about     *AboutService
	analytics *AnalyticsService
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	s := memory.NewStore()
	tx := memory.NewTxManager(s)
	log := quietLogger()
	mail := &fakePublisher{}

	a := &testApp{
		store:      s,
		mail:       mail,
		users:      memory.NewUserRepository(s),
		categories: memory.NewCategoryRepository(s),
		products:   memory.NewProductRepository(s),
		promotions: memory.NewPromotionRepository(s),
	}
	carts := memory.NewCartRepository(s)
	orders := memory.NewOrderRepository(s)
	payments := memory.NewPaymentRepository(s)
	addresses := memory.NewAddressRepository(s)

	a.auth = NewAuthService(a.users, carts, memory.NewRefreshTokenRepository(s), memory.NewPasswordResetTokenRepository(s),
		tx, helpers.NewJWTManager("test-secret", time.Hour), mail, log)
	a.auth.FrontendURL = "http://shop.test"
	a.user = NewUserService(a.users, log)
	a.category = NewCategoryService(a.categories, nil, time.Minute, log)
	a.product = NewProductService(a.products, a.categories, nil, nil, log)
	a.cart = NewCartService(carts, a.products, tx, log)
	a.promotion = NewPromotionService(a.promotions, a.categories, a.products, log)
	a.checkout = NewCheckoutService(carts, addresses, orders, payments, a.promotions, a.promotion, tx, mail, DefaultPricing(), log)
	a.order = NewOrderService(orders, payments, a.products, tx, log)
	a.address = NewAddressService(addresses, tx, log)
	a.blog = NewBlogService(memory.NewBlogPostRepository(s), log)
	a.about = NewAboutService(memory.NewAboutPageRepository(s), tx, nil, time.Minute, log)
	a.analytics = NewAnalyticsService(memory.NewAnalyticsRepository(s), orders, a.products, log)
	return a
}

func (a *testApp) customer(t *testing.T, email string) *entity.User {
	t.Helper()
	u, err := a.auth.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  "secret1",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	return u
}

func (a *testApp) seedCategory(t *testing.T, name string) *entity.Category {
	t.Helper()
	c, err := a.category.Create(context.Background(), &entity.Category{Name: name})
	require.NoError(t, err)
	return c
}

func (a *testApp) seedProduct(t *testing.T, c *entity.Category, name string, price string, stock int) *entity.Product {
	t.Helper()
	p, err := a.product.Create(context.Background(), &entity.Product{
		Name:       name,
		SKU:        "SKU-" + helpers.Slugify(name),
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		CategoryID: c.ID,
		Active:     true,
	})
	require.NoError(t, err)
	return p
}

func (a *testApp) seedAddress(t *testing.T, userID int64, city string) *entity.Address {
	t.Helper()
	addr, err := a.address.Create(context.Background(), userID, &entity.Address{
		FullName:     "Jane Doe",
		AddressLine1: "1 Main St",
		City:         city,
		PostalCode:   "12345",
		Country:      "ID",
		Type:         entity.AddressShipping,
	})
	require.NoError(t, err)
	return addr
}

func (a *testApp) stock(t *testing.T, id int64) int {
	t.Helper()
	p, err := a.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func pageOf(page, size int) repo.PageRequest {
	return repo.PageRequest{Page: page, Size: size}
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
