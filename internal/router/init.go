package router

import (
	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/container"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/storefront-api/internal/infrastructure/postgres"
	"github.com/oksasatya/storefront-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/storefront-api/internal/interface/http"
	"github.com/oksasatya/storefront-api/internal/router/modules"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

type repositories struct {
	Users         repo.UserRepository
	RefreshTokens repo.RefreshTokenRepository
	ResetTokens   repo.PasswordResetTokenRepository
	Categories    repo.CategoryRepository
	Products      repo.ProductRepository
	Carts         repo.CartRepository
	Orders        repo.OrderRepository
	Payments      repo.PaymentRepository
	Addresses     repo.AddressRepository
	Promotions    repo.PromotionRepository
	BlogPosts     repo.BlogPostRepository
	AboutPages    repo.AboutPageRepository
	Analytics     repo.AnalyticsRepository
	Tx            repo.TxManager
}

// buildRepositories uses the in-memory store when one was put in the
// container and Postgres otherwise.
func buildRepositories() repositories {
	if s := container.GetMemoryStore(); s != nil {
		return repositories{
			Users:         memory.NewUserRepository(s),
			RefreshTokens: memory.NewRefreshTokenRepository(s),
			ResetTokens:   memory.NewPasswordResetTokenRepository(s),
			Categories:    memory.NewCategoryRepository(s),
			Products:      memory.NewProductRepository(s),
			Carts:         memory.NewCartRepository(s),
			Orders:        memory.NewOrderRepository(s),
			Payments:      memory.NewPaymentRepository(s),
			Addresses:     memory.NewAddressRepository(s),
			Promotions:    memory.NewPromotionRepository(s),
			BlogPosts:     memory.NewBlogPostRepository(s),
			AboutPages:    memory.NewAboutPageRepository(s),
			Analytics:     memory.NewAnalyticsRepository(s),
			Tx:            memory.NewTxManager(s),
		}
	}
	pool := container.GetPGPool()
	return repositories{
		Users:         pginfra.NewUserRepository(pool),
		RefreshTokens: pginfra.NewRefreshTokenRepository(pool),
		ResetTokens:   pginfra.NewPasswordResetTokenRepository(pool),
		Categories:    pginfra.NewCategoryRepository(pool),
		Products:      pginfra.NewProductRepository(pool),
		Carts:         pginfra.NewCartRepository(pool),
		Orders:        pginfra.NewOrderRepository(pool),
		Payments:      pginfra.NewPaymentRepository(pool),
		Addresses:     pginfra.NewAddressRepository(pool),
		Promotions:    pginfra.NewPromotionRepository(pool),
		BlogPosts:     pginfra.NewBlogPostRepository(pool),
		AboutPages:    pginfra.NewAboutPageRepository(pool),
		Analytics:     pginfra.NewAnalyticsRepository(pool),
		Tx:            pginfra.NewTxManager(pool),
	}
}

// Services is the application layer built by InitModules. cmd/main uses it
// to schedule background jobs.
type Services struct {
	Auth      *application.AuthService
	User      *application.UserService
	Email     *application.EmailService
	Category  *application.CategoryService
	Product   *application.ProductService
	Cart      *application.CartService
	Checkout  *application.CheckoutService
	Order     *application.OrderService
	Address   *application.AddressService
	Promotion *application.PromotionService
	Blog      *application.BlogService
	About     *application.AboutService
	Analytics *application.AnalyticsService
}

func buildServices(r repositories) *Services {
	cfg := container.GetConfig()
	log := container.GetLogger()
	mail := container.Mail()
	cache := container.Redis()

	var searcher application.ProductSearcher
	if es := container.GetES(); es != nil {
		searcher = search.NewProductIndex(es, cfg.ESProductsIndex)
	}
	var images application.ImageStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		images = &helpers.GCSBucket{Client: gcs, Bucket: cfg.GCSBucket}
	}

	auth := application.NewAuthService(r.Users, r.Carts, r.RefreshTokens, r.ResetTokens, r.Tx, container.GetJWT(), mail, log)
	auth.RefreshTTL = cfg.RefreshTTL
	auth.ResetTTL = cfg.PasswordResetTTL
	auth.FrontendURL = cfg.FrontendURL

	promotions := application.NewPromotionService(r.Promotions, r.Categories, r.Products, log)
	pricing := application.Pricing{
		TaxRate:          cfg.TaxRate,
		ShippingStandard: cfg.ShippingStandard,
		ShippingExpress:  cfg.ShippingExpress,
	}

	return &Services{
		Auth:      auth,
		User:      application.NewUserService(r.Users, log),
		Email:     application.NewEmailService(mail, cfg.MailSendEnabled, log),
		Category:  application.NewCategoryService(r.Categories, cache, cfg.CacheTTL, log),
		Product:   application.NewProductService(r.Products, r.Categories, searcher, images, log),
		Cart:      application.NewCartService(r.Carts, r.Products, r.Tx, log),
		Checkout:  application.NewCheckoutService(r.Carts, r.Addresses, r.Orders, r.Payments, r.Promotions, promotions, r.Tx, mail, pricing, log),
		Order:     application.NewOrderService(r.Orders, r.Payments, r.Products, r.Tx, log),
		Address:   application.NewAddressService(r.Addresses, r.Tx, log),
		Promotion: promotions,
		Blog:      application.NewBlogService(r.BlogPosts, log),
		About:     application.NewAboutService(r.AboutPages, r.Tx, cache, cfg.CacheTTL, log),
		Analytics: application.NewAnalyticsService(r.Analytics, r.Orders, r.Products, log),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) *Services {
	svc := buildServices(buildRepositories())
	cfg := container.GetConfig()
	log := container.GetLogger()
	jwt := container.GetJWT()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, log, cfg.CookieDomain, cfg.CookieSecure)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.User, log), jwt))
	r.Add(modules.NewEmailModule(handlers.NewEmailHandler(svc.Email, log), jwt))
	r.Add(modules.NewCategoryModule(handlers.NewCategoryHandler(svc.Category, log), jwt))
	r.Add(modules.NewProductModule(handlers.NewProductHandler(svc.Product, log), jwt))
	r.Add(modules.NewCartModule(handlers.NewCartHandler(svc.Cart, log), jwt))
	r.Add(modules.NewOrderModule(handlers.NewOrderHandler(svc.Checkout, svc.Order, log), jwt))
	r.Add(modules.NewAddressModule(handlers.NewAddressHandler(svc.Address, log), jwt))
	r.Add(modules.NewPromotionModule(handlers.NewPromotionHandler(svc.Promotion, log), jwt))
	r.Add(modules.NewBlogModule(handlers.NewBlogHandler(svc.Blog, log), jwt))
	r.Add(modules.NewAboutModule(handlers.NewAboutHandler(svc.About, log), jwt))
	r.Add(modules.NewAnalyticsModule(handlers.NewAnalyticsHandler(svc.Analytics, log), jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	return svc
}
