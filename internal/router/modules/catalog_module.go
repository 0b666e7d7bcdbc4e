package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	handlers "github.com/oksasatya/storefront-api/internal/interface/http"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

type CategoryModule struct {
	Handler *handlers.CategoryHandler
	JWT     *helpers.JWTManager
}

func NewCategoryModule(h *handlers.CategoryHandler, jwt *helpers.JWTManager) *CategoryModule {
	return &CategoryModule{Handler: h, JWT: jwt}
}

func (m *CategoryModule) Register(rg *gin.RouterGroup) {
	pub := rg.Group("/v1/categories", publicLimit())
	{
		pub.GET("", m.Handler.List)
		pub.GET("/root", m.Handler.Roots)
		pub.GET("/:id", m.Handler.Get)
		pub.GET("/slug/:slug", m.Handler.GetBySlug)
		pub.GET("/:id/subcategories", m.Handler.Subcategories)
	}

	admin := rg.Group("/v1/categories", authed(m.JWT, entity.RoleAdmin)...)
	{
		admin.POST("", m.Handler.Create)
		admin.PUT("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Delete)
	}
}

type ProductModule struct {
	Handler *handlers.ProductHandler
	JWT     *helpers.JWTManager
}

func NewProductModule(h *handlers.ProductHandler, jwt *helpers.JWTManager) *ProductModule {
	return &ProductModule{Handler: h, JWT: jwt}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	pub := rg.Group("/v1/products", publicLimit())
	{
		pub.GET("", m.Handler.List)
		pub.GET("/:id", m.Handler.Get)
		pub.GET("/slug/:slug", m.Handler.GetBySlug)
		pub.GET("/category/:categoryId", m.Handler.ByCategory)
		pub.GET("/search", m.Handler.Search)
		pub.GET("/featured", m.Handler.Featured)
	}

	admin := rg.Group("/v1/products", authed(m.JWT, entity.RoleAdmin)...)
	{
		admin.GET("/low-stock", m.Handler.LowStock)
		admin.POST("", m.Handler.Create)
		admin.PUT("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Delete)
		admin.PATCH("/:id/stock", m.Handler.AdjustStock)
		admin.POST("/:id/images", m.Handler.UploadImage)
	}
}
