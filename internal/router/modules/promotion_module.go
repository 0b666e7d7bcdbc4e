package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	handlers "github.com/oksasatya/storefront-api/internal/interface/http"
	"github.com/oksasatya/storefront-api/internal/interface/middleware"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

type PromotionModule struct {
	Handler *handlers.PromotionHandler
	JWT     *helpers.JWTManager
}

func NewPromotionModule(h *handlers.PromotionHandler, jwt *helpers.JWTManager) *PromotionModule {
	return &PromotionModule{Handler: h, JWT: jwt}
}

func (m *PromotionModule) Register(rg *gin.RouterGroup) {
	pub := rg.Group("/promotions", publicLimit())
	{
		pub.GET("", m.Handler.List)
		pub.GET("/active", m.Handler.ListActive)
		pub.GET("/:id", m.Handler.Get)
		pub.GET("/code/:code", m.Handler.GetByCode)
		pub.POST("/validate", limit(60, middleware.KeyByIPAndPath()), m.Handler.Validate)
	}

	admin := rg.Group("/promotions", authed(m.JWT, entity.RoleAdmin)...)
	{
		admin.POST("", m.Handler.Create)
		admin.PUT("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Delete)
	}
}
