package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	handlers "github.com/oksasatya/storefront-api/internal/interface/http"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

type BlogModule struct {
	Handler *handlers.BlogHandler
	JWT     *helpers.JWTManager
}

func NewBlogModule(h *handlers.BlogHandler, jwt *helpers.JWTManager) *BlogModule {
	return &BlogModule{Handler: h, JWT: jwt}
}

func (m *BlogModule) Register(rg *gin.RouterGroup) {
	pub := rg.Group("/v1/blog", publicLimit())
	{
		pub.GET("/posts", m.Handler.ListPublished)
		pub.GET("/posts/:id", m.Handler.Get)
		pub.GET("/posts/slug/:slug", m.Handler.GetBySlug)
		pub.GET("/posts/search", m.Handler.Search)
		pub.GET("/posts/tag/:tag", m.Handler.ByTag)
		pub.GET("/tags", m.Handler.Tags)
	}

	admin := rg.Group("/v1/blog", authed(m.JWT, entity.RoleAdmin)...)
	{
		admin.GET("/posts/all", m.Handler.ListAll)
		admin.POST("/posts", m.Handler.Create)
		admin.PUT("/posts/:id", m.Handler.Update)
		admin.DELETE("/posts/:id", m.Handler.Delete)
	}
}

type AboutModule struct {
	Handler *handlers.AboutHandler
	JWT     *helpers.JWTManager
}

func NewAboutModule(h *handlers.AboutHandler, jwt *helpers.JWTManager) *AboutModule {
	return &AboutModule{Handler: h, JWT: jwt}
}

func (m *AboutModule) Register(rg *gin.RouterGroup) {
	rg.GET("/v1/about", publicLimit(), m.Handler.Active)

	admin := rg.Group("/v1/about", authed(m.JWT, entity.RoleAdmin)...)
	{
		admin.GET("/all", m.Handler.List)
		admin.GET("/:id", m.Handler.Get)
		admin.POST("", m.Handler.Create)
		admin.PUT("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Delete)
	}
}

type AnalyticsModule struct {
	Handler *handlers.AnalyticsHandler
	JWT     *helpers.JWTManager
}

func NewAnalyticsModule(h *handlers.AnalyticsHandler, jwt *helpers.JWTManager) *AnalyticsModule {
	return &AnalyticsModule{Handler: h, JWT: jwt}
}

func (m *AnalyticsModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/analytics", authed(m.JWT, entity.RoleAdmin)...)
	{
		g.GET("", m.Handler.List)
		g.GET("/range", m.Handler.Range)
		g.GET("/date/:date", m.Handler.ByDate)
		g.GET("/summary", m.Handler.Summary)
		g.POST("/record", m.Handler.Record)
	}
}
