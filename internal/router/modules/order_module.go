package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	handlers "github.com/oksasatya/storefront-api/internal/interface/http"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

type CartModule struct {
	Handler *handlers.CartHandler
	JWT     *helpers.JWTManager
}

func NewCartModule(h *handlers.CartHandler, jwt *helpers.JWTManager) *CartModule {
	return &CartModule{Handler: h, JWT: jwt}
}

func (m *CartModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/v1/cart", authed(m.JWT, entity.RoleCustomer)...)
	{
		g.GET("", m.Handler.Get)
		g.POST("/items", m.Handler.AddItem)
		g.PUT("/items/:itemId", m.Handler.UpdateItem)
		g.DELETE("/items/:itemId", m.Handler.RemoveItem)
		g.DELETE("/clear", m.Handler.Clear)
	}
}

type OrderModule struct {
	Handler *handlers.OrderHandler
	JWT     *helpers.JWTManager
}

func NewOrderModule(h *handlers.OrderHandler, jwt *helpers.JWTManager) *OrderModule {
	return &OrderModule{Handler: h, JWT: jwt}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	rg.POST("/v1/checkout", append(authed(m.JWT, entity.RoleCustomer), m.Handler.PlaceOrder)...)

	mine := rg.Group("/v1/orders", authed(m.JWT, entity.RoleCustomer)...)
	mine.GET("", m.Handler.ListMine)

	// customers see their own orders only; admins see all
	view := rg.Group("/v1/orders", authed(m.JWT, entity.RoleCustomer, entity.RoleAdmin)...)
	{
		view.GET("/:id", m.Handler.Get)
		view.GET("/number/:orderNumber", m.Handler.GetByNumber)
	}

	admin := rg.Group("/v1/admin/orders", authed(m.JWT, entity.RoleAdmin)...)
	{
		admin.GET("", m.Handler.ListAll)
		admin.PUT("/:id/status", m.Handler.UpdateStatus)
	}
}

type AddressModule struct {
	Handler *handlers.AddressHandler
	JWT     *helpers.JWTManager
}

func NewAddressModule(h *handlers.AddressHandler, jwt *helpers.JWTManager) *AddressModule {
	return &AddressModule{Handler: h, JWT: jwt}
}

func (m *AddressModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/v1/addresses", authed(m.JWT, entity.RoleCustomer)...)
	{
		g.GET("", m.Handler.List)
		g.GET("/:id", m.Handler.Get)
		g.POST("", m.Handler.Create)
		g.PUT("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Delete)
	}
}
