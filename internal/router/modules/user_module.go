package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	handlers "github.com/oksasatya/storefront-api/internal/interface/http"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	me := rg.Group("/v1/users/me", authed(m.JWT)...)
	{
		me.GET("", m.Handler.Me)
		me.PUT("", m.Handler.UpdateMe)
		me.PUT("/password", m.Handler.ChangePassword)
	}

	admin := rg.Group("/v1/users", authed(m.JWT, entity.RoleAdmin)...)
	admin.GET("/:id", m.Handler.GetByID)
}
