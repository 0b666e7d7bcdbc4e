package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	handlers "github.com/oksasatya/storefront-api/internal/interface/http"
	"github.com/oksasatya/storefront-api/internal/interface/middleware"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

type EmailModule struct {
	Handler *handlers.EmailHandler
	JWT     *helpers.JWTManager
}

func NewEmailModule(h *handlers.EmailHandler, jwt *helpers.JWTManager) *EmailModule {
	return &EmailModule{Handler: h, JWT: jwt}
}

func (m *EmailModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/v1/admin/emails", authed(m.JWT, entity.RoleAdmin)...)
	g.POST("", limit(60, middleware.KeyByUserID()), m.Handler.Send)
}
