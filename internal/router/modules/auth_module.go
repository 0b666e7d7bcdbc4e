package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/storefront-api/internal/interface/http"
	"github.com/oksasatya/storefront-api/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

// Register wires the public auth endpoints. Credential and reset endpoints
// get tighter per-IP limits.
func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/v1/auth")
	g.POST("/register", limit(10, middleware.KeyByIPAndPath()), m.Handler.Register)
	g.POST("/login", limit(10, middleware.KeyByIPAndPath()), m.Handler.Login)
	g.POST("/refresh-token", limit(60, middleware.KeyByIP()), m.Handler.RefreshToken)
	g.POST("/logout", limit(60, middleware.KeyByIP()), m.Handler.Logout)
	g.POST("/password/forgot", limit(5, middleware.KeyByIPAndPath()), m.Handler.ForgotPassword)
	g.POST("/password/reset", limit(30, middleware.KeyByIPAndPath()), m.Handler.ResetPassword)
}
