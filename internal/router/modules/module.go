package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-api/internal/container"
	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/interface/middleware"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

// limit allows n requests per minute per key. The counter is shared through
// Redis when it is configured and kept in process otherwise.
func limit(n int, key middleware.KeyFunc) gin.HandlerFunc {
	return middleware.RateLimit(container.GetRedis(), n, time.Minute, key, nil)
}

// authed is the middleware chain of protected groups: token check, optional
// role check and a per-user limit.
func authed(jwt *helpers.JWTManager, roles ...entity.Role) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{middleware.Auth(jwt)}
	if len(roles) > 0 {
		chain = append(chain, middleware.RequireRole(roles...))
	}
	return append(chain, limit(120, middleware.KeyByUserID()))
}

func publicLimit() gin.HandlerFunc {
	return limit(300, middleware.KeyByIP())
}
