package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/pkg/helpers"
	"github.com/oksasatya/storefront-api/pkg/response"
)

// Gin context keys set by Auth.
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxUserRole  = "userRole"
)

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil {
		return tok
	}
	return ""
}

// Auth validates the access token from the Authorization header, falling back
// to the access_token cookie. It sets userID, userEmail and userRole on success.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Message{Message: "Full authentication is required to access this resource"})
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Message{Message: "Invalid or expired access token"})
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserEmail, claims.Email)
		c.Set(CtxUserRole, entity.Role(claims.Role))
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, UserRole(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Message{Message: "Access denied: You don't have permission to access this resource"})
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserID)
}

func UserRole(c *gin.Context) entity.Role {
	if r, ok := c.Get(CtxUserRole); ok {
		if role, ok := r.(entity.Role); ok {
			return role
		}
	}
	return ""
}

func IsAdmin(c *gin.Context) bool {
	return UserRole(c) == entity.RoleAdmin
}
