package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/interface/http/dto"
	"github.com/oksasatya/storefront-api/pkg/helpers"
	"github.com/oksasatya/storefront-api/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

// Register POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	_, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Msg(c, http.StatusOK, "User registered successfully!")
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, dto.NewJwtResponse(u, pair.AccessToken, pair.RefreshToken))
}

// RefreshToken POST /api/v1/auth/refresh-token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, ok := h.refreshToken(c)
	if !ok {
		return
	}
	_, pair, err := h.Svc.Refresh(c.Request.Context(), token)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, dto.TokenRefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
	})
}

// Logout POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := h.refreshToken(c)
	if !ok {
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), token); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Msg(c, http.StatusOK, "Log out successful!")
}

// refreshToken reads the token from the body and falls back to the refresh cookie.
func (h *AuthHandler) refreshToken(c *gin.Context) (string, bool) {
	var req dto.TokenRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if tok, cerr := c.Cookie(helpers.RefreshCookie); cerr == nil && tok != "" {
			return tok, true
		}
		response.ValidationError(c, err)
		return "", false
	}
	return req.RefreshToken, true
}

// ForgotPassword POST /api/v1/auth/password/forgot
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Msg(c, http.StatusOK, "Password reset instructions have been sent to your email")
}

// ResetPassword POST /api/v1/auth/password/reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Msg(c, http.StatusOK, "Password has been reset successfully")
}
