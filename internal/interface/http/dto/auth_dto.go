package dto

import "github.com/oksasatya/storefront-api/internal/domain/entity"

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=100"`
	Password  string `json:"password" binding:"required,pwd,max=72"`
	FirstName string `json:"firstName" binding:"required,max=50"`
	LastName  string `json:"lastName" binding:"required,max=50"`
	Phone     string `json:"phone" binding:"omitempty,phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenRefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,pwd,max=72"`
}

type JwtResponse struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	Role         entity.Role `json:"role"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	TokenType    string      `json:"tokenType"`
}

func NewJwtResponse(u *entity.User, access, refresh string) JwtResponse {
	return JwtResponse{
		ID:           u.ID,
		Email:        u.Email,
		Role:         u.Role,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}
}

type TokenRefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}
