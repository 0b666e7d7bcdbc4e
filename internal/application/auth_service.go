package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
	"github.com/oksasatya/storefront-api/pkg/helpers"
	"github.com/oksasatya/storefront-api/pkg/mailer"
)

const invalidCredentials = "Invalid username or password"

type AuthService struct {
	Users         repo.UserRepository
	Carts         repo.CartRepository
	RefreshTokens repo.RefreshTokenRepository
	ResetTokens   repo.PasswordResetTokenRepository
	Tx            repo.TxManager
	JWT           *helpers.JWTManager
	Mail          mailer.Publisher // nil disables password reset emails
	Logger        *logrus.Logger

	RefreshTTL  time.Duration
	ResetTTL    time.Duration
	FrontendURL string

	now func() time.Time
}

func NewAuthService(
	users repo.UserRepository,
	carts repo.CartRepository,
	refreshTokens repo.RefreshTokenRepository,
	resetTokens repo.PasswordResetTokenRepository,
	tx repo.TxManager,
	jwt *helpers.JWTManager,
	mail mailer.Publisher,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		Users:         users,
		Carts:         carts,
		RefreshTokens: refreshTokens,
		ResetTokens:   resetTokens,
		Tx:            tx,
		JWT:           jwt,
		Mail:          mail,
		Logger:        logger,
		RefreshTTL:    7 * 24 * time.Hour,
		ResetTTL:      time.Hour,
		now:           time.Now,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a CUSTOMER account together with its empty cart.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := normalizeEmail(in.Email)
	exists, err := s.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Duplicate("Email is already in use!")
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:     email,
		Password:  hash,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     strings.TrimSpace(in.Phone),
		Role:      entity.RoleCustomer,
	}
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Users.Create(ctx, u); err != nil {
			return err
		}
		return s.Carts.Create(ctx, &entity.Cart{UserID: u.ID})
	})
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperror.Unauthorized(invalidCredentials)
	}
	return u, nil
}

// IssueTokens signs an access token and stores a new opaque refresh token.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return TokenPair{}, err
	}
	rt := &entity.RefreshToken{
		UserID:     u.ID,
		Token:      uuid.NewString(),
		ExpiryDate: s.now().Add(s.RefreshTTL),
	}
	if err := s.RefreshTokens.Create(ctx, rt); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: rt.Token, RefreshTokenExpiry: rt.ExpiryDate}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked; expired tokens are deleted.
func (s *AuthService) Refresh(ctx context.Context, token string) (*entity.User, TokenPair, error) {
	rt, err := s.findRefreshToken(ctx, token)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if rt.Revoked {
		return nil, TokenPair{}, apperror.TokenRefresh("Refresh token was revoked. Please make a new signin request")
	}
	if rt.Expired(s.now()) {
		if err := s.RefreshTokens.Delete(ctx, rt.ID); err != nil {
			return nil, TokenPair{}, err
		}
		return nil, TokenPair{}, apperror.TokenRefresh("Refresh token was expired. Please make a new signin request")
	}

	var (
		u    *entity.User
		pair TokenPair
	)
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.RefreshTokens.Revoke(ctx, rt.ID); err != nil {
			return err
		}
		if u, err = s.Users.GetByID(ctx, rt.UserID); err != nil {
			return orNotFound(err, "User", "id", rt.UserID)
		}
		pair, err = s.IssueTokens(ctx, u)
		return err
	})
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Logout revokes every refresh token of the token's owner.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	rt, err := s.findRefreshToken(ctx, token)
	if err != nil {
		return err
	}
	return s.RefreshTokens.RevokeAllForUser(ctx, rt.UserID)
}

func (s *AuthService) findRefreshToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	rt, err := s.RefreshTokens.GetByToken(ctx, token)
	if apperror.Is(err, apperror.KindNotFound) {
		return nil, apperror.TokenRefresh("Refresh token is not found in database!")
	}
	return rt, err
}

// ForgotPassword replaces any pending reset token of the user and enqueues the reset email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return orNotFound(err, "User", "email", email)
	}
	prt := &entity.PasswordResetToken{
		UserID:     u.ID,
		Token:      uuid.NewString(),
		ExpiryDate: s.now().Add(s.ResetTTL),
	}
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ResetTokens.DeleteByUser(ctx, u.ID); err != nil {
			return err
		}
		return s.ResetTokens.Create(ctx, prt)
	})
	if err != nil {
		return err
	}

	if s.Mail == nil {
		s.Logger.WithField("user_id", u.ID).Debug("mail disabled; password reset email not sent")
		return nil
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.JobPasswordReset,
		Data: map[string]any{
			"name":      u.FullName(),
			"resetUrl":  strings.TrimRight(s.FrontendURL, "/") + "/reset-password?token=" + prt.Token,
			"expiresAt": prt.ExpiryDate.UTC().Format(time.RFC1123),
		},
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("enqueue password reset email failed")
		return err
	}
	return nil
}

// ResetPassword consumes a reset token. All refresh tokens of the user are revoked.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	prt, err := s.ResetTokens.GetByToken(ctx, token)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return apperror.TokenRefresh("Invalid password reset token")
		}
		return err
	}
	if prt.Used {
		return apperror.TokenRefresh("Password reset token has already been used")
	}
	if prt.Expired(s.now()) {
		return apperror.TokenRefresh("Password reset token is expired")
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	return s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Users.UpdatePassword(ctx, prt.UserID, hash); err != nil {
			return err
		}
		if err := s.ResetTokens.MarkUsed(ctx, prt.ID); err != nil {
			return err
		}
		return s.RefreshTokens.RevokeAllForUser(ctx, prt.UserID)
	})
}

// PurgeTokens deletes revoked or expired refresh tokens and used or expired reset tokens.
func (s *AuthService) PurgeTokens(ctx context.Context) (refresh, reset int64, err error) {
	now := s.now()
	if refresh, err = s.RefreshTokens.DeleteRevokedOrExpired(ctx, now); err != nil {
		return 0, 0, err
	}
	if reset, err = s.ResetTokens.DeleteUsedOrExpired(ctx, now); err != nil {
		return refresh, 0, err
	}
	return refresh, reset, nil
}
