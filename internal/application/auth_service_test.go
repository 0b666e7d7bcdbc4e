package application

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/pkg/apperror"
	"github.com/oksasatya/storefront-api/pkg/mailer"
)

func TestAuth_RegisterCreatesCustomerWithCart(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	u, err := app.auth.Register(ctx, RegisterInput{Email: " Jane@Example.com ", Password: "secret1", FirstName: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, entity.RoleCustomer, u.Role)
	assert.NotEqual(t, "secret1", u.Password)

	cart, err := app.cart.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = app.auth.Register(ctx, RegisterInput{Email: "jane@example.com", Password: "secret1"})
	assert.Equal(t, apperror.KindDuplicate, apperror.KindOf(err))
	assert.EqualError(t, err, "Email is already in use!")
}

func TestAuth_LoginAndRotate(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	app.customer(t, "jane@example.com")

	_, _, err := app.auth.Login(ctx, "jane@example.com", "wrong-pass")
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	assert.EqualError(t, err, "Invalid username or password")

	u, pair, err := app.auth.Login(ctx, "JANE@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := app.auth.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "CUSTOMER", claims.Role)

	_, rotated, err := app.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, _, err = app.auth.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, apperror.KindTokenRefresh, apperror.KindOf(err), "old token is single use")

	_, _, err = app.auth.Refresh(ctx, "unknown")
	assert.EqualError(t, err, "Refresh token is not found in database!")
}

func TestAuth_ConcurrentRefreshSingleWinner(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	u := app.customer(t, "jane@example.com")
	pair, err := app.auth.IssueTokens(ctx, u)
	require.NoError(t, err)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = app.auth.Refresh(ctx, pair.RefreshToken)
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.Equal(t, apperror.KindTokenRefresh, apperror.KindOf(err), "%v", err)
	}
	assert.Equal(t, 1, wins)
}

func TestAuth_RefreshExpired(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	u := app.customer(t, "jane@example.com")

	pair, err := app.auth.IssueTokens(ctx, u)
	require.NoError(t, err)

	app.auth.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	_, _, err = app.auth.Refresh(ctx, pair.RefreshToken)
	assert.EqualError(t, err, "Refresh token was expired. Please make a new signin request")

	_, _, err = app.auth.Refresh(ctx, pair.RefreshToken)
	assert.EqualError(t, err, "Refresh token is not found in database!", "expired token was deleted")
}

func TestAuth_LogoutRevokesAll(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	u := app.customer(t, "jane@example.com")
	a, err := app.auth.IssueTokens(ctx, u)
	require.NoError(t, err)
	b, err := app.auth.IssueTokens(ctx, u)
	require.NoError(t, err)

	require.NoError(t, app.auth.Logout(ctx, a.RefreshToken))
	_, _, err = app.auth.Refresh(ctx, b.RefreshToken)
	assert.Equal(t, apperror.KindTokenRefresh, apperror.KindOf(err))

	assert.Equal(t, apperror.KindTokenRefresh, apperror.KindOf(app.auth.Logout(ctx, "unknown")))
}

func TestAuth_PasswordResetFlow(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	u := app.customer(t, "jane@example.com")
	session, err := app.auth.IssueTokens(ctx, u)
	require.NoError(t, err)

	err = app.auth.ForgotPassword(ctx, "nobody@example.com")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	require.NoError(t, app.auth.ForgotPassword(ctx, "jane@example.com"))
	job := app.mail.last()
	assert.Equal(t, mailer.JobPasswordReset, job.Template)
	resetURL, _ := job.Data["resetUrl"].(string)
	require.True(t, strings.HasPrefix(resetURL, "http://shop.test/reset-password?token="))
	token := strings.TrimPrefix(resetURL, "http://shop.test/reset-password?token=")

	require.NoError(t, app.auth.ResetPassword(ctx, token, "newsecret"))

	_, _, err = app.auth.Login(ctx, "jane@example.com", "secret1")
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	_, _, err = app.auth.Login(ctx, "jane@example.com", "newsecret")
	assert.NoError(t, err)

	_, _, err = app.auth.Refresh(ctx, session.RefreshToken)
	assert.Equal(t, apperror.KindTokenRefresh, apperror.KindOf(err), "reset revokes sessions")

	err = app.auth.ResetPassword(ctx, token, "another1")
	assert.EqualError(t, err, "Password reset token has already been used")

	err = app.auth.ResetPassword(ctx, "bogus", "another1")
	assert.EqualError(t, err, "Invalid password reset token")
}

func TestAuth_PurgeTokens(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	u := app.customer(t, "jane@example.com")
	pair, err := app.auth.IssueTokens(ctx, u)
	require.NoError(t, err)
	require.NoError(t, app.auth.Logout(ctx, pair.RefreshToken))
	require.NoError(t, app.auth.ForgotPassword(ctx, "jane@example.com"))

	app.auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	refresh, reset, err := app.auth.PurgeTokens(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, refresh)
	assert.EqualValues(t, 1, reset)

	NewTokenCleanupJob(app.auth, quietLogger()).Run()
}

func TestUser_ProfileAndPassword(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	u := app.customer(t, "jane@example.com")

	got, err := app.user.UpdateProfile(ctx, u.ID, UpdateProfileInput{Phone: "+62 811"})
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, "+62 811", got.Phone)

	err = app.user.ChangePassword(ctx, u.ID, "wrong", "another1")
	assert.EqualError(t, err, "Current password is incorrect")
	require.NoError(t, app.user.ChangePassword(ctx, u.ID, "secret1", "another1"))
	_, err = app.auth.Authenticate(ctx, "jane@example.com", "another1")
	assert.NoError(t, err)

	_, err = app.user.GetProfile(ctx, 999)
	assert.EqualError(t, err, "User not found with id: 999")
}

func TestEmail_Enqueue(t *testing.T) {
	mail := &fakePublisher{}
	svc := NewEmailService(mail, true, quietLogger())
	ctx := context.Background()

	_, err := svc.Enqueue(ctx, mailer.EmailJob{To: "a@example.com"})
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))

	ok, err := svc.Enqueue(ctx, mailer.EmailJob{To: "a@example.com", Subject: "Hi", Text: "Hello"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, mail.jobs, 1)

	disabled := NewEmailService(mail, false, quietLogger())
	ok, err = disabled.Enqueue(ctx, mailer.EmailJob{To: "a@example.com", Subject: "Hi", Text: "Hello"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, mail.jobs, 1)
}
