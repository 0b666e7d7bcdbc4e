package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

func seedProduct(t *testing.T, s *Store, name string, stock int) *entity.Product {
	t.Helper()
	ctx := context.Background()
	cats := NewCategoryRepository(s)
	c, err := cats.GetBySlug(ctx, "general")
	if err != nil {
		c = &entity.Category{Name: "General", Slug: "general"}
		require.NoError(t, cats.Create(ctx, c))
	}
	p := &entity.Product{
		Name:       name,
		Slug:       name,
		SKU:        "SKU-" + name,
		Price:      decimal.NewFromInt(10),
		Stock:      stock,
		CategoryID: c.ID,
		Active:     true,
	}
	require.NoError(t, NewProductRepository(s).Create(ctx, p))
	return p
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, "mug", 5)
	products := NewProductRepository(s)
	tx := NewTxManager(s)

	boom := errors.New("boom")
	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := products.AdjustStock(ctx, p.ID, -3)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestWithinTx_NestedJoinsOuter(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, "mug", 5)
	products := NewProductRepository(s)
	tx := NewTxManager(s)

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := products.AdjustStock(ctx, p.ID, 2)
			return err
		})
	})
	require.NoError(t, err)

	got, _ := products.GetByID(context.Background(), p.ID)
	assert.Equal(t, 7, got.Stock)
}

func TestAdjustStock_Insufficient(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, "mug", 2)

	_, err := NewProductRepository(s).AdjustStock(context.Background(), p.ID, -3)
	assert.True(t, apperror.Is(err, apperror.KindInsufficientStock))
	assert.Contains(t, err.Error(), "available 2, requested 3")
}

func TestProductList_PagesAndSorts(t *testing.T) {
	s := NewStore()
	for _, n := range []string{"c", "a", "b"} {
		seedProduct(t, s, n, 1)
	}
	repo := NewProductRepository(s)

	page, err := repo.List(context.Background(), repository.PageRequest{Page: 0, Size: 2, Sort: "name"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a", page.Items[0].Name)
	assert.Equal(t, "b", page.Items[1].Name)

	page, err = repo.List(context.Background(), repository.PageRequest{Page: 5, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestCategoryDelete_RestrictedByProducts(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, "mug", 1)

	err := NewCategoryRepository(s).Delete(context.Background(), p.CategoryID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestUserCreate_DuplicateEmailIgnoresCase(t *testing.T) {
	s := NewStore()
	users := NewUserRepository(s)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &entity.User{Email: "a@example.com", Role: entity.RoleCustomer}))
	err := users.Create(ctx, &entity.User{Email: "A@Example.com", Role: entity.RoleCustomer})
	assert.True(t, apperror.Is(err, apperror.KindDuplicate))
}

func TestWithinTx_RollbackKeepsConcurrentWrites(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, "mug", 5)
	products := NewProductRepository(s)
	tx := NewTxManager(s)

	boom := errors.New("boom")
	started, release := make(chan struct{}), make(chan struct{})
	txErr := make(chan error, 1)
	go func() {
		txErr <- tx.WithinTx(context.Background(), func(ctx context.Context) error {
			if _, err := products.AdjustStock(ctx, p.ID, -2); err != nil {
				return err
			}
			close(started)
			<-release
			return boom
		})
	}()
	<-started

	lamp := &entity.Product{Name: "lamp", Slug: "lamp", SKU: "SKU-lamp", Price: decimal.NewFromInt(20), Stock: 3, CategoryID: p.CategoryID, Active: true}
	created := make(chan error, 1)
	go func() { created <- products.Create(context.Background(), lamp) }()

	select {
	case err := <-created:
		t.Fatalf("write finished while the transaction was open: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(release)

	require.ErrorIs(t, <-txErr, boom)
	require.NoError(t, <-created)

	got, err := products.GetBySlug(context.Background(), "lamp")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)

	mug, err := products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, mug.Stock)
}

func TestTokens_SingleUse(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := &entity.User{Email: "jane@example.com", Password: "x", Role: entity.RoleCustomer}
	require.NoError(t, NewUserRepository(s).Create(ctx, u))

	refresh := NewRefreshTokenRepository(s)
	rt := &entity.RefreshToken{UserID: u.ID, Token: "r1", ExpiryDate: time.Now().Add(time.Hour)}
	require.NoError(t, refresh.Create(ctx, rt))
	require.NoError(t, refresh.Revoke(ctx, rt.ID))
	err := refresh.Revoke(ctx, rt.ID)
	assert.True(t, apperror.Is(err, apperror.KindTokenRefresh), "%v", err)

	resets := NewPasswordResetTokenRepository(s)
	prt := &entity.PasswordResetToken{UserID: u.ID, Token: "p1", ExpiryDate: time.Now().Add(time.Hour)}
	require.NoError(t, resets.Create(ctx, prt))
	require.NoError(t, resets.MarkUsed(ctx, prt.ID))
	err = resets.MarkUsed(ctx, prt.ID)
	assert.EqualError(t, err, "Password reset token has already been used")
}
