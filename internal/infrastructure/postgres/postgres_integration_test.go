//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/internal/infrastructure/postgres"
	"github.com/oksasatya/storefront-api/internal/seed"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

// setupDB starts Postgres, applies the migrations and returns a pool plus a
// database/sql handle on the same database.
func setupDB(t *testing.T) (*pgxpool.Pool, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	c, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("storefront"),
		tcpostgres.WithUsername("storefront"),
		tcpostgres.WithPassword("storefront"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := c.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	require.NoError(t, err)
	m, err := migrate.NewWithDatabaseInstance("file://../../../db/migrations", "postgres", driver)
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dsn, 4, 1, time.Hour)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool, db
}

func TestPostgres_Repositories(t *testing.T) {
	pool, db := setupDB(t)
	ctx := context.Background()

	log := logrus.New()
	log.SetOutput(io.Discard)
	require.NoError(t, seed.New(db, log).All(ctx))
	// seeding twice must not fail or duplicate rows
	require.NoError(t, seed.New(db, log).All(ctx))

	users := postgres.NewUserRepository(pool)
	categories := postgres.NewCategoryRepository(pool)
	products := postgres.NewProductRepository(pool)
	tx := postgres.NewTxManager(pool)

	t.Run("seeded accounts", func(t *testing.T) {
		admin, err := users.GetByEmail(ctx, seed.DefaultAccounts[0].Email)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleAdmin, admin.Role)

		dup := &entity.User{Email: admin.Email, Password: "x", FirstName: "A", LastName: "B", Role: entity.RoleCustomer}
		assert.True(t, apperror.Is(users.Create(ctx, dup), apperror.KindDuplicate))
	})

	t.Run("catalog paging and search", func(t *testing.T) {
		roots, err := categories.ListRoots(ctx)
		require.NoError(t, err)
		assert.Len(t, roots, 3)

		page, err := products.List(ctx, repo.PageRequest{Page: 0, Size: 2, Sort: "price", Desc: true})
		require.NoError(t, err)
		assert.EqualValues(t, 4, page.Total)
		require.Len(t, page.Items, 2)
		assert.True(t, page.Items[0].Price.GreaterThanOrEqual(page.Items[1].Price))

		found, err := products.Search(ctx, "coffee", repo.PageRequest{Size: 10})
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "HK-CF-001", found.Items[0].SKU)
	})

	t.Run("product round trip", func(t *testing.T) {
		cat, err := categories.GetBySlug(ctx, "books")
		require.NoError(t, err)

		p := &entity.Product{
			Name:          "Concurrency in Go",
			Slug:          "concurrency-in-go",
			Price:         decimal.RequireFromString("38.25"),
			DiscountPrice: decimal.NewNullDecimal(decimal.RequireFromString("30.00")),
			Stock:         2,
			SKU:           "BK-GO-002",
			CategoryID:    cat.ID,
			Images:        []string{"https://cdn.example.com/cig.png"},
			Attributes:    map[string]string{"pages": "238"},
			Active:        true,
		}
		require.NoError(t, products.Create(ctx, p))

		got, err := products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, p.Price.Equal(got.Price))
		assert.True(t, got.DiscountPrice.Valid)
		assert.Equal(t, p.Images, got.Images)
		assert.Equal(t, "238", got.Attributes["pages"])
		require.NotNil(t, got.Category)
		assert.Equal(t, "Books", got.Category.Name)
	})

	t.Run("stock never goes negative", func(t *testing.T) {
		p, err := products.GetBySlug(ctx, "pour-over-coffee-set")
		require.NoError(t, err)

		left, err := products.AdjustStock(ctx, p.ID, -p.Stock)
		require.NoError(t, err)
		assert.Zero(t, left)

		_, err = products.AdjustStock(ctx, p.ID, -1)
		assert.True(t, apperror.Is(err, apperror.KindInsufficientStock))
	})

	t.Run("tokens are single use", func(t *testing.T) {
		admin, err := users.GetByEmail(ctx, seed.DefaultAccounts[0].Email)
		require.NoError(t, err)

		refresh := postgres.NewRefreshTokenRepository(pool)
		rt := &entity.RefreshToken{UserID: admin.ID, Token: "it-refresh", ExpiryDate: time.Now().Add(time.Hour)}
		require.NoError(t, refresh.Create(ctx, rt))
		require.NoError(t, refresh.Revoke(ctx, rt.ID))
		assert.True(t, apperror.Is(refresh.Revoke(ctx, rt.ID), apperror.KindTokenRefresh))

		resets := postgres.NewPasswordResetTokenRepository(pool)
		prt := &entity.PasswordResetToken{UserID: admin.ID, Token: "it-reset", ExpiryDate: time.Now().Add(time.Hour)}
		require.NoError(t, resets.Create(ctx, prt))
		require.NoError(t, resets.MarkUsed(ctx, prt.ID))
		assert.True(t, apperror.Is(resets.MarkUsed(ctx, prt.ID), apperror.KindTokenRefresh))
	})

	t.Run("transaction rollback", func(t *testing.T) {
		p, err := products.GetBySlug(ctx, "usb-c-charger-65w")
		require.NoError(t, err)

		boom := errors.New("boom")
		err = tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := products.AdjustStock(ctx, p.ID, -10); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		after, err := products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Stock, after.Stock)
	})
}
