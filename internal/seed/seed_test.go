package seed

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeeder(t *testing.T) (*Seeder, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(db, log), mock
}

func TestUsers_UpsertsAccountsWithCarts(t *testing.T) {
	s, mock := newSeeder(t)

	for i, a := range DefaultAccounts {
		mock.ExpectQuery(`INSERT INTO users .* ON CONFLICT \(email\)`).
			WithArgs(a.Email, sqlmock.AnyArg(), a.FirstName, a.LastName, string(a.Role)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(i + 1)))
		mock.ExpectExec(`INSERT INTO carts .* ON CONFLICT \(user_id\) DO NOTHING`).
			WithArgs(int64(i + 1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, s.Users(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_StopsOnError(t *testing.T) {
	s, mock := newSeeder(t)
	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("connection refused"))

	err := s.Users(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), DefaultAccounts[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_InsertsProductsUnderTheirCategory(t *testing.T) {
	s, mock := newSeeder(t)

	for i, c := range catalog {
		catID := int64(10 + i)
		mock.ExpectQuery(`INSERT INTO categories .* ON CONFLICT \(name\)`).
			WithArgs(c.Name, sqlmock.AnyArg(), c.Description).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(catID))
		for _, p := range c.Products {
			mock.ExpectExec(`INSERT INTO products .* ON CONFLICT \(sku\) DO NOTHING`).
				WithArgs(p.Name, sqlmock.AnyArg(), sqlmock.AnyArg(), p.Stock, p.SKU, catID, p.Featured).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
	}

	require.NoError(t, s.Catalog(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContent_SeedsAboutPageAndWelcomePost(t *testing.T) {
	s, mock := newSeeder(t)

	mock.ExpectExec(`INSERT INTO about_pages .* WHERE NOT EXISTS`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT id FROM users WHERE email = \$1`).
		WithArgs(DefaultAccounts[0].Email).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec(`INSERT INTO blog_posts .* ON CONFLICT \(slug\) DO NOTHING`).
		WithArgs("Welcome to our store", "welcome-to-our-store", sqlmock.AnyArg(), sqlmock.AnyArg(), int64(1), "news,launch").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Content(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
