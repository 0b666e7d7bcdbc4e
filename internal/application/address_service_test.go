package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

func defaults(t *testing.T, app *testApp, userID int64) []int64 {
	t.Helper()
	list, err := app.address.List(context.Background(), userID)
	require.NoError(t, err)
	var ids []int64
	for _, a := range list {
		if a.IsDefault {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func TestAddress_DefaultInvariant(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	u := app.customer(t, "jane@example.com")

	first := app.seedAddress(t, u.ID, "Jakarta")
	assert.True(t, first.IsDefault, "first address becomes default")

	second := app.seedAddress(t, u.ID, "Bandung")
	assert.False(t, second.IsDefault)
	assert.Equal(t, []int64{first.ID}, defaults(t, app, u.ID))

	third, err := app.address.Create(ctx, u.ID, &entity.Address{
		FullName:     "Jane Doe",
		AddressLine1: "3 Side St",
		City:         "Surabaya",
		PostalCode:   "60111",
		Country:      "ID",
		IsDefault:    true,
		Type:         entity.AddressBilling,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{third.ID}, defaults(t, app, u.ID))

	require.NoError(t, app.address.Delete(ctx, u.ID, third.ID))
	assert.Equal(t, []int64{first.ID}, defaults(t, app, u.ID), "oldest remaining address is promoted")
}

func TestAddress_UpdateKeepsDefault(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	u := app.customer(t, "jane@example.com")
	first := app.seedAddress(t, u.ID, "Jakarta")

	in := *first
	in.City = "Bogor"
	in.IsDefault = false
	got, err := app.address.Update(ctx, u.ID, first.ID, &in)
	require.NoError(t, err)
	assert.Equal(t, "Bogor", got.City)
	assert.True(t, got.IsDefault)
}

func TestAddress_ForeignAccessForbidden(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	jane := app.customer(t, "jane@example.com")
	john := app.customer(t, "john@example.com")
	addr := app.seedAddress(t, jane.ID, "Jakarta")

	_, err := app.address.Get(ctx, john.ID, addr.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	assert.EqualError(t, err, "Address does not belong to the user")

	err = app.address.Delete(ctx, john.ID, addr.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = app.address.Get(ctx, jane.ID, 404)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
