package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

func TestCart_AddItemReservesStock(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	u := app.customer(t, "jane@example.com")
	p := app.seedProduct(t, app.seedCategory(t, "Mugs"), "Blue Mug", "12.50", 10)

	cart, err := app.cart.AddItem(ctx, u.ID, p.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.ItemCount())
	assert.Equal(t, "37.5", cart.TotalPrice().String())
	assert.Equal(t, 7, app.stock(t, p.ID))

	cart, err = app.cart.AddItem(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "same product merges into one line")
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, app.stock(t, p.ID))
}

func TestCart_AddItemInsufficientStock(t *testing.T) {
	app := newTestApp(t)
	u := app.customer(t, "jane@example.com")
	p := app.seedProduct(t, app.seedCategory(t, "Mugs"), "Blue Mug", "12.50", 2)

	_, err := app.cart.AddItem(context.Background(), u.ID, p.ID, 3)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInsufficientStock, apperror.KindOf(err))
	assert.EqualError(t, err, "Not enough stock available for product: Blue Mug")
	assert.Equal(t, 2, app.stock(t, p.ID))
}

func TestCart_AddInactiveProduct(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	u := app.customer(t, "jane@example.com")
	p := app.seedProduct(t, app.seedCategory(t, "Mugs"), "Blue Mug", "12.50", 2)
	p.Active = false
	_, err := app.product.Update(ctx, p.ID, p)
	require.NoError(t, err)

	_, err = app.cart.AddItem(ctx, u.ID, p.ID, 1)
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestCart_UpdateItemAdjustsReservation(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	u := app.customer(t, "jane@example.com")
	p := app.seedProduct(t, app.seedCategory(t, "Mugs"), "Blue Mug", "10", 10)

	cart, err := app.cart.AddItem(ctx, u.ID, p.ID, 4)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	_, err = app.cart.UpdateItem(ctx, u.ID, itemID, 1)
	require.NoError(t, err)
	assert.Equal(t, 9, app.stock(t, p.ID))

	_, err = app.cart.UpdateItem(ctx, u.ID, itemID, 6)
	require.NoError(t, err)
	assert.Equal(t, 4, app.stock(t, p.ID))

	cart, err = app.cart.UpdateItem(ctx, u.ID, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 10, app.stock(t, p.ID))
}

func TestCart_RemoveAndClearRestoreStock(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	u := app.customer(t, "jane@example.com")
	cat := app.seedCategory(t, "Mugs")
	a := app.seedProduct(t, cat, "Blue Mug", "10", 5)
	b := app.seedProduct(t, cat, "Red Mug", "10", 5)

	_, err := app.cart.AddItem(ctx, u.ID, a.ID, 2)
	require.NoError(t, err)
	cart, err := app.cart.AddItem(ctx, u.ID, b.ID, 3)
	require.NoError(t, err)

	line := cart.FindByProduct(a.ID)
	require.NotNil(t, line)
	_, err = app.cart.RemoveItem(ctx, u.ID, line.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, app.stock(t, a.ID))

	cart, err = app.cart.Clear(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 5, app.stock(t, b.ID))
}

func TestCart_ForeignItemNotFound(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	jane := app.customer(t, "jane@example.com")
	john := app.customer(t, "john@example.com")
	p := app.seedProduct(t, app.seedCategory(t, "Mugs"), "Blue Mug", "10", 5)

	cart, err := app.cart.AddItem(ctx, jane.ID, p.ID, 1)
	require.NoError(t, err)

	_, err = app.cart.RemoveItem(ctx, john.ID, cart.Items[0].ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "Cart item not found with id")
}

func TestCart_GetCreatesMissingCart(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	u := &entity.User{Email: "raw@example.com", Password: "x", Role: entity.RoleCustomer}
	require.NoError(t, app.users.Create(ctx, u))

	cart, err := app.cart.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.NotZero(t, cart.ID)
	assert.Equal(t, u.ID, cart.UserID)
}
