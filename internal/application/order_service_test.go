package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

func placeOrder(t *testing.T, app *testApp, email string, qty int) (*entity.User, *entity.Product, *entity.Order) {
	t.Helper()
	ctx := context.Background()
	u := app.customer(t, email)
	addr := app.seedAddress(t, u.ID, "Jakarta")
	p := app.seedProduct(t, app.seedCategory(t, "Cat "+email), "Mug "+email, "10", 10)
	_, err := app.cart.AddItem(ctx, u.ID, p.ID, qty)
	require.NoError(t, err)
	o, err := app.checkout.Checkout(ctx, u.ID, CheckoutInput{
		ShippingAddressID: addr.ID,
		PaymentMethod:     entity.PaymentCashOnDelivery,
	})
	require.NoError(t, err)
	return u, p, o
}

func TestOrder_OwnershipHidesForeignOrders(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	jane, _, o := placeOrder(t, app, "jane@example.com", 1)
	john := app.customer(t, "john@example.com")

	got, err := app.order.Get(ctx, Viewer{UserID: jane.ID}, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, got.OrderNumber)

	_, err = app.order.Get(ctx, Viewer{UserID: john.ID}, o.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = app.order.GetByNumber(ctx, Viewer{UserID: john.ID}, o.OrderNumber)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = app.order.GetByNumber(ctx, Viewer{UserID: john.ID, Admin: true}, o.OrderNumber)
	assert.NoError(t, err)
}

func TestOrder_CancelRestoresStockAndRefunds(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	_, p, o := placeOrder(t, app, "jane@example.com", 3)
	require.Equal(t, 7, app.stock(t, p.ID))

	got, err := app.order.UpdateStatus(ctx, o.ID, entity.OrderCancelled, "")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, got.Status)
	require.NotNil(t, got.Payment)
	assert.Equal(t, entity.PaymentRefunded, got.Payment.Status)
	assert.Equal(t, 10, app.stock(t, p.ID))

	_, err = app.order.UpdateStatus(ctx, o.ID, entity.OrderShipped, "")
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err), "cancelled is terminal")
}

func TestOrder_ShipThenDeliver(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	_, _, o := placeOrder(t, app, "jane@example.com", 1)

	got, err := app.order.UpdateStatus(ctx, o.ID, entity.OrderShipped, "TRK-1")
	require.NoError(t, err)
	assert.Equal(t, "TRK-1", got.TrackingNumber)
	assert.Equal(t, entity.PaymentPending, got.Payment.Status)

	got, err = app.order.UpdateStatus(ctx, o.ID, entity.OrderShipped, "TRK-2")
	require.NoError(t, err, "same status only updates tracking")
	assert.Equal(t, "TRK-2", got.TrackingNumber)

	got, err = app.order.UpdateStatus(ctx, o.ID, entity.OrderDelivered, "TRK-3")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, got.Payment.Status)
	assert.Equal(t, "TRK-2", got.TrackingNumber, "tracking is only taken with SHIPPED")
}

func TestOrder_TrackingIgnoredUnlessShipped(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	_, _, o := placeOrder(t, app, "jane@example.com", 1)

	got, err := app.order.UpdateStatus(ctx, o.ID, entity.OrderProcessing, "TRK-EARLY")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderProcessing, got.Status)
	assert.Empty(t, got.TrackingNumber)

	got, err = app.order.UpdateStatus(ctx, o.ID, entity.OrderCancelled, "TRK-LATE")
	require.NoError(t, err)
	assert.Empty(t, got.TrackingNumber)
}

func TestOrder_ListFiltersByStatus(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	_, _, first := placeOrder(t, app, "jane@example.com", 1)
	placeOrder(t, app, "john@example.com", 1)
	_, err := app.order.UpdateStatus(ctx, first.ID, entity.OrderProcessing, "")
	require.NoError(t, err)

	all, err := app.order.List(ctx, "", pageOf(0, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	processing, err := app.order.List(ctx, entity.OrderProcessing, pageOf(0, 10))
	require.NoError(t, err)
	require.Len(t, processing.Items, 1)
	assert.Equal(t, first.ID, processing.Items[0].ID)

	_, err = app.order.List(ctx, "LOST", pageOf(0, 10))
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}
