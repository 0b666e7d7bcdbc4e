package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

func TestAbout_ActiveInvariant(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	_, err := app.about.Active(ctx)
	assert.EqualError(t, err, "No active about page found")

	first, err := app.about.Create(ctx, &entity.AboutPage{Title: "Our story", Content: "v1", Active: true})
	require.NoError(t, err)

	err = app.about.Delete(ctx, first.ID)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.EqualError(t, err, "Cannot delete the only active about page")

	second, err := app.about.Create(ctx, &entity.AboutPage{Title: "Our story", Content: "v2", Active: true})
	require.NoError(t, err)

	active, err := app.about.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	old, err := app.about.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.Active, "activating one page deactivates the others")

	require.NoError(t, app.about.Delete(ctx, second.ID))
	active, err = app.about.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID, "remaining page is activated")
}

func TestBlog_PublishStampsOnce(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	author := app.customer(t, "author@example.com")
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	app.blog.now = func() time.Time { return fixed }

	post, err := app.blog.Create(ctx, author.ID, &entity.BlogPost{Title: "Hello World", Content: "first", Tags: []string{"news"}})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Nil(t, post.PublishedAt)

	post.Published = true
	post, err = app.blog.Update(ctx, post.ID, post)
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.True(t, fixed.Equal(*post.PublishedAt))

	app.blog.now = func() time.Time { return fixed.Add(time.Hour) }
	post.Content = "edited"
	post, err = app.blog.Update(ctx, post.ID, post)
	require.NoError(t, err)
	assert.True(t, fixed.Equal(*post.PublishedAt), "first publication time is kept")

	tags, err := app.blog.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"news"}, tags)

	_, err = app.blog.GetBySlug(ctx, "missing")
	assert.EqualError(t, err, "Blog post not found with slug: missing")
}

func TestAnalytics_RecordAndSummary(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	_, p, o := placeOrder(t, app, "jane@example.com", 2)
	_, err := app.order.UpdateStatus(ctx, o.ID, entity.OrderDelivered, "")
	require.NoError(t, err)

	a, err := app.analytics.Record(ctx, TrafficInput{TotalVisitors: 10, UniqueVisitors: 4, PageViews: 30})
	require.NoError(t, err)
	assert.Equal(t, 1, a.Orders)
	assert.True(t, a.TotalRevenue.Equal(o.TotalAmount))
	assert.InDelta(t, 25.0, a.ConversionRate, 0.0001)
	assert.Equal(t, p.Name+" (ID: "+itoa(p.ID)+")", a.TopSellingProducts)

	today := Day(time.Now())
	got, err := app.analytics.ByDate(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, a.TopCategories, got.TopCategories)

	sum, err := app.analytics.Summary(ctx, today.AddDate(0, 0, -1), today)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sum.TotalOrders)
	assert.Contains(t, sum.RevenueByDay, today.Format(DateLayout))

	_, err = app.analytics.Summary(ctx, today, today.AddDate(0, 0, -1))
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))

	_, err = app.analytics.ByDate(ctx, today.AddDate(0, 0, -3))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestAnalytics_NoVisitorsMeansZeroConversion(t *testing.T) {
	app := newTestApp(t)
	a, err := app.analytics.Record(context.Background(), TrafficInput{})
	require.NoError(t, err)
	assert.Zero(t, a.ConversionRate)
	assert.Empty(t, a.TopSellingProducts)
}
