package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

type fakeSearcher struct {
	ids     []int64
	err     error
	indexed []int64
}

func (f *fakeSearcher) Index(_ context.Context, p *entity.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeSearcher) Delete(context.Context, int64) error { return nil }

func (f *fakeSearcher) Search(context.Context, string, repo.PageRequest) ([]int64, int64, error) {
	return f.ids, int64(len(f.ids)), f.err
}

type fakeImages struct{ paths []string }

func (f *fakeImages) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.paths = append(f.paths, objectPath)
	return "https://cdn.test/" + objectPath, nil
}

func TestCategory_Rules(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	root := app.seedCategory(t, "Home & Kitchen")
	assert.Equal(t, "home-kitchen", root.Slug)

	_, err := app.category.Create(ctx, &entity.Category{Name: "Home & Kitchen"})
	assert.EqualError(t, err, "Category already exists with name: Home & Kitchen")

	missing := int64(77)
	_, err = app.category.Create(ctx, &entity.Category{Name: "Orphan", ParentID: &missing})
	assert.EqualError(t, err, "Parent category not found with id: 77")

	child, err := app.category.Create(ctx, &entity.Category{Name: "Mugs", ParentID: &root.ID})
	require.NoError(t, err)
	assert.Equal(t, "Home & Kitchen", child.ParentName)

	self := child.ID
	_, err = app.category.Update(ctx, child.ID, &entity.Category{Name: "Mugs", ParentID: &self})
	assert.EqualError(t, err, "Category cannot be its own parent")

	subs, err := app.category.Subcategories(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, child.ID, subs[0].ID)

	roots, err := app.category.ListRoots(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.True(t, roots[0].HasChildren)

	moved, err := app.category.Update(ctx, child.ID, &entity.Category{Name: "Cups"})
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)
	assert.Equal(t, "mugs", moved.Slug, "slug is kept unless given")
}

func TestCategory_DeleteWithProducts(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	c := app.seedCategory(t, "Mugs")
	p := app.seedProduct(t, c, "Blue Mug", "10", 1)

	err := app.category.Delete(ctx, c.ID)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	require.NoError(t, app.product.Delete(ctx, p.ID))
	require.NoError(t, app.category.Delete(ctx, c.ID))
	_, err = app.category.Get(ctx, c.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestProduct_SearchUsesIndexThenFallsBack(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	c := app.seedCategory(t, "Mugs")
	blue := app.seedProduct(t, c, "Blue Mug", "10", 1)
	red := app.seedProduct(t, c, "Red Mug", "10", 1)

	search := &fakeSearcher{ids: []int64{red.ID, blue.ID}}
	app.product.Search = search

	page, err := app.product.SearchProducts(ctx, "mug", pageOf(0, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, red.ID, page.Items[0].ID, "index relevance order is kept")

	search.err = errors.New("cluster down")
	page, err = app.product.SearchProducts(ctx, "blue", pageOf(0, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, blue.ID, page.Items[0].ID)
}

func TestProduct_StockAndImages(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	p := app.seedProduct(t, app.seedCategory(t, "Mugs"), "Blue Mug", "10", 3)

	got, err := app.product.AdjustStock(ctx, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)

	_, err = app.product.AdjustStock(ctx, p.ID, -8)
	assert.EqualError(t, err, "Not enough stock available for product: Blue Mug")

	_, err = app.product.UploadImage(ctx, p.ID, "a.png", "image/png", strings.NewReader("png"))
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err), "no image store configured")

	images := &fakeImages{}
	app.product.Images = images
	_, err = app.product.UploadImage(ctx, p.ID, "a.txt", "text/plain", strings.NewReader("txt"))
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))

	got, err = app.product.UploadImage(ctx, p.ID, "a.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	require.Len(t, images.paths, 1)
	assert.Equal(t, []string{"https://cdn.test/" + images.paths[0]}, got.Images)
}

func TestProduct_CategoryMustExist(t *testing.T) {
	app := newTestApp(t)
	_, err := app.product.Create(context.Background(), &entity.Product{Name: "Ghost", SKU: "G-1", CategoryID: 5})
	assert.EqualError(t, err, "Category not found with id: 5")

	_, err = app.product.ListByCategory(context.Background(), 5, pageOf(0, 10))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
