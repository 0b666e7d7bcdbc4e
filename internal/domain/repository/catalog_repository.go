package repository

import (
	"context"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]entity.Category, error)
	ListRoots(ctx context.Context) ([]entity.Category, error)
	ListChildren(ctx context.Context, parentID int64) ([]entity.Category, error)
	ListByIDs(ctx context.Context, ids []int64) ([]entity.Category, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	List(ctx context.Context, page PageRequest) (Page[entity.Product], error)
	ListByCategory(ctx context.Context, categoryID int64, page PageRequest) (Page[entity.Product], error)
	Search(ctx context.Context, keyword string, page PageRequest) (Page[entity.Product], error)
	ListFeatured(ctx context.Context, limit int) ([]entity.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]entity.Product, error)
	ListByIDs(ctx context.Context, ids []int64) ([]entity.Product, error)
	// AdjustStock adds delta to the stock of a product and returns the new level.
	// It fails with an insufficient stock error when the result would be negative.
	AdjustStock(ctx context.Context, id int64, delta int) (int, error)
	BestSelling(ctx context.Context, limit int) ([]entity.RankedItem, error)
	BestSellingCategories(ctx context.Context, limit int) ([]entity.RankedItem, error)
}
