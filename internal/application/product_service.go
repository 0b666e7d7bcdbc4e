package application

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

type ProductService struct {
	Products   repo.ProductRepository
	Categories repo.CategoryRepository
	Search     ProductSearcher // nil falls back to SQL search
	Images     ImageStore      // nil disables uploads
	Logger     *logrus.Logger
}

func NewProductService(products repo.ProductRepository, categories repo.CategoryRepository, search ProductSearcher, images ImageStore, logger *logrus.Logger) *ProductService {
	return &ProductService{Products: products, Categories: categories, Search: search, Images: images, Logger: logger}
}

func (s *ProductService) List(ctx context.Context, page repo.PageRequest) (repo.Page[entity.Product], error) {
	return s.Products.List(ctx, page)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "Product", "id", id)
	}
	return p, nil
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	p, err := s.Products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, orNotFound(err, "Product", "slug", slug)
	}
	return p, nil
}

func (s *ProductService) ListByCategory(ctx context.Context, categoryID int64, page repo.PageRequest) (repo.Page[entity.Product], error) {
	if _, err := s.Categories.GetByID(ctx, categoryID); err != nil {
		return repo.Page[entity.Product]{}, orNotFound(err, "Category", "id", categoryID)
	}
	return s.Products.ListByCategory(ctx, categoryID, page)
}

// SearchProducts queries the search index when one is configured and falls
// back to SQL matching on name and description when it is absent or failing.
func (s *ProductService) SearchProducts(ctx context.Context, keyword string, page repo.PageRequest) (repo.Page[entity.Product], error) {
	keyword = strings.TrimSpace(keyword)
	if s.Search != nil && keyword != "" {
		ids, total, err := s.Search.Search(ctx, keyword, page)
		if err == nil {
			found, err := s.Products.ListByIDs(ctx, ids)
			if err != nil {
				return repo.Page[entity.Product]{}, err
			}
			// keep relevance order
			slices.SortFunc(found, func(a, b entity.Product) int {
				return slices.Index(ids, a.ID) - slices.Index(ids, b.ID)
			})
			return repo.Page[entity.Product]{Items: found, Total: total}, nil
		}
		s.Logger.WithError(err).WithField("keyword", keyword).Warn("search index query failed, using sql")
	}
	return s.Products.Search(ctx, keyword, page)
}

func (s *ProductService) Featured(ctx context.Context, limit int) ([]entity.Product, error) {
	if limit <= 0 {
		limit = 8
	}
	return s.Products.ListFeatured(ctx, limit)
}

func (s *ProductService) LowStock(ctx context.Context, threshold int) ([]entity.Product, error) {
	return s.Products.ListLowStock(ctx, threshold)
}

func (s *ProductService) Create(ctx context.Context, p *entity.Product) (*entity.Product, error) {
	if _, err := s.Categories.GetByID(ctx, p.CategoryID); err != nil {
		return nil, orNotFound(err, "Category", "id", p.CategoryID)
	}
	if p.Slug == "" {
		p.Slug = helpers.Slugify(p.Name)
	}
	if err := s.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.reloadAndIndex(ctx, p.ID)
}

// Update replaces every editable field of the product with the values of in.
func (s *ProductService) Update(ctx context.Context, id int64, in *entity.Product) (*entity.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != p.CategoryID {
		if _, err := s.Categories.GetByID(ctx, in.CategoryID); err != nil {
			return nil, orNotFound(err, "Category", "id", in.CategoryID)
		}
	}
	p.Name = in.Name
	if in.Slug != "" {
		p.Slug = in.Slug
	}
	p.Description = in.Description
	p.Price = in.Price
	p.DiscountPrice = in.DiscountPrice
	p.Stock = in.Stock
	p.SKU = in.SKU
	p.CategoryID = in.CategoryID
	p.Images = in.Images
	p.Attributes = in.Attributes
	p.Active = in.Active
	p.Featured = in.Featured
	if err := s.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.reloadAndIndex(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Products.Delete(ctx, id); err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			return apperror.Conflict("Product %d is referenced by existing orders", id)
		}
		return err
	}
	if s.Search != nil {
		if err := s.Search.Delete(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("product_id", id).Warn("search index delete failed")
		}
	}
	return nil
}

// AdjustStock adds quantity (which may be negative) to the stock level.
func (s *ProductService) AdjustStock(ctx context.Context, id int64, quantity int) (*entity.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.Products.AdjustStock(ctx, id, quantity); err != nil {
		if apperror.Is(err, apperror.KindInsufficientStock) {
			return nil, apperror.InsufficientStock("Not enough stock available for product: %s", p.Name)
		}
		return nil, err
	}
	return s.reloadAndIndex(ctx, id)
}

// UploadImage stores the image and appends its URL to the product images.
func (s *ProductService) UploadImage(ctx context.Context, id int64, filename, contentType string, r io.Reader) (*entity.Product, error) {
	if s.Images == nil {
		return nil, apperror.BadRequest("Image uploads are not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperror.BadRequest("Only image uploads are allowed")
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.Images.Upload(ctx, helpers.ObjectPath("products", id, filename), contentType, r)
	if err != nil {
		s.Logger.WithError(err).WithField("product_id", id).Error("image upload failed")
		return nil, err
	}
	p.Images = append(p.Images, url)
	if err := s.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.reloadAndIndex(ctx, id)
}

func (s *ProductService) reloadAndIndex(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Search != nil {
		if err := s.Search.Index(ctx, p); err != nil {
			s.Logger.WithError(err).WithField("product_id", id).Warn("search index update failed")
		}
	}
	return p, nil
}
