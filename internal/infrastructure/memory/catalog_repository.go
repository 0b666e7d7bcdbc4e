package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

type CategoryRepository struct {
	s *Store
}

func NewCategoryRepository(s *Store) *CategoryRepository {
	return &CategoryRepository{s: s}
}

// categoryView fills the parent name and children flag the way the SQL projection does.
func categoryView(t *tables, c entity.Category) entity.Category {
	if c.ParentID != nil {
		id := *c.ParentID
		c.ParentID = &id
		c.ParentName = t.categories[id].Name
	}
	c.HasChildren = false
	for _, ch := range t.categories {
		if ch.ParentID != nil && *ch.ParentID == c.ID {
			c.HasChildren = true
			break
		}
	}
	return c
}

func categoryConflict(t *tables, c *entity.Category) error {
	for _, other := range t.categories {
		if other.ID == c.ID {
			continue
		}
		if strings.EqualFold(other.Name, c.Name) {
			return apperror.Duplicate("Category with this name already exists")
		}
		if other.Slug == c.Slug {
			return apperror.Duplicate("Category with this slug already exists")
		}
	}
	if c.ParentID != nil {
		if _, ok := t.categories[*c.ParentID]; !ok {
			return apperror.Conflict("Category is referenced by other records")
		}
	}
	return nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		if err := categoryConflict(t, c); err != nil {
			return err
		}
		c.ID = t.next("categories")
		c.CreatedAt, c.UpdatedAt = now, now
		t.categories[c.ID] = *c
		*c = categoryView(t, *c)
		return nil
	})
}

func (r *CategoryRepository) Update(ctx context.Context, c *entity.Category) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		cur, ok := t.categories[c.ID]
		if !ok {
			return apperror.NotFound("Category not found")
		}
		if err := categoryConflict(t, c); err != nil {
			return err
		}
		c.CreatedAt, c.UpdatedAt = cur.CreatedAt, now
		t.categories[c.ID] = *c
		*c = categoryView(t, *c)
		return nil
	})
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		if _, ok := t.categories[id]; !ok {
			return apperror.ResourceNotFound("Category", "id", id)
		}
		for _, p := range t.products {
			if p.CategoryID == id {
				return apperror.Conflict("Category is referenced by other records")
			}
		}
		for cid, ch := range t.categories {
			if ch.ParentID != nil && *ch.ParentID == id {
				ch.ParentID = nil
				t.categories[cid] = ch
			}
		}
		for pid, p := range t.promotions {
			p.CategoryIDs = slices.DeleteFunc(slices.Clone(p.CategoryIDs), func(v int64) bool { return v == id })
			t.promotions[pid] = p
		}
		delete(t.categories, id)
		return nil
	})
}

func (r *CategoryRepository) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	return r.find(func(c entity.Category) bool { return c.ID == id })
}

func (r *CategoryRepository) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	return r.find(func(c entity.Category) bool { return c.Slug == slug })
}

func (r *CategoryRepository) ExistsByName(_ context.Context, name string) (bool, error) {
	var ok bool
	r.s.read(func(t *tables) {
		for _, c := range t.categories {
			if strings.EqualFold(c.Name, name) {
				ok = true
				return
			}
		}
	})
	return ok, nil
}

func (r *CategoryRepository) List(_ context.Context) ([]entity.Category, error) {
	return r.list(nil, byName), nil
}

func (r *CategoryRepository) ListRoots(_ context.Context) ([]entity.Category, error) {
	return r.list(func(c entity.Category) bool { return c.ParentID == nil }, byName), nil
}

func (r *CategoryRepository) ListChildren(_ context.Context, parentID int64) ([]entity.Category, error) {
	return r.list(func(c entity.Category) bool { return c.ParentID != nil && *c.ParentID == parentID }, byName), nil
}

func (r *CategoryRepository) ListByIDs(_ context.Context, ids []int64) ([]entity.Category, error) {
	return r.list(func(c entity.Category) bool { return slices.Contains(ids, c.ID) }, nil), nil
}

func byName(a, b entity.Category) int {
	return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
}

func (r *CategoryRepository) find(match func(entity.Category) bool) (*entity.Category, error) {
	var found *entity.Category
	r.s.read(func(t *tables) {
		for _, c := range t.categories {
			if match(c) {
				v := categoryView(t, c)
				found = &v
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("Category not found")
	}
	return found, nil
}

func (r *CategoryRepository) list(keep func(entity.Category) bool, order func(a, b entity.Category) int) []entity.Category {
	var out []entity.Category
	r.s.read(func(t *tables) {
		out = sortedValues(t.categories, keep)
		for i := range out {
			out[i] = categoryView(t, out[i])
		}
	})
	if order != nil {
		slices.SortFunc(out, order)
	}
	return out
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

type ProductRepository struct {
	s *Store
}

func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{s: s}
}

func productRow(p entity.Product) entity.Product {
	p.Category = nil
	p.Images = slices.Clone(p.Images)
	if p.Images == nil {
		p.Images = []string{}
	}
	p.Attributes = maps.Clone(p.Attributes)
	if p.Attributes == nil {
		p.Attributes = map[string]string{}
	}
	return p
}

func productView(t *tables, p entity.Product) entity.Product {
	p = productRow(p)
	if c, ok := t.categories[p.CategoryID]; ok {
		v := categoryView(t, c)
		p.Category = &v
	}
	return p
}

var productSortKeys = sortKeys[entity.Product]{
	"id":        byID(func(p entity.Product) int64 { return p.ID }),
	"name":      func(a, b entity.Product) int { return cmp.Compare(a.Name, b.Name) },
	"price":     func(a, b entity.Product) int { return a.Price.Cmp(b.Price) },
	"stock":     func(a, b entity.Product) int { return cmp.Compare(a.Stock, b.Stock) },
	"createdAt": func(a, b entity.Product) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

func productConflict(t *tables, p *entity.Product) error {
	for _, other := range t.products {
		if other.ID == p.ID {
			continue
		}
		if other.Slug == p.Slug {
			return apperror.Duplicate("Product with this slug already exists")
		}
		if other.SKU == p.SKU {
			return apperror.Duplicate("Product with this sku already exists")
		}
	}
	if _, ok := t.categories[p.CategoryID]; !ok {
		return apperror.Conflict("Product is referenced by other records")
	}
	return nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		if err := productConflict(t, p); err != nil {
			return err
		}
		p.ID = t.next("products")
		p.CreatedAt, p.UpdatedAt = now, now
		t.products[p.ID] = productRow(*p)
		*p = productView(t, *p)
		return nil
	})
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		cur, ok := t.products[p.ID]
		if !ok {
			return apperror.NotFound("Product not found")
		}
		if err := productConflict(t, p); err != nil {
			return err
		}
		p.CreatedAt, p.UpdatedAt = cur.CreatedAt, now
		t.products[p.ID] = productRow(*p)
		*p = productView(t, *p)
		return nil
	})
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		if _, ok := t.products[id]; !ok {
			return apperror.ResourceNotFound("Product", "id", id)
		}
		for _, it := range t.orderItems {
			if it.ProductID == id {
				return apperror.Conflict("Product is referenced by other records")
			}
		}
		for iid, it := range t.cartItems {
			if it.ProductID == id {
				delete(t.cartItems, iid)
			}
		}
		for pid, p := range t.promotions {
			p.ProductIDs = slices.DeleteFunc(slices.Clone(p.ProductIDs), func(v int64) bool { return v == id })
			t.promotions[pid] = p
		}
		delete(t.products, id)
		return nil
	})
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	return r.find(func(p entity.Product) bool { return p.ID == id })
}

func (r *ProductRepository) GetBySlug(_ context.Context, slug string) (*entity.Product, error) {
	return r.find(func(p entity.Product) bool { return p.Slug == slug })
}

func (r *ProductRepository) List(_ context.Context, page repository.PageRequest) (repository.Page[entity.Product], error) {
	return r.page(nil, page), nil
}

func (r *ProductRepository) ListByCategory(_ context.Context, categoryID int64, page repository.PageRequest) (repository.Page[entity.Product], error) {
	return r.page(func(p entity.Product) bool { return p.CategoryID == categoryID }, page), nil
}

func (r *ProductRepository) Search(_ context.Context, keyword string, page repository.PageRequest) (repository.Page[entity.Product], error) {
	return r.page(func(p entity.Product) bool {
		return contains(p.Name, keyword) || contains(p.Description, keyword)
	}, page), nil
}

func (r *ProductRepository) ListFeatured(_ context.Context, limit int) ([]entity.Product, error) {
	out := r.list(func(p entity.Product) bool { return p.Active && p.Featured })
	slices.SortStableFunc(out, func(a, b entity.Product) int {
		return cmp.Or(timeDesc(a.CreatedAt, b.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return out[:min(limit, len(out))], nil
}

func (r *ProductRepository) ListLowStock(_ context.Context, threshold int) ([]entity.Product, error) {
	out := r.list(func(p entity.Product) bool { return p.Stock < threshold })
	slices.SortStableFunc(out, func(a, b entity.Product) int {
		return cmp.Or(cmp.Compare(a.Stock, b.Stock), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *ProductRepository) ListByIDs(_ context.Context, ids []int64) ([]entity.Product, error) {
	return r.list(func(p entity.Product) bool { return slices.Contains(ids, p.ID) }), nil
}

func (r *ProductRepository) AdjustStock(ctx context.Context, id int64, delta int) (int, error) {
	var stock int
	err := r.s.write(ctx, func(t *tables, now time.Time) error {
		p, ok := t.products[id]
		if !ok {
			return apperror.ResourceNotFound("Product", "id", id)
		}
		if p.Stock+delta < 0 {
			return apperror.InsufficientStock("Insufficient stock for product %s: available %d, requested %d",
				p.Name, p.Stock, -delta)
		}
		p.Stock += delta
		p.UpdatedAt = now
		t.products[id] = p
		stock = p.Stock
		return nil
	})
	return stock, err
}

func (r *ProductRepository) BestSelling(_ context.Context, limit int) ([]entity.RankedItem, error) {
	var out []entity.RankedItem
	r.s.read(func(t *tables) {
		qty := map[int64]int64{}
		for _, it := range t.orderItems {
			qty[it.ProductID] += int64(it.Quantity)
		}
		for id, n := range qty {
			out = append(out, entity.RankedItem{ID: id, Name: t.products[id].Name, Quantity: n})
		}
	})
	return rank(out, limit), nil
}

func (r *ProductRepository) BestSellingCategories(_ context.Context, limit int) ([]entity.RankedItem, error) {
	var out []entity.RankedItem
	r.s.read(func(t *tables) {
		qty := map[int64]int64{}
		for _, it := range t.orderItems {
			if p, ok := t.products[it.ProductID]; ok {
				qty[p.CategoryID] += int64(it.Quantity)
			}
		}
		for id, n := range qty {
			out = append(out, entity.RankedItem{ID: id, Name: t.categories[id].Name, Quantity: n})
		}
	})
	return rank(out, limit), nil
}

func rank(items []entity.RankedItem, limit int) []entity.RankedItem {
	slices.SortFunc(items, func(a, b entity.RankedItem) int {
		return cmp.Or(cmp.Compare(b.Quantity, a.Quantity), cmp.Compare(a.ID, b.ID))
	})
	if items == nil {
		return []entity.RankedItem{}
	}
	return items[:min(limit, len(items))]
}

func (r *ProductRepository) find(match func(entity.Product) bool) (*entity.Product, error) {
	var found *entity.Product
	r.s.read(func(t *tables) {
		for _, p := range t.products {
			if match(p) {
				v := productView(t, p)
				found = &v
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("Product not found")
	}
	return found, nil
}

func (r *ProductRepository) list(keep func(entity.Product) bool) []entity.Product {
	var out []entity.Product
	r.s.read(func(t *tables) {
		out = sortedValues(t.products, keep)
		for i := range out {
			out[i] = productView(t, out[i])
		}
	})
	return out
}

func (r *ProductRepository) page(keep func(entity.Product) bool, page repository.PageRequest) repository.Page[entity.Product] {
	return paginate(r.list(keep), page, productSortKeys,
		byID(func(p entity.Product) int64 { return p.ID }),
		func(p entity.Product) int64 { return p.ID })
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
