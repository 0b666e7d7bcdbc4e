package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

type BlogPostRepository struct {
	s *Store
}

func NewBlogPostRepository(s *Store) *BlogPostRepository {
	return &BlogPostRepository{s: s}
}

var blogSortKeys = sortKeys[entity.BlogPost]{
	"id":          byID(func(p entity.BlogPost) int64 { return p.ID }),
	"title":       func(a, b entity.BlogPost) int { return cmp.Compare(a.Title, b.Title) },
	"createdAt":   func(a, b entity.BlogPost) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"publishedAt": func(a, b entity.BlogPost) int { return comparePublished(a, b) },
}

// comparePublished orders unpublished posts after published ones.
func comparePublished(a, b entity.BlogPost) int {
	switch {
	case a.PublishedAt == nil && b.PublishedAt == nil:
		return 0
	case a.PublishedAt == nil:
		return 1
	case b.PublishedAt == nil:
		return -1
	}
	return a.PublishedAt.Compare(*b.PublishedAt)
}

func newestPublishedFirst(a, b entity.BlogPost) int {
	if a.PublishedAt == nil || b.PublishedAt == nil {
		return cmp.Or(comparePublished(a, b), cmp.Compare(b.ID, a.ID))
	}
	return cmp.Or(timeDesc(*a.PublishedAt, *b.PublishedAt), cmp.Compare(b.ID, a.ID))
}

func newestPostFirst(a, b entity.BlogPost) int {
	return cmp.Or(timeDesc(a.CreatedAt, b.CreatedAt), cmp.Compare(b.ID, a.ID))
}

func blogRow(p entity.BlogPost) entity.BlogPost {
	p.Author = nil
	p.Tags = slices.Clone(p.Tags)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.PublishedAt != nil {
		at := *p.PublishedAt
		p.PublishedAt = &at
	}
	return p
}

func blogView(t *tables, p entity.BlogPost) entity.BlogPost {
	p = blogRow(p)
	if u, ok := t.users[p.AuthorID]; ok {
		p.Author = &u
	}
	return p
}

func slugTaken(t *tables, p *entity.BlogPost) bool {
	for _, other := range t.blogPosts {
		if other.ID != p.ID && other.Slug == p.Slug {
			return true
		}
	}
	return false
}

func (r *BlogPostRepository) Create(ctx context.Context, p *entity.BlogPost) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		if slugTaken(t, p) {
			return apperror.Duplicate("Blog post with this slug already exists")
		}
		p.ID = t.next("blog_posts")
		p.CreatedAt, p.UpdatedAt = now, now
		t.blogPosts[p.ID] = blogRow(*p)
		*p = blogView(t, *p)
		return nil
	})
}

func (r *BlogPostRepository) Update(ctx context.Context, p *entity.BlogPost) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		cur, ok := t.blogPosts[p.ID]
		if !ok {
			return apperror.NotFound("Blog post not found")
		}
		if slugTaken(t, p) {
			return apperror.Duplicate("Blog post with this slug already exists")
		}
		p.AuthorID = cur.AuthorID
		p.CreatedAt, p.UpdatedAt = cur.CreatedAt, now
		t.blogPosts[p.ID] = blogRow(*p)
		*p = blogView(t, *p)
		return nil
	})
}

func (r *BlogPostRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		if _, ok := t.blogPosts[id]; !ok {
			return apperror.ResourceNotFound("Blog post", "id", id)
		}
		delete(t.blogPosts, id)
		return nil
	})
}

func (r *BlogPostRepository) GetByID(_ context.Context, id int64) (*entity.BlogPost, error) {
	return r.find(func(p entity.BlogPost) bool { return p.ID == id })
}

func (r *BlogPostRepository) GetBySlug(_ context.Context, slug string) (*entity.BlogPost, error) {
	return r.find(func(p entity.BlogPost) bool { return p.Slug == slug })
}

func (r *BlogPostRepository) List(_ context.Context, page repository.PageRequest) (repository.Page[entity.BlogPost], error) {
	return r.page(nil, page, newestPostFirst), nil
}

func (r *BlogPostRepository) ListPublished(_ context.Context, page repository.PageRequest) (repository.Page[entity.BlogPost], error) {
	return r.page(func(p entity.BlogPost) bool { return p.Published }, page, newestPublishedFirst), nil
}

func (r *BlogPostRepository) SearchPublished(_ context.Context, keyword string, page repository.PageRequest) (repository.Page[entity.BlogPost], error) {
	return r.page(func(p entity.BlogPost) bool {
		return p.Published && (contains(p.Title, keyword) || contains(p.Content, keyword))
	}, page, newestPublishedFirst), nil
}

func (r *BlogPostRepository) ListPublishedByTag(_ context.Context, tag string, page repository.PageRequest) (repository.Page[entity.BlogPost], error) {
	return r.page(func(p entity.BlogPost) bool {
		return p.Published && slices.Contains(p.Tags, tag)
	}, page, newestPublishedFirst), nil
}

func (r *BlogPostRepository) PublishedTags(_ context.Context) ([]string, error) {
	tags := []string{}
	r.s.read(func(t *tables) {
		for _, p := range t.blogPosts {
			if p.Published {
				tags = append(tags, p.Tags...)
			}
		}
	})
	slices.Sort(tags)
	return slices.Compact(tags), nil
}

func (r *BlogPostRepository) find(match func(entity.BlogPost) bool) (*entity.BlogPost, error) {
	var found *entity.BlogPost
	r.s.read(func(t *tables) {
		for _, p := range t.blogPosts {
			if match(p) {
				v := blogView(t, p)
				found = &v
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("Blog post not found")
	}
	return found, nil
}

func (r *BlogPostRepository) page(keep func(entity.BlogPost) bool, page repository.PageRequest, def func(a, b entity.BlogPost) int) repository.Page[entity.BlogPost] {
	var all []entity.BlogPost
	r.s.read(func(t *tables) {
		all = sortedValues(t.blogPosts, keep)
		for i := range all {
			all[i] = blogView(t, all[i])
		}
	})
	return paginate(all, page, blogSortKeys, def, func(p entity.BlogPost) int64 { return p.ID })
}

var _ repository.BlogPostRepository = (*BlogPostRepository)(nil)

type AboutPageRepository struct {
	s *Store
}

func NewAboutPageRepository(s *Store) *AboutPageRepository {
	return &AboutPageRepository{s: s}
}

func (r *AboutPageRepository) Create(ctx context.Context, p *entity.AboutPage) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		p.ID = t.next("about_pages")
		p.CreatedAt, p.UpdatedAt = now, now
		t.aboutPages[p.ID] = *p
		return nil
	})
}

func (r *AboutPageRepository) Update(ctx context.Context, p *entity.AboutPage) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		cur, ok := t.aboutPages[p.ID]
		if !ok {
			return apperror.NotFound("About page not found")
		}
		p.CreatedAt, p.UpdatedAt = cur.CreatedAt, now
		t.aboutPages[p.ID] = *p
		return nil
	})
}

func (r *AboutPageRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		if _, ok := t.aboutPages[id]; !ok {
			return apperror.ResourceNotFound("About page", "id", id)
		}
		delete(t.aboutPages, id)
		return nil
	})
}

func (r *AboutPageRepository) GetByID(_ context.Context, id int64) (*entity.AboutPage, error) {
	var (
		p  entity.AboutPage
		ok bool
	)
	r.s.read(func(t *tables) { p, ok = t.aboutPages[id] })
	if !ok {
		return nil, apperror.NotFound("About page not found")
	}
	return &p, nil
}

func (r *AboutPageRepository) GetActive(_ context.Context) (*entity.AboutPage, error) {
	var found *entity.AboutPage
	r.s.read(func(t *tables) {
		for _, p := range sortedValues(t.aboutPages, func(p entity.AboutPage) bool { return p.Active }) {
			if found == nil || !p.UpdatedAt.Before(found.UpdatedAt) {
				found = &p
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("About page not found")
	}
	return found, nil
}

func (r *AboutPageRepository) List(_ context.Context) ([]entity.AboutPage, error) {
	var out []entity.AboutPage
	r.s.read(func(t *tables) { out = sortedValues(t.aboutPages, nil) })
	return out, nil
}

func (r *AboutPageRepository) Count(_ context.Context) (int64, error) {
	var n int64
	r.s.read(func(t *tables) { n = int64(len(t.aboutPages)) })
	return n, nil
}

func (r *AboutPageRepository) DeactivateOthers(ctx context.Context, exceptID int64) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		for id, p := range t.aboutPages {
			if p.Active && id != exceptID {
				p.Active, p.UpdatedAt = false, now
				t.aboutPages[id] = p
			}
		}
		return nil
	})
}

var _ repository.AboutPageRepository = (*AboutPageRepository)(nil)
