package application

import (
	"context"
	"io"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/apperror"
)

// ProductSearcher is a full-text mirror of the product catalog.
type ProductSearcher interface {
	Index(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, keyword string, page repository.PageRequest) ([]int64, int64, error)
}

// ImageStore stores uploaded images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// orNotFound replaces a repository not-found error with the standard message.
func orNotFound(err error, resource, field string, value any) error {
	if apperror.Is(err, apperror.KindNotFound) {
		return apperror.ResourceNotFound(resource, field, value)
	}
	return err
}
