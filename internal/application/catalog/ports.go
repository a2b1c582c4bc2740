package catalog

import (
	"context"
	"io"

	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/catalog"
)

// ImageStorage stores product images in an object store
type ImageStorage interface {
	// Upload writes the object and returns its public URL
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object behind key
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a public URL produced by Upload back to its key
	KeyFromURL(url string) (string, bool)
}

// ProductListCache caches the full product listing
type ProductListCache interface {
	// GetList returns the cached listing and whether it was present
	GetList(ctx context.Context) ([]catalog.Product, bool, error)
	SetList(ctx context.Context, products []catalog.Product) error
	Invalidate(ctx context.Context) error
}
