package catalog

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/catalog"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const listFlightKey = "products:list"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/avif": ".avif",
}

// ServiceConfig tunes image handling
type ServiceConfig struct {
	KeyPrefix      string
	MaxConcurrency int
	MaxImageSize   int64
	UploadTimeout  time.Duration
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		KeyPrefix:      "products",
		MaxConcurrency: 4,
		MaxImageSize:   5 << 20,
		UploadTimeout:  30 * time.Second,
	}
}

// ProductService handles catalog operations
type ProductService struct {
	productRepo catalog.ProductRepository
	images      ImageStorage
	cache       ProductListCache
	events      shared.OutboxEventSaver
	tx          shared.Transactor
	config      ServiceConfig
	flight      singleflight.Group
	logger      *zap.Logger
}

// NewProductService creates a new ProductService. cache and events may be nil.
func NewProductService(
	productRepo catalog.ProductRepository,
	images ImageStorage,
	cache ProductListCache,
	events shared.OutboxEventSaver,
	tx shared.Transactor,
	config ServiceConfig,
	logger *zap.Logger,
) *ProductService {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 1
	}
	return &ProductService{
		productRepo: productRepo,
		images:      images,
		cache:       cache,
		events:      events,
		tx:          tx,
		config:      config,
		logger:      logger,
	}
}

// List returns all products, newest first
func (s *ProductService) List(ctx context.Context) ([]ProductResponse, error) {
	if s.cache != nil {
		products, ok, err := s.cache.GetList(ctx)
		if err != nil {
			s.logger.Warn("Product cache read failed, falling back to store", zap.Error(err))
		} else if ok {
			return ToProductResponses(products), nil
		}
	}

	// Concurrent misses share one store query
	v, err, _ := s.flight.Do(listFlightKey, func() (any, error) {
		loadCtx := context.WithoutCancel(ctx)
		products, err := s.productRepo.FindAll(loadCtx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetList(loadCtx, products); err != nil {
				s.logger.Warn("Product cache write failed", zap.Error(err))
			}
		}
		return products, nil
	})
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list products")
	}
	return ToProductResponses(v.([]catalog.Product)), nil
}

// Get returns a single product
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Add validates a submission, uploads its images and persists the product.
// Uploaded objects are removed again when any later step fails.
func (s *ProductService) Add(ctx context.Context, input AddProductInput) (*ProductResponse, error) {
	fields := catalog.NewProductInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		SubCategory: input.SubCategory,
		Bestseller:  input.Bestseller,
		Sizes:       input.Sizes,
	}
	if err := fields.ValidateFields(); err != nil {
		return nil, err
	}
	if err := s.validateImages(input.Images); err != nil {
		return nil, err
	}

	keys, urls, err := s.uploadImages(ctx, input.Images)
	if err != nil {
		s.cleanup(ctx, keys)
		var de *shared.DomainError
		if errors.As(err, &de) {
			return nil, de
		}
		s.logger.Error("Failed to upload product images", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to upload product images")
	}

	fields.Images = urls
	product, err := catalog.NewProduct(fields)
	if err != nil {
		s.cleanup(ctx, keys)
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.productRepo.Save(ctx, product); err != nil {
			return err
		}
		return s.saveEvents(ctx, product.PendingEvents())
	})
	if err != nil {
		s.cleanup(ctx, keys)
		s.logger.Error("Failed to save product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save product")
	}
	product.ClearEvents()
	s.invalidate(ctx)

	s.logger.Info("Product added",
		zap.String("product_id", product.ID.String()),
		zap.Int("images", len(urls)))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Remove deletes a product and, best effort, its stored images
func (s *ProductService) Remove(ctx context.Context, id uuid.UUID) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}
	product.MarkRemoved()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.productRepo.DeleteByID(ctx, id); err != nil {
			return err
		}
		return s.saveEvents(ctx, product.PendingEvents())
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		s.logger.Error("Failed to remove product", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to remove product")
	}
	product.ClearEvents()
	s.invalidate(ctx)

	keys := make([]string, 0, len(product.Images))
	for _, u := range product.Images {
		if key, ok := s.images.KeyFromURL(u); ok {
			keys = append(keys, key)
		}
	}
	s.cleanup(ctx, keys)

	s.logger.Info("Product removed", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		s.logger.Error("Failed to load product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load product")
	}
	return product, nil
}

func (s *ProductService) validateImages(images []ImageFile) error {
	if len(images) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "Product must have at least one image")
	}
	if len(images) > catalog.MaxImages {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Product cannot have more than %d images", catalog.MaxImages))
	}
	for _, img := range images {
		if _, ok := allowedImageTypes[normalizeContentType(img.ContentType)]; !ok {
			return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported image type %q", img.ContentType))
		}
		if s.config.MaxImageSize > 0 && img.Size > s.config.MaxImageSize {
			return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Image %s exceeds the size limit", img.FileName))
		}
		if img.Open == nil {
			return shared.NewDomainError("INVALID_INPUT", "Image content is missing")
		}
	}
	return nil
}

// uploadImages uploads concurrently and keeps the submission order in urls.
// keys lists every object that was written, including on error.
func (s *ProductService) uploadImages(ctx context.Context, images []ImageFile) ([]string, []string, error) {
	keys := make([]string, len(images))
	urls := make([]string, len(images))
	done := make([]bool, len(images))

	uploadCtx := ctx
	if s.config.UploadTimeout > 0 {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, s.config.UploadTimeout)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(uploadCtx)
	g.SetLimit(s.config.MaxConcurrency)
	for i, img := range images {
		g.Go(func() error {
			contentType := normalizeContentType(img.ContentType)
			key := path.Join(s.config.KeyPrefix, uuid.NewString()+allowedImageTypes[contentType])

			body, err := img.Open()
			if err != nil {
				return fmt.Errorf("open image %s: %w", img.FileName, err)
			}
			defer body.Close()

			url, err := s.images.Upload(gctx, key, body, img.Size, contentType)
			if err != nil {
				return fmt.Errorf("upload image %s: %w", img.FileName, err)
			}
			keys[i] = key
			urls[i] = url
			done[i] = true
			return nil
		})
	}
	err := g.Wait()

	written := make([]string, 0, len(keys))
	for i, ok := range done {
		if ok {
			written = append(written, keys[i])
		}
	}
	return written, urls, err
}

func (s *ProductService) cleanup(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	cleanupCtx := context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.images.Delete(cleanupCtx, key); err != nil {
			s.logger.Warn("Failed to delete product image", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *ProductService) saveEvents(ctx context.Context, events []shared.DomainEvent) error {
	if s.events == nil || len(events) == 0 {
		return nil
	}
	return s.events.SaveEvents(ctx, events...)
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
	}
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	return ct
}
