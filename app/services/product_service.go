package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/app/repositories"
	"github.com/shashiranjanraj/nepkart/pkg/cache"
	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"github.com/shashiranjanraj/nepkart/pkg/orm"
	"github.com/shashiranjanraj/nepkart/pkg/storage"
	"gorm.io/gorm"
)

const productCacheTTL = 5 * time.Minute

// ErrNoStorage is returned by AttachImage when no disk is configured.
var ErrNoStorage = errors.New("products: image storage not configured")

// ProductCacheKey is the cache key for a single product.
func ProductCacheKey(id uint) string { return fmt.Sprintf("products:%d", id) }

// ProductService owns the catalog.
type ProductService struct {
	db   *gorm.DB
	disk storage.Disk
}

// NewProductService returns a ProductService. disk may be nil, in which
// case AttachImage fails with ErrNoStorage.
func NewProductService(db *gorm.DB, disk storage.Disk) *ProductService {
	return &ProductService{db: db, disk: disk}
}

func (s *ProductService) repo(ctx context.Context) *repositories.ProductRepository {
	return repositories.NewProductRepository(s.db.WithContext(ctx))
}

// All lists products page by page, optionally filtered.
func (s *ProductService) All(ctx context.Context, f repositories.ProductFilter, page, limit int) ([]models.Product, orm.Pagination, error) {
	return s.repo(ctx).All(f, page, limit)
}

// Find returns a product, served from cache when possible.
func (s *ProductService) Find(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := orm.Remember(ProductCacheKey(id), productCacheTTL, &p, func() error {
		found, err := s.repo(ctx).FindByID(id)
		if err != nil {
			return err
		}
		p = found
		return nil
	})
	return p, err
}

func (s *ProductService) FindBySKU(ctx context.Context, sku string) (models.Product, error) {
	return s.repo(ctx).FindBySKU(strings.TrimSpace(sku))
}

func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.repo(ctx).FindByCategory(category)
}

// Search matches term against name or description, case-insensitively.
func (s *ProductService) Search(ctx context.Context, term string) ([]models.Product, error) {
	return s.repo(ctx).Search(term)
}

func (s *ProductService) ListOutOfStock(ctx context.Context) ([]models.Product, error) {
	return s.repo(ctx).OutOfStock()
}

func (s *ProductService) ListLowStock(ctx context.Context) ([]models.Product, error) {
	return s.repo(ctx).LowStock()
}

// Create validates and stores p. A taken SKU is ErrConflict.
func (s *ProductService) Create(ctx context.Context, p *models.Product) error {
	p.ID = 0
	p.SKU = strings.TrimSpace(p.SKU)
	if err := invalid(p.Validate()); err != nil {
		return err
	}
	if err := s.repo(ctx).Create(p); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("product created", "id", p.ID, "sku", p.SKU)
	return nil
}

// Update replaces every editable field of product id with those of in.
func (s *ProductService) Update(ctx context.Context, id uint, in models.Product) (models.Product, error) {
	repo := s.repo(ctx)
	p, err := repo.FindByID(id)
	if err != nil {
		return models.Product{}, err
	}

	p.SKU = strings.TrimSpace(in.SKU)
	p.Name = in.Name
	p.Category = in.Category
	p.Price = in.Price
	p.Stock = in.Stock
	p.LowStockThreshold = in.LowStockThreshold
	p.Weight = in.Weight
	p.Origin = in.Origin
	p.Description = in.Description
	if in.ImageURL != "" {
		p.ImageURL = in.ImageURL
	}

	if err := invalid(p.Validate()); err != nil {
		return models.Product{}, err
	}
	if err := repo.Save(&p); err != nil {
		return models.Product{}, err
	}
	s.forget(id)
	return p, nil
}

// Delete removes product id from the catalog. Past orders keep their lines.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.repo(ctx).Delete(id); err != nil {
		return err
	}
	s.forget(id)
	logger.WithCtx(ctx).Info("product deleted", "id", id)
	return nil
}

// DecrementStock removes qty units from product id.
func (s *ProductService) DecrementStock(ctx context.Context, id uint, qty int) (models.Product, error) {
	if qty < 1 {
		return models.Product{}, NewValidationError("quantity", "The quantity must be at least 1.")
	}
	var out models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := decrement(repositories.NewProductRepository(tx), id, qty)
		out = p
		return err
	})
	if err != nil {
		return models.Product{}, err
	}
	s.forget(id)
	return out, nil
}

// decrement is the conditional stock update shared with checkout. It
// returns the product as it was before the update.
func decrement(repo *repositories.ProductRepository, id uint, qty int) (models.Product, error) {
	p, err := repo.FindByID(id)
	if errors.Is(err, ErrNotFound) {
		return models.Product{}, &NotFoundError{What: "Product", ID: id}
	}
	if err != nil {
		return models.Product{}, err
	}
	if qty > p.Stock {
		return models.Product{}, &InsufficientStockError{Product: p.Name, Available: p.Stock, Requested: qty}
	}
	ok, err := repo.DecrementStock(id, qty)
	if err != nil {
		return models.Product{}, err
	}
	if !ok {
		// Another checkout took the units between the read and the update.
		current, ferr := repo.FindByID(id)
		if ferr != nil {
			return models.Product{}, ferr
		}
		return models.Product{}, &InsufficientStockError{Product: current.Name, Available: current.Stock, Requested: qty}
	}
	return p, nil
}

// AttachImage stores content on the configured disk and records its URL.
func (s *ProductService) AttachImage(ctx context.Context, id uint, filename string, content io.Reader, contentType string) (models.Product, error) {
	if s.disk == nil {
		return models.Product{}, ErrNoStorage
	}
	repo := s.repo(ctx)
	if _, err := repo.FindByID(id); err != nil {
		return models.Product{}, err
	}

	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return models.Product{}, NewValidationError("image", "The image must be a jpg, png, gif or webp file.")
	}

	name := fmt.Sprintf("products/%d-%d%s", id, time.Now().UnixNano(), ext)
	if err := s.disk.Put(ctx, name, content, contentType); err != nil {
		return models.Product{}, fmt.Errorf("products: store image: %w", err)
	}
	if err := repo.SetImageURL(id, s.disk.URL(name)); err != nil {
		return models.Product{}, err
	}
	s.forget(id)
	return repo.FindByID(id)
}

func (s *ProductService) forget(ids ...uint) {
	for _, id := range ids {
		_ = cache.Forget(ProductCacheKey(id))
	}
}
