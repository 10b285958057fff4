package repositories

import (
	"fmt"
	"strings"

	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/pkg/orm"
	"gorm.io/gorm"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductFilter narrows All.
type ProductFilter struct {
	Category string
	Search   string
}

func (f ProductFilter) apply(q *gorm.DB) *gorm.DB {
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(c))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	return q
}

// All returns one page of products ordered by id.
func (r *ProductRepository) All(f ProductFilter, page, limit int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	q := f.apply(r.db.Model(&models.Product{})).Order("id")
	p, err := orm.Paginate(q, page, limit, &products)
	return products, p, translate(err, "products: list")
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var p models.Product
	err := r.db.First(&p, id).Error
	return p, translate(err, fmt.Sprintf("product %d", id))
}

// FindBySKU looks up a product by SKU.
func (r *ProductRepository) FindBySKU(sku string) (models.Product, error) {
	var p models.Product
	err := r.db.Where("sku = ?", sku).First(&p).Error
	return p, translate(err, fmt.Sprintf("product %q", sku))
}

// FindByCategory returns every product in category.
func (r *ProductRepository) FindByCategory(category string) ([]models.Product, error) {
	var out []models.Product
	err := ProductFilter{Category: category}.apply(r.db).Order("id").Find(&out).Error
	return out, translate(err, "products: by category")
}

// Search returns products whose name or description contains term.
func (r *ProductRepository) Search(term string) ([]models.Product, error) {
	var out []models.Product
	err := ProductFilter{Search: term}.apply(r.db).Order("id").Find(&out).Error
	return out, translate(err, "products: search")
}

// OutOfStock returns products with zero stock.
func (r *ProductRepository) OutOfStock() ([]models.Product, error) {
	var out []models.Product
	err := r.db.Where("stock = 0").Order("id").Find(&out).Error
	return out, translate(err, "products: out of stock")
}

// LowStock returns products with 0 < stock <= low_stock_threshold.
func (r *ProductRepository) LowStock() ([]models.Product, error) {
	var out []models.Product
	err := r.db.Where("stock > 0 AND stock <= low_stock_threshold").Order("id").Find(&out).Error
	return out, translate(err, "products: low stock")
}

// Create persists a new product.
func (r *ProductRepository) Create(p *models.Product) error {
	return translate(r.db.Create(p).Error, fmt.Sprintf("product %q", p.SKU))
}

// Save writes every column of p.
func (r *ProductRepository) Save(p *models.Product) error {
	return translate(r.db.Save(p).Error, fmt.Sprintf("product %q", p.SKU))
}

// Delete soft-deletes the product; order lines keep referencing it.
func (r *ProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("product %d", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

// DecrementStock subtracts qty only while enough stock remains. It reports
// false, without error, when the row has fewer than qty units.
func (r *ProductRepository) DecrementStock(id uint, qty int) (bool, error) {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, translate(res.Error, fmt.Sprintf("product %d: decrement", id))
	}
	return res.RowsAffected == 1, nil
}

// SetImageURL stores the public image location.
func (r *ProductRepository) SetImageURL(id uint, url string) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).Update("image_url", url)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("product %d", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of live products.
func (r *ProductRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Product{}).Count(&n).Error
	return n, translate(err, "products: count")
}
