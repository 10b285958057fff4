package repositories

import (
	"fmt"

	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/pkg/orm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository handles database operations for Order and its items.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// aggregate preloads the customer and items, including products that
// were deleted from the catalog after the order was placed.
func aggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

// Create inserts the order row and then its items in slice order.
func (r *OrderRepository) Create(o *models.Order) error {
	if err := r.db.Omit(clause.Associations).Create(o).Error; err != nil {
		return translate(err, fmt.Sprintf("order %s", o.OrderCode))
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		if err := r.db.Omit(clause.Associations).Create(&o.Items[i]).Error; err != nil {
			return translate(err, fmt.Sprintf("order %s: item %d", o.OrderCode, i))
		}
	}
	return nil
}

// FindByID loads the full aggregate.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var o models.Order
	err := aggregate(r.db).First(&o, id).Error
	return o, translate(err, fmt.Sprintf("order %d", id))
}

// FindByCode loads the full aggregate by order code.
func (r *OrderRepository) FindByCode(code string) (models.Order, error) {
	var o models.Order
	err := aggregate(r.db).Where("order_code = ?", code).First(&o).Error
	return o, translate(err, fmt.Sprintf("order %q", code))
}

// All returns one page of orders, newest first.
func (r *OrderRepository) All(page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	q := r.db.Model(&models.Order{}).Order("order_date DESC, id DESC")
	p, err := orm.Paginate(q, page, limit, &orders, aggregate)
	return orders, p, translate(err, "orders: list")
}

// UpdateStatus sets the status column.
func (r *OrderRepository) UpdateStatus(id uint, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("order %d", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes the order and its items.
func (r *OrderRepository) Delete(id uint) error {
	if err := r.db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return translate(err, fmt.Sprintf("order %d: items", id))
	}
	res := r.db.Delete(&models.Order{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("order %d", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return nil
}
