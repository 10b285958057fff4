package migrations

import (
	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20250102000000_create_orders_table", &CreateOrdersTable{})
	migration.Register("20250102000001_create_order_items_table", &CreateOrderItemsTable{})
}

// CreateOrdersTable creates orders with a unique order_code.
type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Order{})
}

type CreateOrderItemsTable struct{}

func (m *CreateOrderItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.OrderItem{})
}

func (m *CreateOrderItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.OrderItem{})
}
