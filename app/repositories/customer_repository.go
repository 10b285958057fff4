package repositories

import (
	"fmt"
	"strings"

	"github.com/shashiranjanraj/nepkart/app/models"
	"gorm.io/gorm"
)

// CustomerRepository handles database operations for Customer.
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// FindByEmail looks up a customer by exact email.
func (r *CustomerRepository) FindByEmail(email string) (models.Customer, error) {
	var c models.Customer
	err := r.db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&c).Error
	return c, translate(err, fmt.Sprintf("customer %q", email))
}

// Create persists a new customer.
func (r *CustomerRepository) Create(c *models.Customer) error {
	return translate(r.db.Create(c).Error, fmt.Sprintf("customer %q", c.Email))
}
