package models

import (
	"strings"
	"time"

	"github.com/shashiranjanraj/nepkart/pkg/validate"
)

// Customer is identified by email; orders reuse an existing row.
type Customer struct {
	ID        uint      `gorm:"primaryKey"                   json:"id"`
	FirstName string    `gorm:"size:100;not null"            json:"firstName" validate:"required,max=100"`
	LastName  string    `gorm:"size:100;not null"            json:"lastName"  validate:"required,max=100"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"     validate:"required,email,max=255"`
	Phone     string    `gorm:"size:50;not null"             json:"phone"     validate:"required,max=50"`
	Address   string    `gorm:"size:255;not null"            json:"address"   validate:"required,max=255"`
	City      string    `gorm:"size:100;not null"            json:"city"      validate:"required,max=100"`
	State     string    `gorm:"size:50;not null"             json:"state"     validate:"required,max=50"`
	ZipCode   string    `gorm:"size:20;not null"             json:"zipCode"   validate:"required,max=20"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Normalize trims surrounding whitespace from every field and lower-cases
// the email, which identifies the customer.
func (c *Customer) Normalize() {
	for _, f := range []*string{&c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.City, &c.State, &c.ZipCode} {
		*f = strings.TrimSpace(*f)
	}
	c.Email = strings.ToLower(c.Email)
}

// Validate returns field errors keyed by json name.
func (c *Customer) Validate() map[string]string { return validate.Struct(c) }
