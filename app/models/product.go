// Package models holds the persisted entities and their validation rules.
package models

import (
	"time"

	"github.com/shashiranjanraj/nepkart/pkg/validate"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Money and weight travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog entry. Stock never goes below zero.
type Product struct {
	ID                uint            `gorm:"primaryKey"                  json:"id"`
	SKU               string          `gorm:"size:64;uniqueIndex;not null" json:"sku"               validate:"required,max=64"`
	Name              string          `gorm:"size:255;not null;index"     json:"name"              validate:"required,max=255"`
	Category          string          `gorm:"size:100;not null;index"     json:"category"          validate:"required,max=100"`
	Price             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"             validate:"gt=0,dp=2"`
	Stock             int             `gorm:"not null;default:0"          json:"stock"             validate:"gte=0"`
	LowStockThreshold int             `gorm:"not null;default:0"          json:"lowStockThreshold" validate:"gte=0"`
	Weight            decimal.Decimal `gorm:"type:decimal(5,2);not null"  json:"weight"            validate:"gt=0,dp=2"`
	Origin            string          `gorm:"size:255;not null"           json:"origin"            validate:"required,max=255"`
	Description       string          `gorm:"size:1000"                   json:"description"       validate:"max=1000"`
	ImageURL          string          `gorm:"type:text"                   json:"imageUrl"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

// IsOutOfStock reports stock == 0.
func (p *Product) IsOutOfStock() bool { return p.Stock == 0 }

// IsLowStock reports 0 < stock <= threshold.
func (p *Product) IsLowStock() bool { return p.Stock > 0 && p.Stock <= p.LowStockThreshold }

// Validate returns field errors keyed by json name.
func (p *Product) Validate() map[string]string { return validate.Struct(p) }
