package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	StatusReceived   OrderStatus = "RECEIVED"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusShipped    OrderStatus = "SHIPPED"
)

// ErrUnknownStatus is returned by ParseOrderStatus.
var ErrUnknownStatus = errors.New("unknown order status")

// ParseOrderStatus accepts exactly RECEIVED, IN_PROGRESS or SHIPPED.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusReceived, StatusInProgress, StatusShipped:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// DecodeOrderStatus maps stored values, including ones written by older
// releases, onto the current set. It never fails.
func DecodeOrderStatus(s string) OrderStatus {
	switch st := OrderStatus(s); st {
	case "":
		return StatusReceived
	case StatusReceived, StatusInProgress, StatusShipped:
		return st
	}
	switch strings.ToUpper(s) {
	case "PROCESSING":
		return StatusInProgress
	case "DELIVERED":
		return StatusShipped
	}
	// PENDING, CANCELLED and anything unrecognised.
	return StatusReceived
}

// Scan implements sql.Scanner with legacy decoding.
func (s *OrderStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = StatusReceived
	case string:
		*s = DecodeOrderStatus(v)
	case []byte:
		*s = DecodeOrderStatus(string(v))
	default:
		return fmt.Errorf("order status: cannot scan %T", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (s OrderStatus) Value() (driver.Value, error) {
	if s == "" {
		return string(StatusReceived), nil
	}
	return string(s), nil
}

// Order is the aggregate created by checkout.
// Total always equals Subtotal + ShippingCost + Tax.
type Order struct {
	ID           uint            `gorm:"primaryKey"                  json:"id"`
	OrderCode    string          `gorm:"size:64;uniqueIndex;not null" json:"orderId"`
	CustomerID   uint            `gorm:"not null;index"              json:"-"`
	Customer     Customer        `json:"customer"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID"          json:"orderItems"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"shippingCost"`
	Tax          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	OrderDate    time.Time       `gorm:"not null;index"              json:"orderDate"`
	Status       OrderStatus     `gorm:"size:20;not null"            json:"status"`
	CreatedAt    time.Time       `json:"-"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// OrderItem is one line of an order with the unit price captured at
// checkout.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                  json:"id"`
	OrderID   uint            `gorm:"not null;index"              json:"-"`
	ProductID uint            `gorm:"not null;index"              json:"-"`
	Product   Product         `json:"product"`
	Quantity  int             `gorm:"not null"                    json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// Subtotal is Price × Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsSubtotal sums the line subtotals.
func (o *Order) ItemsSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}
