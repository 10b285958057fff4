package models_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nepkart/app/models"
)

func TestDecodeOrderStatus(t *testing.T) {
	cases := map[string]models.OrderStatus{
		"":            models.StatusReceived,
		"RECEIVED":    models.StatusReceived,
		"IN_PROGRESS": models.StatusInProgress,
		"SHIPPED":     models.StatusShipped,
		"pending":     models.StatusReceived,
		"Cancelled":   models.StatusReceived,
		"processing":  models.StatusInProgress,
		"DELIVERED":   models.StatusShipped,
		"shipped":     models.StatusReceived,
		"delivered":   models.StatusShipped,
		"refunded":    models.StatusReceived,
	}
	for in, want := range cases {
		assert.Equal(t, want, models.DecodeOrderStatus(in), "input %q", in)
	}
}

func TestOrderStatusScan(t *testing.T) {
	var s models.OrderStatus
	require.NoError(t, s.Scan([]byte("PROCESSING")))
	assert.Equal(t, models.StatusInProgress, s)
	require.NoError(t, s.Scan(nil))
	assert.Equal(t, models.StatusReceived, s)
	assert.Error(t, s.Scan(42))
}

func TestParseOrderStatusIsStrict(t *testing.T) {
	st, err := models.ParseOrderStatus("SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, st)

	for _, bad := range []string{"", "shipped", " SHIPPED", "In_Progress", "PENDING", "DELIVERED", "done"} {
		_, err := models.ParseOrderStatus(bad)
		assert.ErrorIs(t, err, models.ErrUnknownStatus, bad)
	}
}

func TestProductStockFlags(t *testing.T) {
	p := models.Product{Stock: 0, LowStockThreshold: 5}
	assert.True(t, p.IsOutOfStock())
	assert.False(t, p.IsLowStock())

	p.Stock = 5
	assert.True(t, p.IsLowStock())
	p.Stock = 6
	assert.False(t, p.IsLowStock())
}

func TestProductValidate(t *testing.T) {
	p := models.Product{
		SKU: "NEP-FOOD-001", Name: "Himalayan Tea", Category: "Food", Origin: "Ilam",
		Price: decimal.RequireFromString("12.99"), Weight: decimal.RequireFromString("0.25"),
	}
	assert.Empty(t, p.Validate())

	p.Price = decimal.Zero
	p.Stock = -1
	errs := p.Validate()
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "stock")
}

func TestCustomerNormalizeAndValidate(t *testing.T) {
	c := models.Customer{
		FirstName: " Sita ", LastName: "Rai", Email: " Sita@Example.COM ",
		Phone: "555-0100", Address: "1 Main St", City: "Portland", State: "OR", ZipCode: "97201",
	}
	c.Normalize()
	assert.Equal(t, "sita@example.com", c.Email)
	assert.Equal(t, "Sita", c.FirstName)
	assert.Empty(t, c.Validate())

	c.Email = "broken"
	assert.Contains(t, c.Validate(), "email")
}

func TestOrderItemSubtotalAndJSON(t *testing.T) {
	o := models.Order{
		OrderCode: "NEP-1",
		Status:    models.StatusReceived,
		Items: []models.OrderItem{
			{Quantity: 3, Price: decimal.RequireFromString("2.50")},
			{Quantity: 1, Price: decimal.RequireFromString("10.00")},
		},
	}
	assert.True(t, o.ItemsSubtotal().Equal(decimal.RequireFromString("17.50")))

	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"orderId":"NEP-1"`)
	assert.Contains(t, string(b), `"price":2.5`)
	assert.Contains(t, string(b), `"orderItems":[`)
}
