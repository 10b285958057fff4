package services_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/nepkart/database/migrations"

	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/pkg/database"
	"github.com/shashiranjanraj/nepkart/pkg/migration"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = migration.New(db).Run()
	require.NoError(t, err)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, sku, price string, stock int, weight string) models.Product {
	t.Helper()
	p := models.Product{
		SKU:               sku,
		Name:              "Product " + sku,
		Category:          "Food",
		Price:             decimal.RequireFromString(price),
		Stock:             stock,
		LowStockThreshold: 2,
		Weight:            decimal.RequireFromString(weight),
		Origin:            "Nepal",
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func shopper(email, zip string) models.Customer {
	return models.Customer{
		FirstName: "Sita",
		LastName:  "Sharma",
		Email:     email,
		Phone:     "555-0100",
		Address:   "1 Main St",
		City:      "Portland",
		State:     "OR",
		ZipCode:   zip,
	}
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.Unscoped().First(&p, id).Error)
	return p.Stock
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
