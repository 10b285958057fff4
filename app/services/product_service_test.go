package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/app/repositories"
	"github.com/shashiranjanraj/nepkart/app/services"
	"github.com/shashiranjanraj/nepkart/database/seeders"
	"github.com/shashiranjanraj/nepkart/pkg/storage"
)

func newProduct(sku string) *models.Product {
	return &models.Product{
		SKU:               sku,
		Name:              "Singing Bowl",
		Category:          "Decor",
		Price:             decimal.RequireFromString("59.99"),
		Stock:             4,
		LowStockThreshold: 5,
		Weight:            decimal.RequireFromString("1.50"),
		Origin:            "Tibet/Nepal",
		Description:       "Hand hammered bronze bowl.",
	}
}

func TestProductCreateValidatesAndRejectsDuplicateSKU(t *testing.T) {
	db := newDB(t)
	svc := services.NewProductService(db, nil)
	ctx := context.Background()

	p := newProduct("NEP-DECOR-100")
	require.NoError(t, svc.Create(ctx, p))
	assert.NotZero(t, p.ID)

	err := svc.Create(ctx, newProduct("NEP-DECOR-100"))
	assert.True(t, errors.Is(err, services.ErrConflict))

	bad := newProduct("NEP-DECOR-101")
	bad.Price = decimal.Zero
	bad.Description = strings.Repeat("x", 1001)
	err = svc.Create(ctx, bad)
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "The price must be greater than 0.", verr.Fields["price"])
	assert.Contains(t, verr.Fields, "description")
}

func TestProductCreateRejectsSubCentAmounts(t *testing.T) {
	db := newDB(t)
	svc := services.NewProductService(db, nil)

	p := newProduct("NEP-DECOR-102")
	p.Price = decimal.RequireFromString("1.005")
	p.Weight = decimal.RequireFromString("0.001")
	err := svc.Create(context.Background(), p)

	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "The price must not have more than 2 decimal places.", verr.Fields["price"])
	assert.Contains(t, verr.Fields, "weight")
	assert.Zero(t, count(t, db, &models.Product{}))
}

func TestProductUpdateAndDelete(t *testing.T) {
	db := newDB(t)
	svc := services.NewProductService(db, nil)
	ctx := context.Background()

	p := newProduct("NEP-DECOR-100")
	require.NoError(t, svc.Create(ctx, p))
	require.NoError(t, svc.Create(ctx, newProduct("NEP-DECOR-200")))

	in := *newProduct("NEP-DECOR-100")
	in.Name = "Large Singing Bowl"
	in.Stock = 40
	updated, err := svc.Update(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Large Singing Bowl", updated.Name)
	assert.Equal(t, 40, updated.Stock)

	clash := in
	clash.SKU = "NEP-DECOR-200"
	_, err = svc.Update(ctx, p.ID, clash)
	assert.True(t, errors.Is(err, services.ErrConflict))

	_, err = svc.Update(ctx, 999, in)
	assert.True(t, errors.Is(err, services.ErrNotFound))

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.Find(ctx, p.ID)
	assert.True(t, errors.Is(err, services.ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, p.ID), services.ErrNotFound))
}

func TestProductDecrementStock(t *testing.T) {
	db := newDB(t)
	svc := services.NewProductService(db, nil)
	ctx := context.Background()
	p := seedProduct(t, db, "A", "3.00", 4, "0.10")

	before, err := svc.DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, before.Stock)
	assert.Equal(t, 1, stockOf(t, db, p.ID))

	_, err = svc.DecrementStock(ctx, p.ID, 2)
	var short *services.InsufficientStockError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, 1, short.Available)
	assert.Equal(t, 1, stockOf(t, db, p.ID))

	_, err = svc.DecrementStock(ctx, p.ID, 0)
	assert.True(t, errors.Is(err, services.ErrValidation))

	_, err = svc.DecrementStock(ctx, 999, 1)
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestProductQueries(t *testing.T) {
	db := newDB(t)
	require.NoError(t, seeders.SeedCatalog(db))
	svc := services.NewProductService(db, nil)
	ctx := context.Background()

	all, page, err := svc.All(ctx, repositories.ProductFilter{}, 1, 5)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, int64(len(seeders.StarterCatalog())), page.Total)

	decor, _, err := svc.All(ctx, repositories.ProductFilter{Category: "decor"}, 1, 50)
	require.NoError(t, err)
	assert.Len(t, decor, 6)

	byCat, err := svc.ListByCategory(ctx, "Clothing")
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, "Dhaka Topi", byCat[0].Name)

	found, err := svc.Search(ctx, "MOMO")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "NEP-FOOD-004", found[0].SKU)

	found, err = svc.Search(ctx, "meditation")
	require.NoError(t, err)
	require.Len(t, found, 1, "description matches too")

	out, err := svc.ListOutOfStock(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Gundruk", out[0].Name)

	low, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, low)

	_, err = svc.DecrementStock(ctx, decor[0].ID, decor[0].Stock-1)
	require.NoError(t, err)
	low, err = svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, decor[0].SKU, low[0].SKU)

	bySKU, err := svc.FindBySKU(ctx, " NEP-FOOD-001 ")
	require.NoError(t, err)
	assert.Equal(t, "Wai Wai Noodles", bySKU.Name)
}

func TestAttachImage(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, "A", "3.00", 4, "0.10")

	_, err := services.NewProductService(db, nil).AttachImage(ctx, p.ID, "a.png", strings.NewReader("png"), "image/png")
	assert.True(t, errors.Is(err, services.ErrNoStorage))

	disk, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)
	svc := services.NewProductService(db, disk)

	updated, err := svc.AttachImage(ctx, p.ID, "Bowl.PNG", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.ImageURL, "/storage/products/"), updated.ImageURL)
	assert.True(t, strings.HasSuffix(updated.ImageURL, ".png"))

	name := strings.TrimPrefix(updated.ImageURL, "/storage/")
	data, err := disk.Get(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = svc.AttachImage(ctx, p.ID, "notes.txt", strings.NewReader("x"), "text/plain")
	assert.True(t, errors.Is(err, services.ErrValidation))

	_, err = svc.AttachImage(ctx, 999, "a.png", strings.NewReader("x"), "image/png")
	assert.True(t, errors.Is(err, services.ErrNotFound))
}
