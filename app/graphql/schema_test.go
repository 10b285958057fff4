package graphql_test

import (
	"context"
	"encoding/json"
	"testing"

	gql "github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/nepkart/database/migrations"

	"github.com/shashiranjanraj/nepkart/app/graphql"
	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/app/services"
	"github.com/shashiranjanraj/nepkart/pkg/database"
	"github.com/shashiranjanraj/nepkart/pkg/event"
	"github.com/shashiranjanraj/nepkart/pkg/migration"
)

func setup(t *testing.T) (*gorm.DB, gql.Schema, *services.OrderService) {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	_, err = migration.New(db).Run()
	require.NoError(t, err)

	orders := services.NewOrderService(db, event.New())
	schema, err := graphql.NewSchema(services.NewProductService(db, nil), orders)
	require.NoError(t, err)
	return db, schema, orders
}

func run(t *testing.T, schema gql.Schema, query string) map[string]interface{} {
	t.Helper()
	res := gql.Do(gql.Params{Schema: schema, RequestString: query, Context: context.Background()})
	require.Empty(t, res.Errors)
	raw, err := json.Marshal(res.Data)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestProductQueries(t *testing.T) {
	db, schema, _ := setup(t)
	p := models.Product{
		SKU: "NEP-TEA-001", Name: "Ilam Black Tea", Category: "Tea",
		Price: decimal.RequireFromString("12.50"), Stock: 2, LowStockThreshold: 5,
		Weight: decimal.RequireFromString("0.25"), Origin: "Ilam",
	}
	require.NoError(t, db.Create(&p).Error)

	out := run(t, schema, `{ product(sku: "NEP-TEA-001") { name price lowStock outOfStock } }`)
	assert.Equal(t, map[string]interface{}{
		"name": "Ilam Black Tea", "price": 12.5, "lowStock": true, "outOfStock": false,
	}, out["product"])

	out = run(t, schema, `{ lowStock { sku } products(category: "Tea") { sku } }`)
	assert.Len(t, out["lowStock"], 1)
	assert.Len(t, out["products"], 1)
}

func TestOrderQuery(t *testing.T) {
	db, schema, orders := setup(t)
	p := models.Product{
		SKU: "NEP-FOOD-001", Name: "Wai Wai", Category: "Food",
		Price: decimal.RequireFromString("2.99"), Stock: 10, LowStockThreshold: 1,
		Weight: decimal.RequireFromString("0.10"), Origin: "Nepal",
	}
	require.NoError(t, db.Create(&p).Error)

	o, err := orders.CreateOrder(context.Background(), models.Customer{
		FirstName: "Sita", LastName: "Sharma", Email: "sita@example.com", Phone: "555-0100",
		Address: "1 Main St", City: "Portland", State: "OR", ZipCode: "97201",
	}, []services.LineRequest{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)

	out := run(t, schema, `{ order(code: "`+o.OrderCode+`") { orderId status total orderItems { quantity product { sku } } } }`)
	order := out["order"].(map[string]interface{})
	assert.Equal(t, o.OrderCode, order["orderId"])
	assert.Equal(t, "RECEIVED", order["status"])
	assert.Equal(t, 11.97, order["total"])
	items := order["orderItems"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(2), items[0].(map[string]interface{})["quantity"])
}

func TestUnknownOrderIsAnError(t *testing.T) {
	_, schema, _ := setup(t)
	res := gql.Do(gql.Params{Schema: schema, RequestString: `{ order(code: "NEP-0-000000") { orderId } }`, Context: context.Background()})
	assert.NotEmpty(t, res.Errors)
}
