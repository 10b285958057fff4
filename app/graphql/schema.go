// Package graphql exposes the catalog and order tracking as a read-only
// GraphQL schema.
package graphql

import (
	"time"

	gql "github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/app/repositories"
	"github.com/shashiranjanraj/nepkart/app/services"
	"github.com/shashiranjanraj/nepkart/pkg/graphql"
)

func money(get func(interface{}) decimal.Decimal) gql.FieldResolveFn {
	return func(p gql.ResolveParams) (interface{}, error) {
		f, _ := get(p.Source).Float64()
		return f, nil
	}
}

var productType = gql.NewObject(gql.ObjectConfig{
	Name: "Product",
	Fields: gql.Fields{
		"id":                &gql.Field{Type: gql.Int},
		"sku":               &gql.Field{Type: gql.String},
		"name":              &gql.Field{Type: gql.String},
		"category":          &gql.Field{Type: gql.String},
		"stock":             &gql.Field{Type: gql.Int},
		"lowStockThreshold": &gql.Field{Type: gql.Int},
		"origin":            &gql.Field{Type: gql.String},
		"description":       &gql.Field{Type: gql.String},
		"imageUrl":          &gql.Field{Type: gql.String},
		"price": &gql.Field{Type: gql.Float, Resolve: money(func(s interface{}) decimal.Decimal {
			return s.(models.Product).Price
		})},
		"weight": &gql.Field{Type: gql.Float, Resolve: money(func(s interface{}) decimal.Decimal {
			return s.(models.Product).Weight
		})},
		"outOfStock": &gql.Field{Type: gql.Boolean, Resolve: func(p gql.ResolveParams) (interface{}, error) {
			pr := p.Source.(models.Product)
			return pr.IsOutOfStock(), nil
		}},
		"lowStock": &gql.Field{Type: gql.Boolean, Resolve: func(p gql.ResolveParams) (interface{}, error) {
			pr := p.Source.(models.Product)
			return pr.IsLowStock(), nil
		}},
	},
})

var orderItemType = gql.NewObject(gql.ObjectConfig{
	Name: "OrderItem",
	Fields: gql.Fields{
		"quantity": &gql.Field{Type: gql.Int},
		"product":  &gql.Field{Type: productType},
		"price": &gql.Field{Type: gql.Float, Resolve: money(func(s interface{}) decimal.Decimal {
			return s.(models.OrderItem).Price
		})},
	},
})

var orderType = gql.NewObject(gql.ObjectConfig{
	Name: "Order",
	Fields: gql.Fields{
		"orderId": &gql.Field{Type: gql.String},
		"status": &gql.Field{Type: gql.String, Resolve: func(p gql.ResolveParams) (interface{}, error) {
			return string(p.Source.(models.Order).Status), nil
		}},
		"orderDate": &gql.Field{Type: gql.String, Resolve: func(p gql.ResolveParams) (interface{}, error) {
			return p.Source.(models.Order).OrderDate.Format(time.RFC3339), nil
		}},
		"orderItems": &gql.Field{Type: gql.NewList(orderItemType)},
		"subtotal": &gql.Field{Type: gql.Float, Resolve: money(func(s interface{}) decimal.Decimal {
			return s.(models.Order).Subtotal
		})},
		"shippingCost": &gql.Field{Type: gql.Float, Resolve: money(func(s interface{}) decimal.Decimal {
			return s.(models.Order).ShippingCost
		})},
		"tax": &gql.Field{Type: gql.Float, Resolve: money(func(s interface{}) decimal.Decimal {
			return s.(models.Order).Tax
		})},
		"total": &gql.Field{Type: gql.Float, Resolve: money(func(s interface{}) decimal.Decimal {
			return s.(models.Order).Total
		})},
	},
})

// NewSchema builds the schema over the catalog and order services.
func NewSchema(products *services.ProductService, orders *services.OrderService) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"products": &gql.Field{
				Type: gql.NewList(productType),
				Args: gql.FieldConfigArgument{
					"category": &gql.ArgumentConfig{Type: gql.String},
					"search":   &gql.ArgumentConfig{Type: gql.String},
					"page":     &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 1},
					"limit":    &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 20},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					category, _ := p.Args["category"].(string)
					search, _ := p.Args["search"].(string)
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)
					list, _, err := products.All(p.Context, repositories.ProductFilter{Category: category, Search: search}, page, limit)
					return list, err
				},
			},
			"product": &gql.Field{
				Type: productType,
				Args: gql.FieldConfigArgument{
					"id":  &gql.ArgumentConfig{Type: gql.Int},
					"sku": &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if sku, ok := p.Args["sku"].(string); ok && sku != "" {
						return products.FindBySKU(p.Context, sku)
					}
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, nil
					}
					return products.Find(p.Context, uint(id))
				},
			},
			"lowStock": &gql.Field{
				Type: gql.NewList(productType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return products.ListLowStock(p.Context)
				},
			},
			"order": &gql.Field{
				Type: orderType,
				Args: gql.FieldConfigArgument{
					"code": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					code, _ := p.Args["code"].(string)
					return orders.FindByCode(p.Context, code)
				},
			},
		},
	})
	return graphql.NewSchema(query)
}
