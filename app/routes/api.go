// Package routes maps URLs onto controllers.
package routes

import (
	"net/http"
	"time"

	gql "github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/nepkart/app/controllers"
	"github.com/shashiranjanraj/nepkart/app/services"
	"github.com/shashiranjanraj/nepkart/pkg/ctx"
	"github.com/shashiranjanraj/nepkart/pkg/graphql"
	"github.com/shashiranjanraj/nepkart/pkg/middleware"
	"github.com/shashiranjanraj/nepkart/pkg/rbac"
	"github.com/shashiranjanraj/nepkart/pkg/router"
	"github.com/shashiranjanraj/nepkart/pkg/ws"
)

// Deps are the services the routes dispatch to.
type Deps struct {
	Products *services.ProductService
	Orders   *services.OrderService
	Auth     *services.AuthService
	Feed     *ws.Hub
	Schema   *gql.Schema
	// StorageRoot, when set, is served under /storage.
	StorageRoot string
}

// RegisterAPI mounts every route on r.
func RegisterAPI(r *router.Router, d Deps) {
	products := controllers.NewProductController(d.Products)
	orders := controllers.NewOrderController(d.Orders)
	pricing := controllers.NewPricingController()
	auth := controllers.NewAuthController(d.Auth)

	api := r.Group("/api")

	catalog := api.Group("/products")
	catalog.Get("/", "products.index", ctx.Wrap(products.Index))
	catalog.Get("/out-of-stock", "products.out_of_stock", ctx.Wrap(products.OutOfStock))
	catalog.Get("/low-stock", "products.low_stock", ctx.Wrap(products.LowStock))
	catalog.Get("/sku/{sku}", "products.show_by_sku", ctx.Wrap(products.ShowBySKU))
	catalog.Get("/{id}", "products.show", ctx.Wrap(products.Show))
	catalog.Post("/", "products.store", ctx.Wrap(products.Store), rbac.Admin)
	catalog.Put("/{id}", "products.update", ctx.Wrap(products.Update), rbac.Admin)
	catalog.Delete("/{id}", "products.destroy", ctx.Wrap(products.Destroy), rbac.Admin)
	catalog.Post("/{id}/image", "products.image", ctx.Wrap(products.UploadImage), rbac.Admin)

	checkout := api.Group("/orders")
	checkout.Post("/", "orders.store", ctx.Wrap(orders.Store))
	checkout.Get("/order-code/{code}", "orders.show_by_code", ctx.Wrap(orders.ShowByCode))
	checkout.Get("/order-id/{code}", "orders.show_by_order_id", ctx.Wrap(orders.ShowByCode))
	checkout.Get("/", "orders.index", ctx.Wrap(orders.Index), rbac.Admin)
	checkout.Get("/{id}", "orders.show", ctx.Wrap(orders.Show), rbac.Admin)
	checkout.Put("/{id}/status", "orders.status", ctx.Wrap(orders.UpdateStatus), rbac.Admin)
	checkout.Delete("/{id}", "orders.destroy", ctx.Wrap(orders.Destroy), rbac.Admin)

	api.Post("/shipping/calculate", "shipping.calculate", ctx.Wrap(pricing.Shipping))
	api.Get("/tax/rate", "tax.rate", ctx.Wrap(pricing.TaxRate))

	session := api.Group("/auth")
	session.Post("/login", "auth.login", ctx.Wrap(auth.Login), middleware.RateLimit(10, time.Minute))
	session.Post("/logout", "auth.logout", ctx.Wrap(auth.Logout), middleware.AuthMiddleware)
	session.Get("/check", "auth.check", ctx.Wrap(auth.Check))
	session.Get("/health", "auth.health", ctx.Wrap(auth.Health))

	if d.Feed != nil {
		api.Get("/admin/orders/feed", "orders.feed", d.Feed.ServeHTTP, rbac.Admin)
	}

	if d.Schema != nil {
		h := graphql.Handler(*d.Schema)
		r.Get("/graphql", "graphql.query", h)
		r.Post("/graphql", "graphql.execute", h)
	}

	if d.StorageRoot != "" {
		r.HandleFunc("/storage/*", http.StripPrefix("/storage/", http.FileServer(http.Dir(d.StorageRoot))).ServeHTTP)
	}
}
