// Package app assembles the nepkart process: it boots shared resources,
// builds the HTTP handler around the registered routes and implements the
// database and routing commands the CLI exposes.
//
//	a := app.New().Routes(func(r *router.Router) { routes.RegisterAPI(r, deps) })
//	cleanup, err := app.Boot()
//	...
//	err = a.Serve(ctx)
package app

import (
	"net/http"
	"sync"

	"github.com/shashiranjanraj/nepkart/pkg/router"
)

// Application collects route registrations and builds the handler once.
type Application struct {
	routesFns []func(*router.Router)

	once   sync.Once
	router *router.Router
}

// New returns an empty Application.
func New() *Application {
	return &Application{}
}

// Routes adds a route-registration callback. Callbacks run in order.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Router returns the fully built router.
func (a *Application) Router() *router.Router {
	a.once.Do(func() { a.router = buildRouter(a.routesFns) })
	return a.router
}

// Handler is Router().Handler().
func (a *Application) Handler() http.Handler {
	return a.Router().Handler()
}
