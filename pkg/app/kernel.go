package app

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/nepkart/config"
	"github.com/shashiranjanraj/nepkart/pkg/database"
	"github.com/shashiranjanraj/nepkart/pkg/metrics"
	"github.com/shashiranjanraj/nepkart/pkg/middleware"
	"github.com/shashiranjanraj/nepkart/pkg/reqid"
	"github.com/shashiranjanraj/nepkart/pkg/response"
	"github.com/shashiranjanraj/nepkart/pkg/router"
)

// buildRouter installs the global middleware, the operational endpoints
// and then every route callback.
func buildRouter(fns []func(*router.Router)) *router.Router {
	r := router.New()

	// Outermost first: metrics see the full latency, recovery catches
	// panics from everything below it.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(config.Int("RATE_LIMIT_PER_MINUTE", 300), time.Minute))

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/health", "health", health)

	for _, fn := range fns {
		fn(r)
	}
	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	if err := database.Ping(); err != nil {
		response.Error(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}
