package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/nepkart/config"
)

type CORSOptions struct {
	AllowedOrigins []string // "*" matches any origin
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         int // seconds
}

// DefaultCORSOptions reads CORS_ALLOWED_ORIGINS (comma separated, "*" by
// default) and exposes X-Error-Message so the storefront can show why an
// order was rejected.
func DefaultCORSOptions() CORSOptions {
	var origins []string
	for _, o := range strings.Split(config.Get("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return CORSOptions{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Error-Message", "X-Request-Id"},
		MaxAge:         300,
	}
}

// CORS answers preflights itself and decorates every other response from
// an allowed origin.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	static := map[string]string{
		"Access-Control-Allow-Methods": strings.Join(opts.AllowedMethods, ", "),
		"Access-Control-Allow-Headers": strings.Join(opts.AllowedHeaders, ", "),
	}
	if len(opts.ExposedHeaders) > 0 {
		static["Access-Control-Expose-Headers"] = strings.Join(opts.ExposedHeaders, ", ")
	}
	if opts.MaxAge > 0 {
		static["Access-Control-Max-Age"] = strconv.Itoa(opts.MaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allow, ok := matchOrigin(opts.AllowedOrigins, origin); ok {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allow)
				if allow != "*" {
					h.Add("Vary", "Origin")
				}
				for k, v := range static {
					h.Set(k, v)
				}
			}

			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if preflight {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func matchOrigin(allowed []string, origin string) (string, bool) {
	for _, a := range allowed {
		if a == "*" {
			return "*", true
		}
		if origin != "" && strings.EqualFold(a, origin) {
			return origin, true
		}
	}
	return "", false
}
