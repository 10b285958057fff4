// Package rbac restricts routes by the role in the bearer token. The
// catalog writes and every order-management route are admin only.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/nepkart/pkg/middleware"
	"github.com/shashiranjanraj/nepkart/pkg/response"
)

// RoleAdmin is the role seeded for the shop operator.
const RoleAdmin = "admin"

// Require lets a request through when its role is one of roles. It
// expects claims from middleware.AuthMiddleware.
func Require(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok {
				response.Unauthorized(w, "")
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w)
		})
	}
}

var requireAdmin = Require(RoleAdmin)

// Admin authenticates the bearer token and then requires RoleAdmin.
func Admin(next http.Handler) http.Handler {
	return middleware.AuthMiddleware(requireAdmin(next))
}
