package controllers

import (
	"strings"
	"time"

	"github.com/shashiranjanraj/nepkart/app/services"
	"github.com/shashiranjanraj/nepkart/pkg/auth"
	"github.com/shashiranjanraj/nepkart/pkg/ctx"
	"github.com/shashiranjanraj/nepkart/pkg/middleware"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{auth: svc}
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
}

func (ac *AuthController) Login(c *ctx.Context) {
	var req LoginRequest
	if !c.BindJSON(&req) {
		return
	}
	tok, err := ac.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(loginResponse{Token: tok.Value, ExpiresAt: tok.ExpiresAt, Username: strings.TrimSpace(req.Username)})
}

// Logout revokes the bearer token. It sits behind AuthMiddleware.
func (ac *AuthController) Logout(c *ctx.Context) {
	claims, _ := middleware.ClaimsFromCtx(c.Context())
	if err := ac.auth.Logout(c.Context(), claims); err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]interface{}{"message": "Logged out successfully"})
}

// Check reports whether the request carries a valid token. It never fails.
func (ac *AuthController) Check(c *ctx.Context) {
	out := map[string]interface{}{"authenticated": false}
	if raw := middleware.BearerToken(c.R); raw != "" {
		if claims, err := auth.ValidateToken(raw); err == nil {
			out["authenticated"] = true
			out["username"] = claims.Username
		}
	}
	c.Success(out)
}

func (ac *AuthController) Health(c *ctx.Context) {
	c.Success(map[string]string{"status": "ok", "message": "Auth service is running"})
}
