package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nepkart/pkg/auth"
	"github.com/shashiranjanraj/nepkart/pkg/rbac"
)

func call(t *testing.T, role string) int {
	t.Helper()
	h := rbac.Admin(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	if role != "" {
		tok, err := auth.GenerateToken(3, "someone", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok.Value)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAdminGate(t *testing.T) {
	assert.Equal(t, http.StatusOK, call(t, "admin"))
	assert.Equal(t, http.StatusForbidden, call(t, "clerk"))
	assert.Equal(t, http.StatusUnauthorized, call(t, ""))
}
