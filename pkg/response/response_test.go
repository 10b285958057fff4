package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nepkart/pkg/orm"
	"github.com/shashiranjanraj/nepkart/pkg/response"
)

func TestValidationErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	response.ValidationError(rec, map[string]string{"email": "The email must be a valid email address."})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 422, body["status"])
	assert.Equal(t, "Validation failed", body["message"])
	assert.NotContains(t, body, "data")
	assert.Contains(t, body["errors"], "email")
}

func TestPaginatedEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Paginated(rec, []string{"a", "b"}, orm.Pagination{Page: 1, Limit: 2, Total: 5, LastPage: 3})

	var body struct {
		Status int `json:"status"`
		Data   struct {
			Items      []string       `json:"items"`
			Pagination orm.Pagination `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 200, body.Status)
	assert.Equal(t, []string{"a", "b"}, body.Data.Items)
	assert.Equal(t, 3, body.Data.Pagination.LastPage)
}

func TestUnauthorizedDefaultsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Unauthorized(rec, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Unauthorized"`)
}
