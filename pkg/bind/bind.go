// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/nepkart/config"
	"github.com/shashiranjanraj/nepkart/pkg/validate"
)

const defaultMaxBodyBytes = 4 << 20

// MaxBodyBytes is the configured request body limit (MAX_BODY_BYTES).
func MaxBodyBytes() int64 {
	n := config.Int("MAX_BODY_BYTES", defaultMaxBodyBytes)
	if n <= 0 {
		return defaultMaxBodyBytes
	}
	return int64(n)
}

// Decode reads r.Body as JSON into dest, capped at MaxBodyBytes.
func Decode(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// JSON decodes the body into dest and runs validation.
// Returns (errs, nil) when there are validation failures and
// (nil, err) when the body is malformed or too large.
func JSON(r *http.Request, dest interface{}) (map[string]string, error) {
	if err := Decode(r, dest); err != nil {
		return nil, err
	}
	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
