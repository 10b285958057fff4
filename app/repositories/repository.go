// Package repositories wraps gorm access to the persisted models. Build a
// repository on a transaction handle to run inside that transaction.
package repositories

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/nepkart/pkg/database"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a unique key is already taken.
	ErrConflict = errors.New("conflict")
)

// translate maps gorm errors onto ErrNotFound / ErrConflict, keeping what
// for context.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case database.IsDuplicateKey(err):
		return fmt.Errorf("%s: %w: %v", what, ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
