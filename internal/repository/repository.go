// Package repository holds the per-entity persistence operations. Methods
// take a context, return plain records, and raise the typed errors from
// apperrors; no SQL detail escapes upward.
package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskboard-dev/taskboard/internal/apperrors"
)

// queryErr classifies a gorm error under the app's error kinds, keeping
// the original message in the chain for the logs.
func queryErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, apperrors.ErrQuery, err)
}

func validationErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}
