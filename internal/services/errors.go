package services

import (
	"errors"
	"fmt"

	"eventadmission/internal/domain"
)

// wrap adds op to infrastructure errors. Domain errors are returned as-is so
// their message reaches the caller unchanged.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, cat := range []error{domain.ErrNotFound, domain.ErrConflict, domain.ErrInvalidInput, domain.ErrForbidden} {
		if errors.Is(err, cat) {
			return err
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
