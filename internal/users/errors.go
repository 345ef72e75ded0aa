package users

import "github.com/cockroachdb/errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("user not found")
	ErrStore      = errors.New("store error")
)

const (
	ErrorCodeValidation = "validation_error"
	ErrorCodeNotFound   = "not_found"
	ErrorCodeStore      = "store_error"
)

func storeError(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(err, op), ErrStore)
}

// StoreDetail returns the driver message behind a store error.
func StoreDetail(err error) string {
	if err == nil {
		return ""
	}
	return errors.UnwrapAll(err).Error()
}
