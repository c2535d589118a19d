package charge

import "errors"

var (
	ErrNotFound   = errors.New("charge not found")
	ErrValidation = errors.New("invalid charge")
)
