package client

import "errors"

var (
	ErrNotFound   = errors.New("client not found")
	ErrValidation = errors.New("invalid client")
)
