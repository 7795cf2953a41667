package shop

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSessionNotFound = errors.New("session not found")
)
