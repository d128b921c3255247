package errors

import "errors"

var (
	ErrNotFound = errors.New("promo code not found")

	ErrExhausted = errors.New("promo code usage limit reached")
)
