package errors

import "errors"

var (
	ErrNotFound = errors.New("purchase not found")

	ErrInvalidID = errors.New("invalid purchase ID format")

	ErrProductNotFound = errors.New("product not found")

	ErrTouristNotFound = errors.New("tourist not found")

	ErrInsufficientStock = errors.New("insufficient product stock")

	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	ErrAlreadyFinalized = errors.New("purchase already cancelled or delivered")
)
