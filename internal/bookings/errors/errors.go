package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrAlreadyBooked = errors.New("item already booked for this date")

	ErrRatingExists = errors.New("booking already has a rating")
)
