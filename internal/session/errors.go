package session

import "errors"

// Errors surfaced to API callers as 4xx-equivalent failures.
var (
	ErrCartFull        = errors.New("cart is full (max 10 items)")
	ErrPlaceNotFound   = errors.New("place not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidSettings = errors.New("num_days and num_people must be at least 1")
)
