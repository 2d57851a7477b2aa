package models

import "errors"

// Sentinel errors separating the computation core from the HTTP boundary.
// Only the server layer maps these to status codes.
var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrInsufficientBalance = errors.New("sell quantity exceeds available balance")
)
