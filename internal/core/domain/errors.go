package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidLocation indicates the location filter could not be parsed
	// as a "lng,lat" coordinate pair
	ErrInvalidLocation = errors.New("invalid location")

	// ErrUnknownCategory indicates a category outside the allowed taxonomy
	ErrUnknownCategory = errors.New("unknown category")
)
