package profiles

import "errors"

var (
	// ErrNotFound indicates the user has no saved profile.
	ErrNotFound = errors.New("profile not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)
