package bootcamp

import "errors"

var (
	ErrBootcampNotFound      = errors.New("bootcamp not found")
	ErrBootcampAlreadyExists = errors.New("bootcamp already exists")

	// ErrAddressNotFound is returned by a geocoder that found no match.
	ErrAddressNotFound = errors.New("address not found")
)
