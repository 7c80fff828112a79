package domain

import "errors"

// Validation errors: the action is not attempted.
var (
	// ErrEmptyProductName indicates a blank name input.
	ErrEmptyProductName = errors.New("product name cannot be empty")

	// ErrInvalidPrice indicates price text that is empty or not a finite decimal number.
	ErrInvalidPrice = errors.New("price must be a finite decimal number")

	// ErrIncompleteInput indicates an update submitted without both a name and a price.
	ErrIncompleteInput = errors.New("name and price are required")

	// ErrEmptyProductID indicates an attempt to persist a product without an id.
	ErrEmptyProductID = errors.New("product id cannot be empty")
)

// Lookup errors.
var (
	// ErrProductNotFound indicates that no listed product matches the selector.
	ErrProductNotFound = errors.New("product not found")
)

// Backend errors.
var (
	// ErrKeyUnavailable indicates the store could not issue a new product id.
	ErrKeyUnavailable = errors.New("no product id available")
)

// IsValidation reports whether err rejects user input before any lookup or write.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyProductName) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrIncompleteInput)
}
