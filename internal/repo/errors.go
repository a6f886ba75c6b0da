package repo

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when a product is not found in the repository.
var ErrProductNotFound = errors.New("product not found")

// ErrDuplicatedValueUnique is returned when a write violates a uniqueness constraint.
var ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")

// DuplicateKeyError names the field whose uniqueness constraint fired.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicatedValueUnique.Error(), e.Field)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicatedValueUnique
}
