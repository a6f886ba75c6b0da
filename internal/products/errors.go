package products

import (
	"errors"
	"fmt"

	"github.com/rogerio-castellano/product-catalog/internal/validation"
)

// ErrorKind classifies a create failure for transport layers.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindStructural ErrorKind = "structural_validation"
	KindBusiness   ErrorKind = "business_rule"
	KindConflict   ErrorKind = "conflict"
	KindNotFound   ErrorKind = "not_found"
	KindUnexpected ErrorKind = "unexpected"
)

// ErrProductNotFound is returned by GetProduct when no product has the id.
var ErrProductNotFound = errors.New("products: product not found")

// ConflictError reports a uniqueness constraint that fired at write time even
// though validation passed.
type ConflictError struct {
	Field string
	Err   error
}

func (e *ConflictError) Error() string {
	if e == nil {
		return ""
	}
	switch e.Field {
	case "sku":
		return "SKU already exists in the system."
	case "name,brand":
		return "Product name must be unique for this brand."
	case "":
		return "Product already exists in the system."
	default:
		return fmt.Sprintf("Product with this %s already exists in the system.", e.Field)
	}
}

func (e *ConflictError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnexpectedError wraps any other failure, cancellation included.
type UnexpectedError struct {
	Op  string
	Err error
}

func (e *UnexpectedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Kind reports which taxonomy member err belongs to.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var (
		structural *validation.StructuralValidationError
		violation  *validation.BusinessRuleViolation
		conflict   *ConflictError
	)
	switch {
	case errors.As(err, &structural):
		return KindStructural
	case errors.As(err, &violation):
		return KindBusiness
	case errors.As(err, &conflict):
		return KindConflict
	case errors.Is(err, ErrProductNotFound):
		return KindNotFound
	default:
		return KindUnexpected
	}
}
