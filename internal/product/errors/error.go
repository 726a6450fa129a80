// Package errors provides custom error types for product-related operations.
package errors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var ErrProductNotFound = errors.New("product not found")
var ErrInvalidProduct = errors.New("invalid product")
var ErrDuplicateCode = errors.New("product code already exists")
var ErrStoreRead = errors.New("can't read product store")
var ErrStoreWrite = errors.New("can't write product store")
var ErrIDsExhausted = errors.New("no product IDs left")

// ValidationError lists the fields of a product that failed validation,
// keyed by field name with the failed rule as value.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidProduct.Error()
	}
	var b strings.Builder
	b.WriteString(ErrInvalidProduct.Error())
	b.WriteString(":")
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		b.WriteString(fmt.Sprintf(" %s failed on rule %q;", field, e.Fields[field]))
	}
	return strings.TrimSuffix(b.String(), ";")
}

// Unwrap makes errors.Is(err, ErrInvalidProduct) hold for every ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidProduct
}

// Kind labels an error with its place in the product error taxonomy.
// It returns "ok" for a nil error and "error" for anything unclassified.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrProductNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidProduct):
		return "validation"
	case errors.Is(err, ErrDuplicateCode):
		return "duplicate_code"
	case errors.Is(err, ErrStoreRead):
		return "read_failure"
	case errors.Is(err, ErrStoreWrite):
		return "write_failure"
	default:
		return "error"
	}
}
