package services

import "net/http"

// ProductNotFoundMessage prefixes every not-found error.
const ProductNotFoundMessage = "Product not found"

// ProductNotFoundError reports a lookup for a code that is not stored.
type ProductNotFoundError struct {
	Code string
}

func (e *ProductNotFoundError) Error() string {
	return ProductNotFoundMessage + ": " + e.Code
}

// Status is the HTTP status the error maps to.
func (e *ProductNotFoundError) Status() int { return http.StatusNotFound }
