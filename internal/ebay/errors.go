package ebay

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when an eBay endpoint answers 200 with a
// body that cannot be decoded.
var ErrMalformedResponse = errors.New("malformed eBay response")

// APIError is returned when an eBay endpoint answers with a non-200 status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eBay API error (status %d): %s", e.StatusCode, e.Body)
}
