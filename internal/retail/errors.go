package retail

import (
	"fmt"

	domain "github.com/donaldgifford/slash/pkg/types"
)

// ErrorKind classifies a source failure.
type ErrorKind string

// ErrorKind constants.
const (
	KindNetwork ErrorKind = "network"
	KindStatus  ErrorKind = "status"
	KindParse   ErrorKind = "parse"
)

// Error is returned by every Source when a fetch fails.
type Error struct {
	Kind       ErrorKind
	Site       domain.Site
	StatusCode int // set for KindStatus
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Site, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Site, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
