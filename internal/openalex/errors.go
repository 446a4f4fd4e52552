package openalex

import (
	"errors"
	"fmt"
)

// ErrWorkNotFound is returned by FetchByID when OpenAlex has no work for the
// identifier. It is an expected outcome, not a service failure.
var ErrWorkNotFound = errors.New("work not found in OpenAlex")

// ServiceError reports a transport failure or a non-success status from OpenAlex.
type ServiceError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("error fetching from OpenAlex: %v", e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
