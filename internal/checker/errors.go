package checker

import (
	"errors"
	"fmt"
)

var ErrEmptyInput = errors.New("empty input")

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response; Body is the response text.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("lookup status %d: %s", e.Status, e.Body)
}

// ServiceError is a 2xx response carrying an "error" field.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

// errorMessage is the user-facing text for err, without the "Error: " prefix.
func errorMessage(err error) string {
	var (
		httpErr      *HTTPError
		serviceErr   *ServiceError
		transportErr *TransportError
	)
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Body
	case errors.As(err, &serviceErr):
		return serviceErr.Message
	case errors.As(err, &transportErr):
		return transportErr.Err.Error()
	default:
		return err.Error()
	}
}
