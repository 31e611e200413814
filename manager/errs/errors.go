package errs

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type HTTPStatusError struct {
	StatusCode  int
	Message     string
	OriginalErr error
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("(status %d) %s: %v", e.StatusCode, e.Message, e.OriginalErr)
}

func (e *HTTPStatusError) Unwrap() error {
	return e.OriginalErr
}

func NewHTTPStatusError(statusCode int, message string, originalErr error) *HTTPStatusError {
	return &HTTPStatusError{
		StatusCode:  statusCode,
		Message:     message,
		OriginalErr: originalErr,
	}
}

func NewUnauthorized(originalErr error) *HTTPStatusError {
	return NewHTTPStatusError(http.StatusUnauthorized, "unauthorized", originalErr)
}

func NewForbidden(originalErr error) *HTTPStatusError {
	return NewHTTPStatusError(http.StatusForbidden, "forbidden", originalErr)
}

func IsHTTPStatusError(err error) (*HTTPStatusError, bool) {
	if err == nil {
		return nil, false
	}
	var httpErr *HTTPStatusError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	httpErr, ok := errors.Cause(err).(*HTTPStatusError)
	return httpErr, ok
}
