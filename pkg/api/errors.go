package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies why a request failed.
type ErrorKind string

const (
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindEncode          ErrorKind = "encode"
	KindTransport       ErrorKind = "transport"
	KindStatus          ErrorKind = "status"
)

// RequestError is returned by every Client operation that fails.
type RequestError struct {
	Kind       ErrorKind
	Method     string
	URL        string
	StatusCode int
	Snippet    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Kind == KindStatus {
		if e.Snippet == "" {
			return fmt.Sprintf("%s %s: http response status %d", e.Method, e.URL, e.StatusCode)
		}
		return fmt.Sprintf("%s %s: http response status %d: %s", e.Method, e.URL, e.StatusCode, e.Snippet)
	}
	if e.Method == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind of err, or "" when err is not a *RequestError.
func KindOf(err error) ErrorKind {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}
	return ""
}

// StatusCode returns the HTTP status carried by err, or 0 when no response was received.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 response from the server.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
