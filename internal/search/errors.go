// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/pdiddy/sparql-search/internal/httputil"
)

// Failure kinds. Every error returned by a Client query wraps exactly one
// of these, except a cancelled parent context which is returned as is.
var (
	// ErrEndpointUnreachable is a connection-level failure or an endpoint
	// reporting itself unavailable (502, 503).
	ErrEndpointUnreachable = errors.New("endpoint unreachable")

	// ErrQueryTimeout means the endpoint did not answer within the timeout.
	ErrQueryTimeout = errors.New("query timed out")

	// ErrMalformedResponse means the body was not SPARQL JSON results or
	// lacked a variable the query must bind.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrQueryRejected means the endpoint answered with another non-2xx
	// status, typically a query it could not compile.
	ErrQueryRejected = errors.New("query rejected")
)

// QueryError records which operation failed against which endpoint.
type QueryError struct {
	Endpoint string
	Op       string
	Kind     error
	Err      error
}

func (e *QueryError) Error() string {
	if e.Kind == nil {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Endpoint, e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Endpoint, e.Kind)
	}
	return fmt.Sprintf("%s on %s: %v: %v", e.Op, e.Endpoint, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *QueryError) Unwrap() []error {
	errs := make([]error, 0, 2)
	for _, err := range []error{e.Kind, e.Err} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// KindOf returns the failure kind wrapped by err, or nil.
func KindOf(err error) error {
	for _, kind := range []error{ErrEndpointUnreachable, ErrQueryTimeout, ErrMalformedResponse, ErrQueryRejected} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// classifyTransport maps a transport error to a failure kind. It returns
// nil for a cancelled context, which is the caller's decision rather than
// an endpoint failure.
func classifyTransport(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrQueryTimeout
	}

	var se *httputil.StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusGatewayTimeout:
			return ErrQueryTimeout
		case http.StatusBadGateway, http.StatusServiceUnavailable:
			return ErrEndpointUnreachable
		default:
			return ErrQueryRejected
		}
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrQueryTimeout
	}
	return ErrEndpointUnreachable
}
