package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrLocalsNotObject is returned when a handler tries to replace the
	// per-request locals with a non-object value.
	ErrLocalsNotObject = errors.New("renderkit: locals must be an object")

	// ErrResponseAlreadySent is returned when a handler attempts to produce
	// or mutate a response after the body started streaming.
	ErrResponseAlreadySent = errors.New("renderkit: response already sent")

	// ErrRewriteBodyConsumed is returned when a rewrite would need to replay
	// a request whose body has already been read.
	ErrRewriteBodyConsumed = errors.New("renderkit: cannot rewrite after the request body has been consumed")

	// ErrNoMatchingRoute is returned when a rewrite target resolves to no
	// registered route.
	ErrNoMatchingRoute = errors.New("renderkit: no matching route")

	// ErrClientAddressUnavailable is the common sentinel wrapped by every
	// ClientAddressError.
	ErrClientAddressUnavailable = errors.New("renderkit: client address not available")
)

// ClientAddressError explains why the client address cannot be known for the
// current request: either the page is prerendered (static output has no
// request peer) or the serving adapter never supplied one.
type ClientAddressError struct {
	// Adapter is the adapter name, empty for static output.
	Adapter string
}

func (e *ClientAddressError) Error() string {
	if e.Adapter == "" {
		return "renderkit: client address not available: the site is static, prerendered pages have no request peer"
	}
	return fmt.Sprintf("renderkit: client address not available: adapter %q did not provide one", e.Adapter)
}

func (e *ClientAddressError) Unwrap() error { return ErrClientAddressUnavailable }

// PanicError wraps a recovered panic value from a middleware or handler so
// the chain can surface it as an ordinary error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("renderkit: recovered panic: %v", e.Value)
}
