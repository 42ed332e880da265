
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package netshare

import (
	"errors"
)

var (
	// HTTP 400
	ErrBadRequest = errors.New("Bad Request")
	// HTTP 401
	ErrUnauthorized = errors.New("Unauthorized")
	// HTTP 403
	ErrForbidden = errors.New("Forbidden")
	// HTTP 404
	ErrNotFound = errors.New("Not Found")
	// HTTP 405
	ErrMethodNotAllowed = errors.New("Method Not Allowed")
	// HTTP 413
	ErrPayloadTooLarge = errors.New("Payload Too Large")
	// HTTP 415
	ErrUnsupportedMedia = errors.New("Unsupported Media Type")
	// HTTP 429
	ErrTooManyRequests = errors.New("Too Many Requests")
	// HTTP 500
	ErrInternal = errors.New("Internal Server Error")
)

// AuthRequiredError is returned when a request must be answered with
// HTTP 401. It carries the nonce bound to the client so the response
// can include a fresh digest challenge.
type AuthRequiredError struct {
	Nonce string
}

func (e *AuthRequiredError) Error() string {
	return "Unauthorized"
}

func ErrAuthRequiredNew(nonce string) *AuthRequiredError {
	return &AuthRequiredError{
		Nonce: nonce,
	}
}

type RateLimitError struct {
	s          string
	RetryAfter int64
}

func (e *RateLimitError) Error() string {
	return e.s
}

func ErrTooManyRequestsNew(retryAfter int64) *RateLimitError {
	return &RateLimitError{
		s:          "Too Many Requests",
		RetryAfter: retryAfter,
	}
}
