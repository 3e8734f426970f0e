// Package errors provides the coded errors returned by the HTTP API.
//
//nolint:lll
package errors

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the caller's fault and return
// HTTP Status 400 or 404, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault (or an upstream provider's)
// and return HTTP Status 500 or 503.
//
// NEVER change any of the current error codes, only append new errors after
// the current last 4XXXX or 5XXXX. Gaps are codes used in the past and must
// not be reused.
var (
	// Validation errors (400)
	ErrMalformedBody       = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid JSON request body")}
	ErrMalformedURLParam   = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed URL parameter")}
	ErrInvalidPackage      = Error{Code: 40039, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid package type")}
	ErrInvalidEmailRequest = Error{Code: 40040, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("email and name are required")}
	ErrSignatureInvalid    = Error{Code: 40041, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("webhook signature verification failed"), LogLevel: "warn"}

	// Server errors (500)
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrStripeError                = Error{Code: 50005, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("payment provider error")}
	ErrSessionNotFound            = Error{Code: 50009, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("checkout session not found")}
	ErrSendEmailFailed            = Error{Code: 50010, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("failed to send email")}
)
