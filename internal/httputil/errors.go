// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed repository exchange.
type ErrorKind string

const (
	KindAuthentication ErrorKind = "authentication"
	KindAccessDenied   ErrorKind = "access_denied"
	KindNotFound       ErrorKind = "not_found"
	KindServer         ErrorKind = "server"
	KindRepository     ErrorKind = "repository"
	KindNetwork        ErrorKind = "network"
	KindRequest        ErrorKind = "request"
)

// APIError is the user-facing form of a failed request. Error returns the
// message shown to users; the cause stays reachable through Unwrap.
type APIError struct {
	Kind ErrorKind

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	Message string
	Err     error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

// StatusError maps a non-2xx response to an APIError. For statuses without
// a dedicated message the body's JSON "message" field is used, falling back
// to the HTTP status text.
func StatusError(status int, body []byte) *APIError {
	e := &APIError{
		StatusCode: status,
		Err:        fmt.Errorf("repository returned HTTP %d", status),
	}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindAuthentication
		e.Message = "Authentication failed. Please check your credentials."
	case status == http.StatusForbidden:
		e.Kind = KindAccessDenied
		e.Message = "Access denied. Insufficient permissions."
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
		e.Message = "Repository endpoint not found."
	case status >= 500:
		e.Kind = KindServer
		e.Message = "Repository server error. Please try again later."
	default:
		e.Kind = KindRepository
		e.Message = "Repository error: " + responseMessage(status, body)
	}
	return e
}

// NetworkError reports a request that never received a response.
func NetworkError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: "Network error. Please check your connection and repository URL.",
		Err:     err,
	}
}

// RequestError reports a failure building the request or reading its result.
func RequestError(err error) *APIError {
	return &APIError{
		Kind:    KindRequest,
		Message: "Request error: " + err.Error(),
		Err:     err,
	}
}

func responseMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && strings.TrimSpace(payload.Message) != "" {
		return payload.Message
	}
	return http.StatusText(status)
}
