package ynab

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrBudgetIDRequired is returned before any network call when the budget
// id is empty.
var ErrBudgetIDRequired = errors.New("budgetId query parameter required")

// APIError is a non-2xx response from the YNAB API. YNAB error bodies look
// like {"error":{"id":"404.2","name":"resource_not_found","detail":"..."}}.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// ID is YNAB's error id, e.g. "401" or "404.2".
	ID string

	// Name is YNAB's short error name, e.g. "unauthorized".
	Name string

	// Detail is the human-readable message.
	Detail string
}

// Error returns the upstream's own message. It is diagnostic only.
func (err *APIError) Error() string {
	switch {
	case err.Detail != "":
		return err.Detail
	case err.Name != "":
		return err.Name
	default:
		return fmt.Sprintf("HTTP %d: %s", err.StatusCode, http.StatusText(err.StatusCode))
	}
}

// TransportError wraps a failure to reach the API or to read its response.
type TransportError struct {
	Op  string
	Err error
}

func (err *TransportError) Error() string {
	return err.Err.Error()
}

func (err *TransportError) Unwrap() error {
	return err.Err
}

// IsUpstream reports whether err came from the YNAB API or the path to it.
func IsUpstream(err error) bool {
	var apiError *APIError
	var transportError *TransportError
	return errors.As(err, &apiError) || errors.As(err, &transportError)
}

// IsUnauthorized reports whether the API rejected the token.
func IsUnauthorized(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether the API returned 404, e.g. for an unknown budget.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}
