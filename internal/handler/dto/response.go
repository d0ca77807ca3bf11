// Package dto contains the JSON shapes written by the handlers.
package dto

import "time"

// ErrorResponse is the normalized API error: a stable summary plus optional
// diagnostic detail.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Probe statuses.
const (
	ProbeConnected = "connected"
	ProbeError     = "error"
)

// ProbeResponse is the successful connectivity probe body.
type ProbeResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Tables    []string  `json:"tables"`
}

// ProbeErrorResponse is the failed connectivity probe body.
type ProbeErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}
