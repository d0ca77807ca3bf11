// Package model defines domain entities for the application.
package model

import "log/slog"

// Identity is an authenticated identity as asserted by the identity provider.
// It is ephemeral and never persisted.
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
}

// Credential holds the process-wide secrets. It is built once at startup and
// shared read-only.
type Credential struct {
	APIToken     string
	AllowedEmail string
}

// HasToken reports whether an upstream API token is configured.
func (c Credential) HasToken() bool {
	return c.APIToken != ""
}

// LogValue keeps the token out of structured logs.
func (c Credential) LogValue() slog.Value {
	token := "[unset]"
	if c.HasToken() {
		token = "[redacted]"
	}
	allowed := "[unset]"
	if c.AllowedEmail != "" {
		allowed = "[set]"
	}
	return slog.GroupValue(
		slog.String("api_token", token),
		slog.String("allowed_email", allowed),
	)
}

// String keeps the token out of fmt output.
func (c Credential) String() string {
	return "Credential{api_token:[redacted]}"
}
