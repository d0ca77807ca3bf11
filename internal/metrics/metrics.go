// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Upstream operation names.
const (
	OpListBudgets    = "list_budgets"
	OpListCategories = "list_categories"
)

// Sign-in outcomes.
const (
	SignInAdmitted = "admitted"
	SignInDenied   = "denied"
	SignInFailed   = "failed"
)

// Request rejection reasons.
const (
	RejectTokenMissing = "token_missing"
	RejectValidation   = "validation"
	RejectUnauthorized = "unauthorized"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Upstream API metrics
	IncUpstreamRequest(op string, success bool)
	ObserveUpstreamDuration(op string, duration time.Duration)

	// Requests refused before reaching the upstream
	IncRequestRejected(reason string)

	// Sign-in flow metrics
	IncSignIn(outcome string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
