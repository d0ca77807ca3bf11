package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUpstreamRequest is a no-op.
func (n *NoopRecorder) IncUpstreamRequest(op string, success bool) {}

// ObserveUpstreamDuration is a no-op.
func (n *NoopRecorder) ObserveUpstreamDuration(op string, duration time.Duration) {}

// IncRequestRejected is a no-op.
func (n *NoopRecorder) IncRequestRejected(reason string) {}

// IncSignIn is a no-op.
func (n *NoopRecorder) IncSignIn(outcome string) {}
