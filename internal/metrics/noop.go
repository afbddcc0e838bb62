package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSignup is a no-op.
func (n *NoopRecorder) IncSignup(status string) {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(status string) {}

// IncTokenValidation is a no-op.
func (n *NoopRecorder) IncTokenValidation(status string) {}

// IncResourceCreated is a no-op.
func (n *NoopRecorder) IncResourceCreated(resource string) {}

// IncResourceUpdated is a no-op.
func (n *NoopRecorder) IncResourceUpdated(resource string) {}

// IncResourceDeleted is a no-op.
func (n *NoopRecorder) IncResourceDeleted(resource string) {}

// ObserveUpstreamDuration is a no-op.
func (n *NoopRecorder) ObserveUpstreamDuration(op string, duration time.Duration) {}
