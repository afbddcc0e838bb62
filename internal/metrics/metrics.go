// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Authentication metrics
	IncSignup(status string) // status: "success", "pending", "rejected"
	IncLogin(status string)  // status: "success", "rejected"
	IncTokenValidation(status string)

	// Resource metrics, keyed by collection name
	IncResourceCreated(resource string)
	IncResourceUpdated(resource string)
	IncResourceDeleted(resource string)

	// Upstream call latency
	ObserveUpstreamDuration(op string, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
