package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Signups          map[string]uint64
	Logins           map[string]uint64
	TokenValidations map[string]uint64
	ResourceCreated  map[string]uint64
	ResourceUpdated  map[string]uint64
	ResourceDeleted  map[string]uint64
	UpstreamCalls    map[string]uint64
	UpstreamTotalNs  map[string]int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu               sync.Mutex
	signups          map[string]uint64
	logins           map[string]uint64
	tokenValidations map[string]uint64
	resourceCreated  map[string]uint64
	resourceUpdated  map[string]uint64
	resourceDeleted  map[string]uint64
	upstreamCalls    map[string]uint64
	upstreamTotalNs  map[string]int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		signups:          make(map[string]uint64),
		logins:           make(map[string]uint64),
		tokenValidations: make(map[string]uint64),
		resourceCreated:  make(map[string]uint64),
		resourceUpdated:  make(map[string]uint64),
		resourceDeleted:  make(map[string]uint64),
		upstreamCalls:    make(map[string]uint64),
		upstreamTotalNs:  make(map[string]int64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Signups:          copyCounters(m.signups),
		Logins:           copyCounters(m.logins),
		TokenValidations: copyCounters(m.tokenValidations),
		ResourceCreated:  copyCounters(m.resourceCreated),
		ResourceUpdated:  copyCounters(m.resourceUpdated),
		ResourceDeleted:  copyCounters(m.resourceDeleted),
		UpstreamCalls:    copyCounters(m.upstreamCalls),
		UpstreamTotalNs:  copyCounters(m.upstreamTotalNs),
	}
}

func copyCounters[V uint64 | int64](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// IncSignup increments the signup counter for the given status.
func (m *InMemoryRecorder) IncSignup(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signups[status]++
}

// IncLogin increments the login counter for the given status.
func (m *InMemoryRecorder) IncLogin(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins[status]++
}

// IncTokenValidation increments the token validation counter.
func (m *InMemoryRecorder) IncTokenValidation(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenValidations[status]++
}

// IncResourceCreated increments the create counter for a collection.
func (m *InMemoryRecorder) IncResourceCreated(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resourceCreated[resource]++
}

// IncResourceUpdated increments the update counter for a collection.
func (m *InMemoryRecorder) IncResourceUpdated(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resourceUpdated[resource]++
}

// IncResourceDeleted increments the delete counter for a collection.
func (m *InMemoryRecorder) IncResourceDeleted(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resourceDeleted[resource]++
}

// ObserveUpstreamDuration records an upstream call duration.
func (m *InMemoryRecorder) ObserveUpstreamDuration(op string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upstreamCalls[op]++
	m.upstreamTotalNs[op] += duration.Nanoseconds()
}
