package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/medireminder/medireminder/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeCounters(w, "medireminder_signups_total", "status", snap.Signups)
	writeCounters(w, "medireminder_logins_total", "status", snap.Logins)
	writeCounters(w, "medireminder_token_validations_total", "status", snap.TokenValidations)

	writeCounters(w, "medireminder_resources_created_total", "resource", snap.ResourceCreated)
	writeCounters(w, "medireminder_resources_updated_total", "resource", snap.ResourceUpdated)
	writeCounters(w, "medireminder_resources_deleted_total", "resource", snap.ResourceDeleted)

	for _, op := range sortedKeys(snap.UpstreamCalls) {
		writeMetric(w, "medireminder_upstream_duration_seconds_count{op=%q} %d\n", op, snap.UpstreamCalls[op])
		writeMetric(w, "medireminder_upstream_duration_seconds_sum{op=%q} %.6f\n", op, float64(snap.UpstreamTotalNs[op])/1e9)
	}
}

func writeCounters(w http.ResponseWriter, name, label string, counters map[string]uint64) {
	for _, key := range sortedKeys(counters) {
		writeMetric(w, "%s{%s=%q} %d\n", name, label, key, counters[key])
	}
}

func sortedKeys[V uint64 | int64](counters map[string]V) []string {
	keys := make([]string, 0, len(counters))
	for key := range counters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
