// Copyright 2025 UMH Systems GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/united-manufacturing-hub/faultmon/pkg/logger"
)

var (
	// Namespace and subsystem for all metrics.
	namespace = "faultmon"
	subsystem = "core"

	// Log entries by severity.
	logEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "log_entries_total",
			Help:      "Total number of log entries appended, by severity",
		},
		[]string{"severity"},
	)

	// Evictions of the oldest log entry when the store is at capacity.
	logEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "log_evictions_total",
			Help:      "Total number of log entries evicted due to the capacity bound",
		},
	)

	// Fault injections by fault kind.
	faultInjectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "fault_injections_total",
			Help:      "Total number of fault injections, by fault kind",
		},
		[]string{"fault_kind"},
	)

	// Fault records dropped because the fault history was full.
	droppedFaultRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dropped_fault_records_total",
			Help:      "Total number of fault records silently dropped by the full fault history",
		},
	)

	// Completed recovery attempts.
	recoveriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "recoveries_total",
			Help:      "Total number of completed fault recoveries",
		},
	)

	// Watchdog timeouts (one per stale window).
	watchdogTimeoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "watchdog_timeouts_total",
			Help:      "Total number of watchdog stale windows detected",
		},
	)

	// Health gauges.
	cpuUsagePercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cpu_usage_percent",
			Help:      "Last sampled CPU usage percentage (0-100)",
		},
	)

	memoryUsagePercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "memory_usage_percent",
			Help:      "Last sampled memory usage percentage (0-100)",
		},
	)

	// Availability state of the monitor.
	availabilityState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "availability_state",
			Help:      "Current availability state (0=init, 1=running, 2=fault, 3=recovery, 4=shutdown, -1=unknown)",
		},
	)
)

// DebugProvider provides monitor introspection data for the debug endpoint.
// Implementations should return a JSON-serializable value.
type DebugProvider interface {
	GetDebugInfo() interface{}
}

// debugRegistry holds registered debug providers.
var debugRegistry struct {
	providers map[string]DebugProvider
	mu        sync.RWMutex
}

// RegisterDebugProvider registers a debug provider for the /debug/monitor endpoint.
func RegisterDebugProvider(name string, provider DebugProvider) {
	debugRegistry.mu.Lock()
	defer debugRegistry.mu.Unlock()

	if debugRegistry.providers == nil {
		debugRegistry.providers = make(map[string]DebugProvider)
	}

	debugRegistry.providers[name] = provider
}

// UnregisterDebugProvider removes a debug provider from the registry.
func UnregisterDebugProvider(name string) {
	debugRegistry.mu.Lock()
	defer debugRegistry.mu.Unlock()

	delete(debugRegistry.providers, name)
}

// handleDebugMonitor handles the /debug/monitor endpoint.
func handleDebugMonitor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)

		return
	}

	debugRegistry.mu.RLock()
	defer debugRegistry.mu.RUnlock()

	if len(debugRegistry.providers) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"no_providers_registered","message":"No monitors are registered for debugging"}`))

		return
	}

	response := make(map[string]interface{}, len(debugRegistry.providers))
	for name, provider := range debugRegistry.providers {
		response[name] = provider.GetDebugInfo()
	}

	w.Header().Set("Content-Type", "application/json")

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(response); err != nil {
		http.Error(w, "Failed to encode debug info", http.StatusInternalServerError)
	}
}

// SetupMetricsEndpoint starts an HTTP server to expose metrics.
// This should be called once at application startup.
func SetupMetricsEndpoint(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/debug/monitor", handleDebugMonitor)

	server := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.For("metrics").Errorw("Metrics endpoint failed", zap.Error(err))
		}
	}()

	return server
}

// IncLogEntry increments the log entry counter for a severity.
func IncLogEntry(severity string) {
	logEntriesTotal.WithLabelValues(severity).Inc()
}

// IncLogEviction increments the eviction counter.
func IncLogEviction() {
	logEvictionsTotal.Inc()
}

// IncFaultInjection increments the injection counter for a fault kind.
func IncFaultInjection(faultKind string) {
	faultInjectionsTotal.WithLabelValues(faultKind).Inc()
}

// IncDroppedFaultRecord increments the drop counter of the fault history.
func IncDroppedFaultRecord() {
	droppedFaultRecordsTotal.Inc()
}

// IncRecovery increments the completed-recovery counter.
func IncRecovery() {
	recoveriesTotal.Inc()
}

// IncWatchdogTimeout increments the watchdog stale-window counter.
func IncWatchdogTimeout() {
	watchdogTimeoutsTotal.Inc()
}

// SetHealthGauges updates the CPU and memory gauges.
func SetHealthGauges(cpu, memory float64) {
	cpuUsagePercent.Set(cpu)
	memoryUsagePercent.Set(memory)
}

// UpdateAvailabilityState updates the availability state gauge.
func UpdateAvailabilityState(state string) {
	availabilityState.Set(getStateValue(state))
}

// getStateValue converts a state name to a numeric value for the metric.
func getStateValue(state string) float64 {
	switch state {
	case "init":
		return 0
	case "running":
		return 1
	case "fault":
		return 2
	case "recovery":
		return 3
	case "shutdown":
		return 4
	default:
		return -1 // Unknown state
	}
}
