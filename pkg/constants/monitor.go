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

package constants

import "time"

const (
	// DefaultTickerTime is the interval between control loop iterations.
	// This value balances responsiveness to operator commands with CPU
	// utilization of the polling loop.
	DefaultTickerTime = 100 * time.Millisecond

	// DefaultLogCapacity is the maximum number of entries the log store
	// retains. On overflow the single oldest entry is evicted first.
	DefaultLogCapacity = 1000

	// DefaultFaultHistoryCapacity is the maximum number of fault records the
	// fault history retains. Once full, new records are silently dropped:
	// the history is append-only within capacity.
	DefaultFaultHistoryCapacity = 50

	// WatchdogTimeout defines when the watchdog considers the control loop
	// stale. If no completed iteration has refreshed the watchdog for this
	// duration, exactly one critical log is emitted per stale window.
	WatchdogTimeout = 5 * time.Second

	// DefaultRecoveryLatency is the simulated time a recovery attempt takes
	// between the recovery and running transitions.
	DefaultRecoveryLatency = 2 * time.Second

	// DefaultLogFilePath is the append-only text sink the log store is
	// flushed to at shutdown.
	DefaultLogFilePath = "system_debug.log"

	// DefaultMetricsPort is the port of the /metrics and /debug/monitor
	// HTTP endpoints.
	DefaultMetricsPort = 8081

	// FaultEmissionInterval throttles the active fault's periodic log
	// emission: only every Nth injector tick produces a log line.
	FaultEmissionInterval = 5

	// CPUCriticalPercent and MemoryCriticalPercent are the gauge thresholds
	// above which the health check raises an error-severity log.
	CPUCriticalPercent    = 90.0
	MemoryCriticalPercent = 85.0

	// DefaultInstanceName is the default name for the monitor instance.
	DefaultInstanceName = "Core"

	// RecentLogWindow is the number of trailing log entries included in the
	// operator debug report.
	RecentLogWindow = 5
)
