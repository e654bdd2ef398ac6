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

package health

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/united-manufacturing-hub/faultmon/pkg/constants"
	"github.com/united-manufacturing-hub/faultmon/pkg/metrics"
	"github.com/united-manufacturing-hub/faultmon/pkg/models"
)

// Reporter receives the failure conditions a health check detects.
type Reporter interface {
	Report(severity models.Severity, kind models.ErrorKind, message string)
}

// Tracker owns the scalar health view of the system: usage gauges, fault and
// recovery counters and the watchdog. It is the only writer of these fields.
type Tracker struct {
	sampler  Sampler
	watchdog *Watchdog
	reporter Reporter

	uptime             time.Duration
	faultCount         uint32
	recoveryCount      uint32
	cpuUsagePercent    float64
	memoryUsagePercent float64
	lastHealthCheck    time.Time
}

// NewTracker creates a tracker sampling gauges from sampler and reporting
// failure conditions to reporter.
func NewTracker(sampler Sampler, watchdogTimeout time.Duration, reporter Reporter) *Tracker {
	return &Tracker{
		sampler:  sampler,
		watchdog: NewWatchdog(watchdogTimeout),
		reporter: reporter,
	}
}

// CheckHealth runs one health check at now: it advances uptime, samples and
// clamps the usage gauges, reports threshold violations and observes the
// watchdog. Gauges always end up in [0,100] regardless of what the sampler
// returned.
func (t *Tracker) CheckHealth(ctx context.Context, now time.Time) {
	if !t.lastHealthCheck.IsZero() {
		t.uptime += now.Sub(t.lastHealthCheck)
	}

	cpuPercent, memoryPercent, err := t.sampler.Sample(ctx)
	if err != nil {
		t.reporter.Report(models.SeverityWarning, models.ErrorKindNone,
			"Gauge sampling failed: "+err.Error())
	} else {
		t.cpuUsagePercent = clampPercent(cpuPercent)
		t.memoryUsagePercent = clampPercent(memoryPercent)
	}

	if t.cpuUsagePercent > constants.CPUCriticalPercent {
		t.reporter.Report(models.SeverityError, models.ErrorKindSystemOverload,
			"CPU usage critical")
	}

	if t.memoryUsagePercent > constants.MemoryCriticalPercent {
		t.reporter.Report(models.SeverityError, models.ErrorKindMemoryCorruption,
			"Memory usage critical")
	}

	if t.watchdog.Observe(now) {
		t.reporter.Report(models.SeverityCritical, models.ErrorKindWatchdogTimeout,
			"Watchdog timeout detected")
		metrics.IncWatchdogTimeout()
	}

	t.lastHealthCheck = now

	metrics.SetHealthGauges(t.cpuUsagePercent, t.memoryUsagePercent)
}

// RefreshWatchdog marks the control loop alive at now. The loop calls this
// after every completed iteration.
func (t *Tracker) RefreshWatchdog(now time.Time) {
	t.watchdog.Refresh(now)
}

// RecordFault counts one detected fault.
func (t *Tracker) RecordFault() {
	t.faultCount++
}

// RecordRecovery counts one completed recovery.
func (t *Tracker) RecordRecovery() {
	t.recoveryCount++
}

// ResetGaugesAfterRecovery settles the usage gauges to post-recovery levels:
// CPU in [15,35), memory in [25,50).
func (t *Tracker) ResetGaugesAfterRecovery(rng *rand.Rand) {
	t.cpuUsagePercent = 15.0 + rng.Float64()*20.0
	t.memoryUsagePercent = 25.0 + rng.Float64()*25.0

	metrics.SetHealthGauges(t.cpuUsagePercent, t.memoryUsagePercent)
}

// Snapshot returns the current health view. The availability state is owned
// by the state machine and filled in by the caller.
func (t *Tracker) Snapshot() models.HealthSnapshot {
	return models.HealthSnapshot{
		Uptime:             t.uptime,
		FaultCount:         t.faultCount,
		RecoveryCount:      t.recoveryCount,
		CPUUsagePercent:    t.cpuUsagePercent,
		MemoryUsagePercent: t.memoryUsagePercent,
		LastHealthCheck:    t.lastHealthCheck,
	}
}

// FaultCount returns the number of faults counted so far.
func (t *Tracker) FaultCount() uint32 {
	return t.faultCount
}

// RecoveryCount returns the number of recoveries counted so far.
func (t *Tracker) RecoveryCount() uint32 {
	return t.recoveryCount
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 100 {
		return 100
	}

	return v
}
