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

// Package monitor aggregates the fault monitoring subsystem: log store,
// fault history, health tracker, availability state machine, fault injector
// and recovery coordinator. The monitor is the single reporting funnel —
// every failure condition enters the system through Report, and Report is
// the sole path that escalates the availability state to fault.
package monitor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/united-manufacturing-hub/faultmon/pkg/config"
	"github.com/united-manufacturing-hub/faultmon/pkg/constants"
	"github.com/united-manufacturing-hub/faultmon/pkg/faulthistory"
	"github.com/united-manufacturing-hub/faultmon/pkg/fsm/availability"
	"github.com/united-manufacturing-hub/faultmon/pkg/health"
	"github.com/united-manufacturing-hub/faultmon/pkg/injector"
	"github.com/united-manufacturing-hub/faultmon/pkg/logger"
	"github.com/united-manufacturing-hub/faultmon/pkg/logstore"
	"github.com/united-manufacturing-hub/faultmon/pkg/models"
	"github.com/united-manufacturing-hub/faultmon/pkg/recovery"
	"github.com/united-manufacturing-hub/faultmon/pkg/standarderrors"
)

// Monitor owns the monitoring subsystem. It is driven by the single-threaded
// control loop and is not safe for concurrent use.
type Monitor struct {
	store       *logstore.Store
	history     *faulthistory.History
	tracker     *health.Tracker
	machine     *availability.Machine
	injector    *injector.Injector
	coordinator *recovery.Coordinator

	logFilePath string
	logFile     *os.File

	log *zap.SugaredLogger
}

// New wires a monitor from cfg. rng drives the simulated gauges and the
// post-recovery gauge reset.
func New(cfg config.Config, rng *rand.Rand) *Monitor {
	m := &Monitor{
		logFilePath: cfg.LogFilePath,
		log:         logger.For(logger.ComponentMonitor),
	}

	m.store = logstore.New(cfg.LogCapacity, logstore.NewZapSink(logger.For(logger.ComponentOperator)))
	m.history = faulthistory.New(cfg.FaultHistoryCapacity)

	var sampler health.Sampler = health.NewSimulatedSampler(rng)
	if cfg.UseSystemGauges {
		sampler = health.NewSystemSampler()
	}

	m.tracker = health.NewTracker(sampler, cfg.WatchdogTimeout, m)
	m.machine = availability.NewMachine()
	m.injector = injector.New(m.history, m)
	m.coordinator = recovery.NewCoordinator(
		m.machine, m.history, m.tracker, m.injector, m, cfg.RecoveryLatency, rng)

	return m
}

// Init opens the log file and moves the system to running. A log file that
// cannot be opened is reported and the monitor falls back to console-only
// operation; it is not fatal.
func (m *Monitor) Init(ctx context.Context) error {
	file, err := os.OpenFile(m.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		m.Reportf(models.SeverityWarning, models.ErrorKindFileIOError,
			"Failed to open log file %s: %v", m.logFilePath, err)
	} else {
		m.logFile = file
	}

	m.Report(models.SeverityInfo, models.ErrorKindNone, "Monitor initialized")

	if err := m.machine.SetupComplete(ctx); err != nil {
		return err
	}

	m.Report(models.SeverityInfo, models.ErrorKindNone,
		"System transitioned to running state")

	return nil
}

// Report records a failure condition or operational event: the entry is
// stamped with the caller's origin and appended to the log store. Entries of
// severity Error and above count as a detected fault and, when the system is
// running, escalate it to the fault state. This is the sole escalation path.
func (m *Monitor) Report(severity models.Severity, kind models.ErrorKind, message string) {
	m.report(3, severity, kind, message)
}

// Reportf is Report with fmt.Sprintf formatting.
func (m *Monitor) Reportf(severity models.Severity, kind models.ErrorKind, format string, args ...interface{}) {
	m.report(3, severity, kind, fmt.Sprintf(format, args...))
}

func (m *Monitor) report(skip int, severity models.Severity, kind models.ErrorKind, message string) {
	entry := models.LogEntry{
		Timestamp: time.Now(),
		Severity:  severity,
		Kind:      kind,
		Message:   message,
		Origin:    callerOrigin(skip),
	}

	m.store.Append(entry)

	if severity < models.SeverityError {
		return
	}

	m.tracker.RecordFault()

	if m.machine.Is(availability.StateRunning) {
		if err := m.machine.FaultDetected(context.Background()); err != nil {
			m.log.Errorw("Fault escalation failed", zap.Error(err))

			return
		}

		m.report(2, models.SeverityWarning, models.ErrorKindNone,
			"System entered fault state")
	}
}

// InjectFault activates a simulated fault of the given kind.
func (m *Monitor) InjectFault(kind models.FaultKind) {
	m.injector.Activate(kind)
}

// TickInjector advances the fault injector by one loop iteration.
func (m *Monitor) TickInjector() {
	m.injector.Tick()
}

// CheckHealth runs one health check at now.
func (m *Monitor) CheckHealth(ctx context.Context, now time.Time) {
	m.tracker.CheckHealth(ctx, now)
}

// RefreshWatchdog marks the control loop alive at now.
func (m *Monitor) RefreshWatchdog(now time.Time) {
	m.tracker.RefreshWatchdog(now)
}

// AttemptRecovery runs one recovery attempt.
func (m *Monitor) AttemptRecovery(ctx context.Context) error {
	return m.coordinator.AttemptRecovery(ctx)
}

// State returns the current availability state.
func (m *Monitor) State() string {
	return m.machine.Current()
}

// FaultHistory returns a copy of all fault records.
func (m *Monitor) FaultHistory() []models.FaultRecord {
	return m.history.Records()
}

// DebugReport builds the operator-facing diagnostic view: health counters,
// the trailing log window (oldest first) and the full fault history.
func (m *Monitor) DebugReport() *models.DebugReport {
	snapshot := m.tracker.Snapshot()

	return &models.DebugReport{
		State:              m.machine.Current(),
		Uptime:             snapshot.Uptime,
		FaultCount:         snapshot.FaultCount,
		RecoveryCount:      snapshot.RecoveryCount,
		CPUUsagePercent:    snapshot.CPUUsagePercent,
		MemoryUsagePercent: snapshot.MemoryUsagePercent,
		RecentLogs:         m.store.Recent(constants.RecentLogWindow),
		FaultHistory:       m.history.Records(),
		GeneratedAt:        time.Now(),
	}
}

// Shutdown flushes the log store to the log file and moves the system to the
// terminal shutdown state. The flush and close always run; their failures
// are reported but do not abort the shutdown. Shutting down from the fault
// state is a broken invariant: it is reported Critical, the shutdown still
// completes, and the distinguished unrecoverable error is returned so the
// boundary layer decides how to react.
func (m *Monitor) Shutdown(ctx context.Context) error {
	m.Report(models.SeverityInfo, models.ErrorKindNone, "System shutting down")

	if m.logFile == nil {
		m.Report(models.SeverityError, models.ErrorKindFileIOError,
			"Log file not available")
	} else {
		if err := m.store.Flush(m.logFile); err != nil {
			m.Reportf(models.SeverityError, models.ErrorKindFileIOError,
				"Failed to flush log store: %v", err)
		}

		if err := m.logFile.Close(); err != nil {
			m.Reportf(models.SeverityWarning, models.ErrorKindFileIOError,
				"Failed to close log file: %v", err)
		}

		m.logFile = nil
	}

	if m.machine.Is(availability.StateFault) {
		m.Report(models.SeverityCritical, models.ErrorKindInvalidState,
			"System shutdown with unresolved faults")

		if err := m.machine.Shutdown(ctx); err != nil {
			return standarderrors.NewUnrecoverableError(err)
		}

		return standarderrors.NewUnrecoverableError(standarderrors.ErrShutdownWithUnresolvedFaults)
	}

	if err := m.machine.Shutdown(ctx); err != nil {
		return standarderrors.NewUnrecoverableError(err)
	}

	return nil
}

// callerOrigin resolves the reporting call site skip frames up the stack.
func callerOrigin(skip int) models.Origin {
	pc, _, line, ok := runtime.Caller(skip)
	if !ok {
		return models.Origin{Function: "unknown"}
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return models.Origin{Function: "unknown", Line: line}
	}

	name := fn.Name()
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	return models.Origin{Function: name, Line: line}
}
