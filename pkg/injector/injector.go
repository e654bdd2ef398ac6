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

// Package injector simulates hardware degradations for exercising the fault
// handling path. At most one fault is active at a time; activating a new one
// replaces the previous without resolving it.
package injector

import (
	"time"

	"github.com/google/uuid"

	"github.com/united-manufacturing-hub/faultmon/pkg/constants"
	"github.com/united-manufacturing-hub/faultmon/pkg/faulthistory"
	"github.com/united-manufacturing-hub/faultmon/pkg/metrics"
	"github.com/united-manufacturing-hub/faultmon/pkg/models"
)

// Reporter receives the log events the injector produces.
type Reporter interface {
	Report(severity models.Severity, kind models.ErrorKind, message string)
}

// Injector activates simulated faults and periodically announces the active
// one. The announcement is throttled: only every Nth tick of an active fault
// emits a log event, so a fast control loop does not flood the log store.
type Injector struct {
	history  *faulthistory.History
	reporter Reporter

	active models.FaultKind
	ticks  int
}

// New creates an injector recording faults into history and reporting log
// events to reporter.
func New(history *faulthistory.History, reporter Reporter) *Injector {
	return &Injector{
		history:  history,
		reporter: reporter,
		active:   models.FaultKindNone,
	}
}

// Activate starts simulating a fault of the given kind. The emission throttle
// restarts from zero. A fault record is appended to the history even when a
// previous fault is still active.
func (i *Injector) Activate(kind models.FaultKind) {
	if kind == models.FaultKindNone {
		return
	}

	i.active = kind
	i.ticks = 0

	i.history.Append(models.FaultRecord{
		ID:          uuid.New(),
		Timestamp:   time.Now(),
		Kind:        kind,
		ErrorKind:   kind.ErrorKind(),
		Resolved:    false,
		Description: "Injected fault: " + kind.String(),
	})

	i.reporter.Report(models.SeverityWarning, kind.ErrorKind(),
		"Fault injection activated: "+kind.String())

	metrics.IncFaultInjection(kind.String())
}

// Tick advances the emission throttle by one control loop iteration. Every
// Nth tick of an active fault reports the fault's announcement at the
// severity of its kind; all other ticks are silent.
func (i *Injector) Tick() {
	if i.active == models.FaultKindNone {
		return
	}

	i.ticks++
	if i.ticks%constants.FaultEmissionInterval != 0 {
		return
	}

	i.reporter.Report(i.active.EmissionSeverity(), i.active.ErrorKind(),
		i.active.EmissionMessage())
}

// Deactivate stops the active fault simulation. It does not resolve the
// history records; that is the recovery coordinator's job.
func (i *Injector) Deactivate() {
	i.active = models.FaultKindNone
	i.ticks = 0
}

// Active reports whether a fault simulation is running.
func (i *Injector) Active() bool {
	return i.active != models.FaultKindNone
}

// ActiveFault returns the kind of the active fault, or FaultKindNone.
func (i *Injector) ActiveFault() models.FaultKind {
	return i.active
}
