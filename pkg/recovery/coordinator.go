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

// Package recovery drives the fault -> recovery -> running path. A recovery
// attempt that starts always converges back to running: it deactivates the
// fault simulation, resolves every open fault record and settles the health
// gauges.
package recovery

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/united-manufacturing-hub/faultmon/pkg/faulthistory"
	"github.com/united-manufacturing-hub/faultmon/pkg/fsm/availability"
	"github.com/united-manufacturing-hub/faultmon/pkg/health"
	"github.com/united-manufacturing-hub/faultmon/pkg/injector"
	"github.com/united-manufacturing-hub/faultmon/pkg/metrics"
	"github.com/united-manufacturing-hub/faultmon/pkg/models"
)

// Reporter receives the log events a recovery attempt produces.
type Reporter interface {
	Report(severity models.Severity, kind models.ErrorKind, message string)
}

// Coordinator performs recovery attempts. It is driven by the control loop
// and is not safe for concurrent use.
type Coordinator struct {
	machine  *availability.Machine
	history  *faulthistory.History
	tracker  *health.Tracker
	injector *injector.Injector
	reporter Reporter

	latency time.Duration
	rng     *rand.Rand
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewCoordinator creates a coordinator. latency simulates the time the
// recovery work takes between the recovery and running transitions.
func NewCoordinator(
	machine *availability.Machine,
	history *faulthistory.History,
	tracker *health.Tracker,
	inj *injector.Injector,
	reporter Reporter,
	latency time.Duration,
	rng *rand.Rand,
) *Coordinator {
	return &Coordinator{
		machine:  machine,
		history:  history,
		tracker:  tracker,
		injector: inj,
		reporter: reporter,
		latency:  latency,
		rng:      rng,
		sleep:    sleepWithContext,
	}
}

// AttemptRecovery runs one recovery attempt. Outside the fault state it is a
// no-op that only logs; in the fault state a started attempt always
// converges the system back to running. Cancellation is observed only before
// the attempt starts: a shutdown request arriving mid-attempt waits for the
// attempt to finish. The returned error is reserved for cancellation
// observed before the start and for broken machine invariants.
func (c *Coordinator) AttemptRecovery(ctx context.Context) error {
	if !c.machine.Is(availability.StateFault) {
		c.reporter.Report(models.SeverityInfo, models.ErrorKindNone,
			"No faults to recover from")

		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// A started attempt must not be preempted.
	ctx = context.WithoutCancel(ctx)

	c.reporter.Report(models.SeverityInfo, models.ErrorKindNone,
		"Attempting fault recovery")

	c.injector.Deactivate()

	if err := c.machine.RecoveryStarted(ctx); err != nil {
		return err
	}

	c.tracker.RecordRecovery()

	for _, record := range c.history.ResolveAll() {
		c.reporter.Report(models.SeverityInfo, record.ErrorKind,
			"Fault resolved in recovery attempt: "+record.Kind.String())
	}

	if err := c.sleep(ctx, c.latency); err != nil {
		return err
	}

	if err := c.machine.RecoverySucceeded(ctx); err != nil {
		return err
	}

	c.tracker.ResetGaugesAfterRecovery(c.rng)

	c.reporter.Report(models.SeverityInfo, models.ErrorKindNone,
		"Fault recovery successful")

	metrics.IncRecovery()

	return nil
}

// SetSleep replaces the latency sleep. Tests use this to run recovery
// attempts without waiting.
func (c *Coordinator) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	c.sleep = sleep
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
