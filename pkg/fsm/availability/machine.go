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

// Package availability holds the lifecycle state machine of the fault
// monitor. The machine is the single owner of the availability state: every
// transition goes through a named event, and illegal events are rejected with
// an error instead of being silently ignored.
package availability

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/united-manufacturing-hub/faultmon/pkg/logger"
	"github.com/united-manufacturing-hub/faultmon/pkg/metrics"
	"github.com/united-manufacturing-hub/faultmon/pkg/standarderrors"
)

// Availability states. Shutdown is terminal: no event leaves it.
const (
	StateInit     = "init"
	StateRunning  = "running"
	StateFault    = "fault"
	StateRecovery = "recovery"
	StateShutdown = "shutdown"
)

// Availability events.
const (
	EventSetupComplete     = "setup_complete"
	EventFaultDetected     = "fault_detected"
	EventRecoveryStarted   = "recovery_started"
	EventRecoverySucceeded = "recovery_succeeded"
	EventShutdown          = "shutdown"
)

// Machine wraps the lifecycle FSM. It is not safe for concurrent use; the
// control loop is the only caller.
type Machine struct {
	fsm *fsm.FSM
	log *zap.SugaredLogger
}

// NewMachine creates a machine in the init state.
func NewMachine() *Machine {
	m := &Machine{
		log: logger.For(logger.ComponentStateMachine),
	}

	m.fsm = fsm.NewFSM(
		StateInit,
		fsm.Events{
			{Name: EventSetupComplete, Src: []string{StateInit}, Dst: StateRunning},
			{Name: EventFaultDetected, Src: []string{StateRunning}, Dst: StateFault},
			{Name: EventRecoveryStarted, Src: []string{StateFault}, Dst: StateRecovery},
			{Name: EventRecoverySucceeded, Src: []string{StateRecovery}, Dst: StateRunning},
			{Name: EventShutdown, Src: []string{StateInit, StateRunning, StateFault, StateRecovery}, Dst: StateShutdown},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				m.log.Infof("Availability state: %s -> %s (event: %s)", e.Src, e.Dst, e.Event)
				metrics.UpdateAvailabilityState(e.Dst)
			},
		},
	)

	metrics.UpdateAvailabilityState(StateInit)

	return m
}

// Current returns the current availability state.
func (m *Machine) Current() string {
	return m.fsm.Current()
}

// Is reports whether the machine is in the given state.
func (m *Machine) Is(state string) bool {
	return m.fsm.Is(state)
}

// SetupComplete moves init -> running once initialization has finished.
func (m *Machine) SetupComplete(ctx context.Context) error {
	return m.transition(ctx, EventSetupComplete)
}

// FaultDetected moves running -> fault.
func (m *Machine) FaultDetected(ctx context.Context) error {
	return m.transition(ctx, EventFaultDetected)
}

// RecoveryStarted moves fault -> recovery.
func (m *Machine) RecoveryStarted(ctx context.Context) error {
	return m.transition(ctx, EventRecoveryStarted)
}

// RecoverySucceeded moves recovery -> running.
func (m *Machine) RecoverySucceeded(ctx context.Context) error {
	return m.transition(ctx, EventRecoverySucceeded)
}

// Shutdown moves any non-terminal state -> shutdown.
func (m *Machine) Shutdown(ctx context.Context) error {
	return m.transition(ctx, EventShutdown)
}

func (m *Machine) transition(ctx context.Context, event string) error {
	current := m.fsm.Current()

	if err := m.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("%w: event %s rejected in state %s: %v",
			standarderrors.ErrInvalidState, event, current, err)
	}

	return nil
}
