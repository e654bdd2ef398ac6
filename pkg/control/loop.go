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

// Package control runs the single-threaded polling loop that drives the
// monitor. Every mutation of the monitoring state happens on this loop;
// concurrent readers see it only through the published snapshot.
package control

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/united-manufacturing-hub/faultmon/pkg/logger"
	"github.com/united-manufacturing-hub/faultmon/pkg/models"
	"github.com/united-manufacturing-hub/faultmon/pkg/monitor"
	"github.com/united-manufacturing-hub/faultmon/pkg/plant"
	"github.com/united-manufacturing-hub/faultmon/pkg/snapshot"
)

// Operator commands, one character each.
const (
	CommandInjectFault = 'f'
	CommandRecover     = 'r'
	CommandDebugReport = 'd'
	CommandQuit        = 'q'
)

// unknownCommandNotice is printed for any unmapped command character.
const unknownCommandNotice = "Unknown command. Use: f, r, d, q"

// CommandSource provides operator commands without blocking the loop. Poll
// returns the next pending command and true, or false when none is pending.
type CommandSource interface {
	Poll() (byte, bool)
}

// Loop is the control loop. Execute owns the monitor for its whole lifetime:
// no other goroutine may touch it.
type Loop struct {
	monitor   *monitor.Monitor
	plant     *plant.Plant
	snapshots *snapshot.Manager
	commands  CommandSource
	operator  io.Writer

	tickInterval time.Duration
	rng          *rand.Rand
	log          *zap.SugaredLogger
}

// NewLoop creates a control loop ticking every tickInterval. operator is
// where debug reports and command notices are printed.
func NewLoop(
	mon *monitor.Monitor,
	plt *plant.Plant,
	snapshots *snapshot.Manager,
	commands CommandSource,
	operator io.Writer,
	tickInterval time.Duration,
	rng *rand.Rand,
) *Loop {
	return &Loop{
		monitor:      mon,
		plant:        plt,
		snapshots:    snapshots,
		commands:     commands,
		operator:     operator,
		tickInterval: tickInterval,
		rng:          rng,
		log:          logger.For(logger.ComponentControlLoop),
	}
}

// Execute initializes the monitor and runs the loop until the context is
// cancelled or the operator quits, then performs an orderly shutdown and
// returns its result.
func (l *Loop) Execute(ctx context.Context) error {
	if err := l.monitor.Init(ctx); err != nil {
		return err
	}

	l.log.Infof("Control loop started, tick interval %s", l.tickInterval)

	ticker := time.NewTicker(l.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.monitor.Report(models.SeverityInfo, models.ErrorKindNone,
				"Shutdown requested by signal")

			// The loop's context is already cancelled; shutdown gets its own.
			return l.monitor.Shutdown(context.Background())
		case <-ticker.C:
			if quit := l.iterate(ctx); quit {
				return l.monitor.Shutdown(ctx)
			}
		}
	}
}

// iterate runs one loop iteration. It returns true when the operator
// requested shutdown.
func (l *Loop) iterate(ctx context.Context) bool {
	now := time.Now()

	l.monitor.CheckHealth(ctx, now)
	l.monitor.TickInjector()

	if cmd, ok := l.commands.Poll(); ok {
		if quit := l.handleCommand(ctx, cmd); quit {
			return true
		}
	}

	l.stepPlant()

	l.snapshots.UpdateSnapshot(l.monitor.DebugReport())

	// Refresh last: only a fully completed iteration counts as alive.
	l.monitor.RefreshWatchdog(now)

	return false
}

// handleCommand dispatches one operator command. It returns true for the
// quit command.
func (l *Loop) handleCommand(ctx context.Context, cmd byte) bool {
	switch cmd {
	case CommandInjectFault:
		kind := models.InjectableFaultKinds[l.rng.IntN(len(models.InjectableFaultKinds))]
		l.monitor.InjectFault(kind)
	case CommandRecover:
		if err := l.monitor.AttemptRecovery(ctx); err != nil {
			l.log.Errorw("Recovery attempt failed", zap.Error(err))
		}
	case CommandDebugReport:
		fmt.Fprint(l.operator, l.monitor.DebugReport().Render())
	case CommandQuit:
		l.monitor.Report(models.SeverityInfo, models.ErrorKindNone,
			"User requested system shutdown")

		return true
	default:
		fmt.Fprintln(l.operator, unknownCommandNotice)
	}

	return false
}

// stepPlant exercises the simulated subsystems once.
func (l *Loop) stepPlant() {
	if reading, ok := l.plant.ReadSensor(); ok {
		// Trivial proportional command toward the setpoint.
		l.plant.CommandActuator(clampCommand(reading))
	}

	l.plant.CheckCommunication()
	l.plant.ReadPower()
}

func clampCommand(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 100 {
		return 100
	}

	return v
}
