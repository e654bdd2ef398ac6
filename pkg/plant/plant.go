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

// Package plant simulates the controlled subsystems: sensors, an actuator,
// a communication link and a power rail. The plant is exercised once per
// control loop iteration and reports its failure conditions instead of
// returning errors.
package plant

import (
	"fmt"
	"math/rand/v2"

	"github.com/united-manufacturing-hub/faultmon/pkg/models"
)

const (
	// sensorFailureRate is the per-read chance of a transient sensor failure.
	sensorFailureRate = 0.05

	// sensorFailureThreshold is the number of consecutive failed reads above
	// which the sensor is reported failed.
	sensorFailureThreshold = 3

	// Power rail bounds in volts.
	nominalVoltage = 24.0
	minVoltage     = 22.0
	maxVoltage     = 26.0
)

// Reporter receives the failure conditions the plant detects.
type Reporter interface {
	Report(severity models.Severity, kind models.ErrorKind, message string)
}

// Plant holds the simulated subsystem state. A single transient sensor
// failure is tolerated; only a run of consecutive failures is reported.
type Plant struct {
	reporter Reporter
	rng      *rand.Rand

	sensorFailCount int
}

// New creates a plant reporting to reporter and randomized by rng.
func New(reporter Reporter, rng *rand.Rand) *Plant {
	return &Plant{
		reporter: reporter,
		rng:      rng,
	}
}

// ReadSensor simulates one sensor read. It returns the reading and whether
// the read succeeded. Every failed read past sensorFailureThreshold
// consecutive failures reports a sensor failure; the run ends only with a
// successful read.
func (p *Plant) ReadSensor() (float64, bool) {
	if p.rng.Float64() < sensorFailureRate {
		p.sensorFailCount++

		if p.sensorFailCount > sensorFailureThreshold {
			p.reporter.Report(models.SeverityError, models.ErrorKindSensorFailure,
				"Sensor failure detected")
		}

		return 0, false
	}

	p.sensorFailCount = 0

	// Reading centered around 50 with bounded noise.
	return 50.0 + (p.rng.Float64()-0.5)*10.0, true
}

// CommandActuator issues a position command in percent. Out-of-range commands
// are rejected and reported, in-range commands succeed.
func (p *Plant) CommandActuator(position float64) bool {
	if position < 0 || position > 100 {
		p.reporter.Report(models.SeverityWarning, models.ErrorKindInvalidState,
			fmt.Sprintf("Invalid actuator command: %.1f", position))

		return false
	}

	return true
}

// CheckCommunication verifies the communication link. The link itself is
// healthy; communication faults enter the system through the injector.
func (p *Plant) CheckCommunication() bool {
	return true
}

// ReadPower samples the power rail voltage, nominally 24 V with up to 1 V of
// ripple. Voltages outside [22,26] are reported as a power fluctuation.
func (p *Plant) ReadPower() float64 {
	voltage := nominalVoltage + (p.rng.Float64()-0.5)*2.0

	// Rare spikes push the rail out of tolerance.
	if p.rng.Float64() < 0.01 {
		voltage += (p.rng.Float64() - 0.5) * 10.0
	}

	if voltage < minVoltage || voltage > maxVoltage {
		p.reporter.Report(models.SeverityWarning, models.ErrorKindPowerFluctuation,
			fmt.Sprintf("Power fluctuation detected: %.2fV", voltage))
	}

	return voltage
}

// SensorFailCount returns the current run length of consecutive failed reads.
func (p *Plant) SensorFailCount() int {
	return p.sensorFailCount
}
