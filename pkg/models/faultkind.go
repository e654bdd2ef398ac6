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

package models

// FaultKind is the category of an injected degradation. It is distinct from
// but correlated with ErrorKind: a fault kind names what the test harness
// injects, the correlated error kind names the failure condition that the
// injection manifests as.
type FaultKind int

const (
	FaultKindNone FaultKind = iota
	FaultKindSensorNoise
	FaultKindActuatorFail
	FaultKindCommBreak
	FaultKindPowerSpike
	FaultKindMemoryLeak
)

// InjectableFaultKinds lists the fault kinds a harness may activate.
// FaultKindNone is deliberately absent.
var InjectableFaultKinds = []FaultKind{
	FaultKindSensorNoise,
	FaultKindActuatorFail,
	FaultKindCommBreak,
	FaultKindPowerSpike,
	FaultKindMemoryLeak,
}

// String returns the snake_case name of the fault kind.
func (k FaultKind) String() string {
	switch k {
	case FaultKindNone:
		return "none"
	case FaultKindSensorNoise:
		return "sensor_noise"
	case FaultKindActuatorFail:
		return "actuator_fail"
	case FaultKindCommBreak:
		return "comm_break"
	case FaultKindPowerSpike:
		return "power_spike"
	case FaultKindMemoryLeak:
		return "memory_leak"
	default:
		return "unknown"
	}
}

// ErrorKind returns the failure condition a fault kind manifests as.
func (k FaultKind) ErrorKind() ErrorKind {
	switch k {
	case FaultKindSensorNoise:
		return ErrorKindSensorFailure
	case FaultKindActuatorFail:
		return ErrorKindActuatorStuck
	case FaultKindCommBreak:
		return ErrorKindCommunicationLost
	case FaultKindPowerSpike:
		return ErrorKindPowerFluctuation
	case FaultKindMemoryLeak:
		return ErrorKindMemoryCorruption
	case FaultKindNone:
		return ErrorKindNone
	default:
		return ErrorKindNone
	}
}

// EmissionSeverity returns the severity at which an active fault of this
// kind periodically announces itself. Sensor, communication and power faults
// degrade the system; actuator faults are hard failures; memory faults are
// critical.
func (k FaultKind) EmissionSeverity() Severity {
	switch k {
	case FaultKindActuatorFail:
		return SeverityError
	case FaultKindMemoryLeak:
		return SeverityCritical
	case FaultKindSensorNoise, FaultKindCommBreak, FaultKindPowerSpike:
		return SeverityWarning
	case FaultKindNone:
		return SeverityDebug
	default:
		return SeverityWarning
	}
}

// EmissionMessage is the log line an active fault of this kind emits on its
// throttled tick.
func (k FaultKind) EmissionMessage() string {
	switch k {
	case FaultKindSensorNoise:
		return "Sensor noise simulation active"
	case FaultKindActuatorFail:
		return "Actuator failure simulation active"
	case FaultKindCommBreak:
		return "Communication break simulation active"
	case FaultKindPowerSpike:
		return "Power fluctuation simulation active"
	case FaultKindMemoryLeak:
		return "Memory corruption simulation active"
	default:
		return "No fault simulation active"
	}
}
