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

// ErrorKind categorizes an actual reported failure condition. It is a
// taxonomy, not a transport: every occurrence is reported through the log
// store, never silently dropped.
type ErrorKind int

const (
	ErrorKindNone ErrorKind = iota
	ErrorKindSensorFailure
	ErrorKindActuatorStuck
	ErrorKindCommunicationLost
	ErrorKindPowerFluctuation
	ErrorKindMemoryCorruption
	ErrorKindWatchdogTimeout
	ErrorKindInvalidState
	ErrorKindFileIOError
	ErrorKindSystemOverload
)

// String returns the snake_case name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNone:
		return "none"
	case ErrorKindSensorFailure:
		return "sensor_failure"
	case ErrorKindActuatorStuck:
		return "actuator_stuck"
	case ErrorKindCommunicationLost:
		return "communication_lost"
	case ErrorKindPowerFluctuation:
		return "power_fluctuation"
	case ErrorKindMemoryCorruption:
		return "memory_corruption"
	case ErrorKindWatchdogTimeout:
		return "watchdog_timeout"
	case ErrorKindInvalidState:
		return "invalid_state"
	case ErrorKindFileIOError:
		return "file_io_error"
	case ErrorKindSystemOverload:
		return "system_overload"
	default:
		return "unknown"
	}
}
