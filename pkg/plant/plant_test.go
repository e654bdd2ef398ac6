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

package plant_test

import (
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/united-manufacturing-hub/faultmon/pkg/models"
	"github.com/united-manufacturing-hub/faultmon/pkg/plant"
)

type reportCall struct {
	severity models.Severity
	kind     models.ErrorKind
	message  string
}

type recordingReporter struct {
	calls []reportCall
}

func (r *recordingReporter) Report(severity models.Severity, kind models.ErrorKind, message string) {
	r.calls = append(r.calls, reportCall{severity: severity, kind: kind, message: message})
}

func (r *recordingReporter) countKind(kind models.ErrorKind) int {
	count := 0

	for _, call := range r.calls {
		if call.kind == kind {
			count++
		}
	}

	return count
}

// scriptedSource replays a fixed sequence of Float64 outcomes, letting the
// tests steer the simulated randomness. math/rand/v2 derives Float64 from
// the low 53 bits of Uint64.
type scriptedSource struct {
	values []uint64
	next   int
}

func floatValue(f float64) uint64 {
	return uint64(f * (1 << 53))
}

func (s *scriptedSource) Uint64() uint64 {
	v := s.values[s.next%len(s.values)]
	s.next++

	return v
}

func scriptedRand(floats ...float64) *rand.Rand {
	values := make([]uint64, len(floats))
	for i, f := range floats {
		values[i] = floatValue(f)
	}

	return rand.New(&scriptedSource{values: values})
}

var _ = Describe("Plant", func() {
	var reporter *recordingReporter

	BeforeEach(func() {
		reporter = &recordingReporter{}
	})

	Describe("ReadSensor", func() {
		It("tolerates a failure run up to the threshold", func() {
			// Three failed reads, then a success.
			p := plant.New(reporter, scriptedRand(0, 0, 0, 0.9, 0.5))

			for i := 0; i < 3; i++ {
				_, ok := p.ReadSensor()
				Expect(ok).To(BeFalse())
			}

			Expect(reporter.countKind(models.ErrorKindSensorFailure)).To(BeZero())

			_, ok := p.ReadSensor()
			Expect(ok).To(BeTrue())
			Expect(p.SensorFailCount()).To(BeZero())
		})

		It("reports each consecutive failure past the threshold", func() {
			p := plant.New(reporter, scriptedRand(0))

			for i := 0; i < 6; i++ {
				_, ok := p.ReadSensor()
				Expect(ok).To(BeFalse())
			}

			// Failed reads four, five and six each report.
			Expect(reporter.countKind(models.ErrorKindSensorFailure)).To(Equal(3))
			Expect(reporter.calls[0].severity).To(Equal(models.SeverityError))
			Expect(p.SensorFailCount()).To(Equal(6))
		})

		It("ends the failure run only on a successful read", func() {
			// Four failures, one success, four more failures.
			p := plant.New(reporter, scriptedRand(0, 0, 0, 0, 0.9, 0.5, 0, 0, 0, 0))

			for i := 0; i < 4; i++ {
				p.ReadSensor()
			}

			Expect(reporter.countKind(models.ErrorKindSensorFailure)).To(Equal(1))

			_, ok := p.ReadSensor()
			Expect(ok).To(BeTrue())
			Expect(p.SensorFailCount()).To(BeZero())

			for i := 0; i < 4; i++ {
				p.ReadSensor()
			}

			Expect(reporter.countKind(models.ErrorKindSensorFailure)).To(Equal(2))
		})

		It("returns a reading centered around the setpoint on success", func() {
			p := plant.New(reporter, scriptedRand(0.9, 0.5))

			reading, ok := p.ReadSensor()
			Expect(ok).To(BeTrue())
			Expect(reading).To(BeNumerically("~", 50.0, 5.0))
		})
	})

	Describe("CommandActuator", func() {
		It("accepts in-range commands silently", func() {
			p := plant.New(reporter, scriptedRand(0.5))

			Expect(p.CommandActuator(0)).To(BeTrue())
			Expect(p.CommandActuator(50)).To(BeTrue())
			Expect(p.CommandActuator(100)).To(BeTrue())
			Expect(reporter.calls).To(BeEmpty())
		})

		It("rejects and reports out-of-range commands", func() {
			p := plant.New(reporter, scriptedRand(0.5))

			Expect(p.CommandActuator(-1)).To(BeFalse())
			Expect(p.CommandActuator(150)).To(BeFalse())

			Expect(reporter.countKind(models.ErrorKindInvalidState)).To(Equal(2))

			for _, call := range reporter.calls {
				Expect(call.severity).To(Equal(models.SeverityWarning))
			}
		})
	})

	Describe("ReadPower", func() {
		It("stays silent within tolerance", func() {
			// Centered ripple, no spike.
			p := plant.New(reporter, scriptedRand(0.5, 0.9))

			voltage := p.ReadPower()
			Expect(voltage).To(BeNumerically("~", 24.0, 1.0))
			Expect(reporter.calls).To(BeEmpty())
		})

		It("reports a fluctuation when a spike leaves the tolerance band", func() {
			// Centered ripple, spike triggered, near-maximal spike amplitude.
			p := plant.New(reporter, scriptedRand(0.5, 0.001, 0.999))

			voltage := p.ReadPower()
			Expect(voltage).To(BeNumerically(">", 26.0))
			Expect(reporter.countKind(models.ErrorKindPowerFluctuation)).To(Equal(1))
			Expect(reporter.calls[0].severity).To(Equal(models.SeverityWarning))
		})
	})
})
