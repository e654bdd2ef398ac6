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

package injector_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/united-manufacturing-hub/faultmon/pkg/constants"
	"github.com/united-manufacturing-hub/faultmon/pkg/faulthistory"
	"github.com/united-manufacturing-hub/faultmon/pkg/injector"
	"github.com/united-manufacturing-hub/faultmon/pkg/models"
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

func (r *recordingReporter) countSeverity(severity models.Severity) int {
	count := 0

	for _, call := range r.calls {
		if call.severity == severity {
			count++
		}
	}

	return count
}

var _ = Describe("Injector", func() {
	var (
		history  *faulthistory.History
		reporter *recordingReporter
		inj      *injector.Injector
	)

	BeforeEach(func() {
		history = faulthistory.New(10)
		reporter = &recordingReporter{}
		inj = injector.New(history, reporter)
	})

	Describe("Activate", func() {
		It("records the fault and announces the activation at warning", func() {
			inj.Activate(models.FaultKindSensorNoise)

			Expect(inj.Active()).To(BeTrue())
			Expect(inj.ActiveFault()).To(Equal(models.FaultKindSensorNoise))

			records := history.Records()
			Expect(records).To(HaveLen(1))
			Expect(records[0].Kind).To(Equal(models.FaultKindSensorNoise))
			Expect(records[0].ErrorKind).To(Equal(models.ErrorKindSensorFailure))
			Expect(records[0].Resolved).To(BeFalse())
			Expect(records[0].Description).To(ContainSubstring("sensor_noise"))

			Expect(reporter.calls).To(HaveLen(1))
			Expect(reporter.calls[0].severity).To(Equal(models.SeverityWarning))
		})

		It("ignores the none kind", func() {
			inj.Activate(models.FaultKindNone)

			Expect(inj.Active()).To(BeFalse())
			Expect(history.Len()).To(BeZero())
			Expect(reporter.calls).To(BeEmpty())
		})

		It("replaces the active fault and restarts the throttle", func() {
			inj.Activate(models.FaultKindSensorNoise)

			for i := 0; i < constants.FaultEmissionInterval-1; i++ {
				inj.Tick()
			}

			inj.Activate(models.FaultKindMemoryLeak)
			inj.Tick()

			// The pending window of the first fault must not carry over.
			Expect(reporter.countSeverity(models.SeverityCritical)).To(BeZero())
			Expect(inj.ActiveFault()).To(Equal(models.FaultKindMemoryLeak))
			Expect(history.Len()).To(Equal(2))
		})
	})

	Describe("Tick", func() {
		It("emits exactly one announcement per emission interval", func() {
			inj.Activate(models.FaultKindActuatorFail)
			reporter.calls = nil

			for i := 0; i < constants.FaultEmissionInterval; i++ {
				inj.Tick()
			}

			Expect(reporter.calls).To(HaveLen(1))
			Expect(reporter.calls[0].severity).To(Equal(models.SeverityError))
			Expect(reporter.calls[0].kind).To(Equal(models.ErrorKindActuatorStuck))
		})

		It("emits at the severity of the fault kind", func() {
			inj.Activate(models.FaultKindMemoryLeak)
			reporter.calls = nil

			for i := 0; i < constants.FaultEmissionInterval; i++ {
				inj.Tick()
			}

			Expect(reporter.calls).To(HaveLen(1))
			Expect(reporter.calls[0].severity).To(Equal(models.SeverityCritical))
		})

		It("is silent while no fault is active", func() {
			for i := 0; i < 3*constants.FaultEmissionInterval; i++ {
				inj.Tick()
			}

			Expect(reporter.calls).To(BeEmpty())
		})
	})

	Describe("Deactivate", func() {
		It("stops the emissions without touching the history", func() {
			inj.Activate(models.FaultKindCommBreak)
			reporter.calls = nil

			inj.Deactivate()

			for i := 0; i < 3*constants.FaultEmissionInterval; i++ {
				inj.Tick()
			}

			Expect(inj.Active()).To(BeFalse())
			Expect(reporter.calls).To(BeEmpty())
			Expect(history.Len()).To(Equal(1))
			Expect(history.Unresolved()).To(Equal(1))
		})
	})
})
