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

package availability_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/united-manufacturing-hub/faultmon/pkg/fsm/availability"
	"github.com/united-manufacturing-hub/faultmon/pkg/standarderrors"
)

var _ = Describe("Machine", func() {
	var (
		ctx     context.Context
		machine *availability.Machine
	)

	BeforeEach(func() {
		ctx = context.Background()
		machine = availability.NewMachine()
	})

	It("starts in init", func() {
		Expect(machine.Current()).To(Equal(availability.StateInit))
	})

	It("walks the full legal lifecycle", func() {
		Expect(machine.SetupComplete(ctx)).To(Succeed())
		Expect(machine.Current()).To(Equal(availability.StateRunning))

		Expect(machine.FaultDetected(ctx)).To(Succeed())
		Expect(machine.Current()).To(Equal(availability.StateFault))

		Expect(machine.RecoveryStarted(ctx)).To(Succeed())
		Expect(machine.Current()).To(Equal(availability.StateRecovery))

		Expect(machine.RecoverySucceeded(ctx)).To(Succeed())
		Expect(machine.Current()).To(Equal(availability.StateRunning))

		Expect(machine.Shutdown(ctx)).To(Succeed())
		Expect(machine.Current()).To(Equal(availability.StateShutdown))
	})

	It("supports repeated fault and recovery cycles", func() {
		Expect(machine.SetupComplete(ctx)).To(Succeed())

		for i := 0; i < 3; i++ {
			Expect(machine.FaultDetected(ctx)).To(Succeed())
			Expect(machine.RecoveryStarted(ctx)).To(Succeed())
			Expect(machine.RecoverySucceeded(ctx)).To(Succeed())
		}

		Expect(machine.Current()).To(Equal(availability.StateRunning))
	})

	It("rejects illegal events with a state error", func() {
		err := machine.FaultDetected(ctx)
		Expect(err).To(MatchError(standarderrors.ErrInvalidState))
		Expect(machine.Current()).To(Equal(availability.StateInit))
	})

	It("rejects recovery from running", func() {
		Expect(machine.SetupComplete(ctx)).To(Succeed())

		err := machine.RecoveryStarted(ctx)
		Expect(err).To(MatchError(standarderrors.ErrInvalidState))
		Expect(machine.Current()).To(Equal(availability.StateRunning))
	})

	It("allows shutdown from every non-terminal state", func() {
		for _, prepare := range []func(m *availability.Machine){
			func(m *availability.Machine) {},
			func(m *availability.Machine) {
				Expect(m.SetupComplete(ctx)).To(Succeed())
			},
			func(m *availability.Machine) {
				Expect(m.SetupComplete(ctx)).To(Succeed())
				Expect(m.FaultDetected(ctx)).To(Succeed())
			},
			func(m *availability.Machine) {
				Expect(m.SetupComplete(ctx)).To(Succeed())
				Expect(m.FaultDetected(ctx)).To(Succeed())
				Expect(m.RecoveryStarted(ctx)).To(Succeed())
			},
		} {
			m := availability.NewMachine()
			prepare(m)

			Expect(m.Shutdown(ctx)).To(Succeed())
			Expect(m.Current()).To(Equal(availability.StateShutdown))
		}
	})

	It("treats shutdown as terminal", func() {
		Expect(machine.Shutdown(ctx)).To(Succeed())

		Expect(machine.SetupComplete(ctx)).To(MatchError(standarderrors.ErrInvalidState))
		Expect(machine.Shutdown(ctx)).To(MatchError(standarderrors.ErrInvalidState))
		Expect(machine.Current()).To(Equal(availability.StateShutdown))
	})
})
