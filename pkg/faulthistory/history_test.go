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

package faulthistory_test

import (
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/united-manufacturing-hub/faultmon/pkg/faulthistory"
	"github.com/united-manufacturing-hub/faultmon/pkg/models"
)

func faultRecord(kind models.FaultKind) models.FaultRecord {
	return models.FaultRecord{
		ID:          uuid.New(),
		Timestamp:   time.Now(),
		Kind:        kind,
		ErrorKind:   kind.ErrorKind(),
		Description: "Injected fault: " + kind.String(),
	}
}

var _ = Describe("History", func() {
	var history *faulthistory.History

	BeforeEach(func() {
		history = faulthistory.New(2)
	})

	Context("when full", func() {
		It("drops new records instead of evicting old ones", func() {
			Expect(history.Append(faultRecord(models.FaultKindSensorNoise))).To(BeTrue())
			Expect(history.Append(faultRecord(models.FaultKindCommBreak))).To(BeTrue())
			Expect(history.Append(faultRecord(models.FaultKindPowerSpike))).To(BeFalse())

			records := history.Records()
			Expect(records).To(HaveLen(2))
			Expect(records[0].Kind).To(Equal(models.FaultKindSensorNoise))
			Expect(records[1].Kind).To(Equal(models.FaultKindCommBreak))
		})
	})

	Describe("ResolveAll", func() {
		It("resolves every unresolved record and returns them", func() {
			history.Append(faultRecord(models.FaultKindSensorNoise))
			history.Append(faultRecord(models.FaultKindMemoryLeak))

			resolved := history.ResolveAll()
			Expect(resolved).To(HaveLen(2))
			Expect(history.Unresolved()).To(BeZero())
		})

		It("is monotone: already resolved records are not returned again", func() {
			history.Append(faultRecord(models.FaultKindSensorNoise))
			Expect(history.ResolveAll()).To(HaveLen(1))

			history.Append(faultRecord(models.FaultKindActuatorFail))

			resolved := history.ResolveAll()
			Expect(resolved).To(HaveLen(1))
			Expect(resolved[0].Kind).To(Equal(models.FaultKindActuatorFail))

			for _, record := range history.Records() {
				Expect(record.Resolved).To(BeTrue())
			}
		})
	})

	It("bounds the description text", func() {
		record := faultRecord(models.FaultKindSensorNoise)
		record.Description = string(make([]byte, models.MaxDescriptionLength+10))

		Expect(history.Append(record)).To(BeTrue())
		Expect(history.Records()[0].Description).To(HaveLen(models.MaxDescriptionLength))
	})
})
