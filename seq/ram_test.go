package seq

import (
	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("PulseRAM", func() {
	var ram *PulseRAM

	ginkgo.BeforeEach(func() {
		ram = NewPulseRAM(64)
	})

	ginkgo.It("should load cells and reset the cursor", func() {
		Expect(ram.Load([]uint64{1, 2, 3})).To(Succeed())
		Expect(ram.Length()).To(Equal(3))
		Expect(ram.Cursor()).To(Equal(0))
	})

	ginkgo.It("should refuse loading past capacity", func() {
		cells := make([]uint64, 65)
		err := ram.Load(cells)
		Expect(IsFault(err, FaultOutOfRange)).To(BeTrue())
	})

	ginkgo.It("should read sequentially and advance the cursor", func() {
		Expect(ram.Load([]uint64{10, 20, 30})).To(Succeed())

		v, err := ram.Read()
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(uint64(10)))

		v, _ = ram.Read()
		Expect(v).To(Equal(uint64(20)))
		Expect(ram.Cursor()).To(Equal(2))
	})

	ginkgo.It("should reset the cursor with SetAddress", func() {
		Expect(ram.Load([]uint64{10, 20, 30})).To(Succeed())
		_, _ = ram.Read()
		_, _ = ram.Read()

		Expect(ram.SetAddress(1)).To(Succeed())
		v, _ := ram.Read()
		Expect(v).To(Equal(uint64(20)))
	})

	ginkgo.It("should reject an address past capacity", func() {
		err := ram.SetAddress(64)
		Expect(IsFault(err, FaultOutOfRange)).To(BeTrue())
	})

	ginkgo.It("should fault on reading past the loaded region", func() {
		Expect(ram.Load([]uint64{10})).To(Succeed())
		_, _ = ram.Read()

		_, err := ram.Read()
		Expect(IsFault(err, FaultCursorOverrun)).To(BeTrue())
	})

	ginkgo.It("should consume exactly count*3 cells for a pulse train", func() {
		Expect(ram.Load([]uint64{
			2,
			90, 100, 50,
			180, 0, 25,
		})).To(Succeed())

		records, err := ram.ReadPulseTrain()
		Expect(err).ToNot(HaveOccurred())
		Expect(records).To(HaveLen(2))
		Expect(ram.Cursor()).To(Equal(7))

		Expect(records[0]).To(Equal(PulseRecord{
			Phase: 90, GapCycles: 100, PulseCycles: 50,
		}))
		Expect(records[1]).To(Equal(PulseRecord{
			Phase: 180, GapCycles: 0, PulseCycles: 25,
		}))
	})

	ginkgo.It("should fault when the count cell promises more records than loaded",
		func() {
			Expect(ram.Load([]uint64{3, 90, 100, 50})).To(Succeed())

			_, err := ram.ReadPulseTrain()
			Expect(IsFault(err, FaultCursorOverrun)).To(BeTrue())
		})

	ginkgo.It("should play an empty train without consuming record cells", func() {
		Expect(ram.Load([]uint64{0, 99})).To(Succeed())

		records, err := ram.ReadPulseTrain()
		Expect(err).ToNot(HaveOccurred())
		Expect(records).To(BeEmpty())
		Expect(ram.Cursor()).To(Equal(1))
	})
})
