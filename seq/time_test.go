package seq

import (
	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Freq", func() {
	ginkgo.It("should get period", func() {
		var f = 1 * GHz
		Expect(f.Period()).To(BeNumerically("==", 1e-9))
	})

	ginkgo.It("should get this tick", func() {
		var f = 1 * Hz
		Expect(f.ThisTick(1)).To(BeNumerically("~", 1, 1e-12))
	})

	ginkgo.It("should get the next tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.000000001)).
			To(BeNumerically("~", 102.000000002, 1e-12))
	})

	ginkgo.It("should get the next tick, if currTime is not on a tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.0000000011)).
			To(BeNumerically("~", 102.000000002, 1e-12))
	})

	ginkgo.It("should get the n cycles later", func() {
		var f = 1 * GHz
		Expect(f.NCyclesLater(12, 102.000000001)).
			To(BeNumerically("~", 102.000000013, 1e-12))
	})

	ginkgo.It("should get the no-earlier-than time, on tick", func() {
		var f = 1 * GHz
		Expect(f.NoEarlierThan(102.00)).
			To(BeNumerically("~", 102.00, 1e-12))
	})

	ginkgo.It("should count cycles of an on-grid duration", func() {
		var f = 100 * MHz
		cycles, onGrid := f.Cycles(1e-3)
		Expect(onGrid).To(BeTrue())
		Expect(cycles).To(Equal(int64(100000)))
	})

	ginkgo.It("should flag an off-grid duration", func() {
		var f = 1 * MHz
		_, onGrid := f.Cycles(1.5e-7)
		Expect(onGrid).To(BeFalse())
	})

	ginkgo.It("should accept a zero duration", func() {
		var f = 100 * MHz
		cycles, onGrid := f.Cycles(0)
		Expect(onGrid).To(BeTrue())
		Expect(cycles).To(Equal(int64(0)))
	})

	ginkgo.It("should convert RAM cycle counts to time", func() {
		var f = 100 * MHz
		Expect(f.CyclesToTime(250)).To(BeNumerically("~", 2.5e-6, 1e-15))
	})
})
