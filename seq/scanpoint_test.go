package seq

import (
	"sync"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("PointQueue", func() {
	var q *PointQueue

	ginkgo.BeforeEach(func() {
		q = NewPointQueue()
	})

	ginkgo.It("should report empty before any push", func() {
		Expect(q.HasNext()).To(BeFalse())
	})

	ginkgo.It("should hand out points in enqueue order", func() {
		q.Push(ScanPoint{"f": 1})
		q.Push(ScanPoint{"f": 2})

		Expect(q.HasNext()).To(BeTrue())
		Expect(q.Next()).To(Equal(ScanPoint{"f": 1}))
		Expect(q.Next()).To(Equal(ScanPoint{"f": 2}))
		Expect(q.HasNext()).To(BeFalse())
	})

	ginkgo.It("should copy points on push", func() {
		p := ScanPoint{"f": 1}
		q.Push(p)
		p["f"] = 99

		Expect(q.Next()).To(Equal(ScanPoint{"f": 1}))
	})

	ginkgo.It("should tolerate a concurrent producer", func() {
		const n = 1000

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < n; i++ {
				q.Push(ScanPoint{"i": float64(i)})
			}
		}()

		drained := 0
		for drained < n {
			if q.HasNext() {
				_ = q.Next()
				drained++
			}
		}
		wg.Wait()

		Expect(q.HasNext()).To(BeFalse())
	})
})

var _ = ginkgo.Describe("ParameterTable", func() {
	var table *ParameterTable

	ginkgo.BeforeEach(func() {
		table = NewParameterTable()
		table.Declare("CoolingTime", 1e-3, UnitSecond)
		table.Declare("experiments", 100, UnitDimless)
	})

	ginkgo.It("should return declared values", func() {
		v, err := table.Value("CoolingTime")
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(1e-3))
	})

	ginkgo.It("should rebind declared parameters from a scan point", func() {
		Expect(table.Bind(ScanPoint{"CoolingTime": 2e-3})).To(Succeed())

		d, err := table.Duration("CoolingTime")
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(BeNumerically("==", 2e-3))
	})

	ginkgo.It("should refuse binding undeclared names", func() {
		err := table.Bind(ScanPoint{"Bogus": 1})
		Expect(IsFault(err, FaultBadParameter)).To(BeTrue())
	})

	ginkgo.It("should not apply any value of a rejected point", func() {
		err := table.Bind(ScanPoint{"CoolingTime": 9, "Bogus": 1})
		Expect(err).To(HaveOccurred())

		v, _ := table.Value("CoolingTime")
		Expect(v).To(Equal(1e-3))
	})

	ginkgo.It("should keep declaration order", func() {
		Expect(table.Names()).To(Equal([]string{
			"CoolingTime", "experiments",
		}))
	})
})
