package seq

import (
	"errors"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var errLinkDown = errors.New("link down")

// fixedCounts delivers a constant number of events per armed hold.
type fixedCounts struct {
	perHold uint64
}

func (s fixedCounts) Counts(int, TimeInSec, TimeInSec) uint64 {
	return s.perHold
}

var _ = ginkgo.Describe("Scheduler", func() {
	var (
		sched *Scheduler
	)

	ginkgo.BeforeEach(func() {
		sched = NewScheduler(100*MHz,
			WithCountSource(fixedCounts{perHold: 7}))
	})

	ginkgo.It("should start at time zero with reset registers", func() {
		Expect(sched.Now()).To(BeNumerically("==", 0))
		Expect(sched.Registers().Shutter).To(Equal(uint64(0)))
		Expect(sched.Registers().Armed()).To(BeFalse())
	})

	ginkgo.It("should not show staged writes before commit", func() {
		Expect(sched.StageShutter(0b0110)).To(Succeed())
		Expect(sched.Registers().Shutter).To(Equal(uint64(0)))

		Expect(sched.Update(0)).To(Succeed())
		Expect(sched.Registers().Shutter).To(Equal(uint64(0b0110)))
	})

	ginkgo.It("should advance the logical clock by exactly the hold", func() {
		Expect(sched.Update(1e-3)).To(Succeed())
		Expect(sched.Update(2.5e-6)).To(Succeed())
		Expect(sched.Now()).To(BeNumerically("~", 1.0025e-3, 1e-12))
	})

	ginkgo.It("should treat set followed by inverse set of the same mask as a no-op",
		func() {
			Expect(sched.StageShutter(0b1010)).To(Succeed())
			Expect(sched.Update(0)).To(Succeed())
			before := sched.Registers().Shutter

			Expect(sched.StageShutter(0b0010)).To(Succeed())
			Expect(sched.StageInvShutter(0b0010)).To(Succeed())
			Expect(sched.Update(0)).To(Succeed())

			Expect(sched.Registers().Shutter).To(Equal(before))
		})

	ginkgo.It("should apply OR and AND-complement shutter semantics", func() {
		Expect(sched.StageShutter(0b1100)).To(Succeed())
		Expect(sched.Update(0)).To(Succeed())

		Expect(sched.StageShutter(0b0001)).To(Succeed())
		Expect(sched.StageInvShutter(0b0100)).To(Succeed())
		Expect(sched.Update(0)).To(Succeed())

		Expect(sched.Registers().Shutter).To(Equal(uint64(0b1001)))
	})

	ginkgo.It("should let the last DDS write per field win within a segment", func() {
		Expect(sched.StageDDS(DDSUpdate{
			Channel: 3, Frequency: 10e6, HasFrequency: true,
			Phase: 90, HasPhase: true,
		})).To(Succeed())
		Expect(sched.StageDDS(DDSUpdate{
			Channel: 3, Phase: 180, HasPhase: true,
		})).To(Succeed())
		Expect(sched.Update(0)).To(Succeed())

		ch := sched.Registers().Channel(3)
		Expect(ch.Programmed.Frequency).To(Equal(10e6))
		Expect(ch.Programmed.Phase).To(Equal(180.0))
	})

	ginkgo.It("should keep unspecified DDS fields unchanged across commits", func() {
		Expect(sched.StageDDS(DDSUpdate{
			Channel: 1, Frequency: 5e6, HasFrequency: true,
			Amplitude: 0.5, HasAmplitude: true,
		})).To(Succeed())
		Expect(sched.Update(0)).To(Succeed())

		Expect(sched.StageDDS(DDSUpdate{
			Channel: 1, Phase: 45, HasPhase: true,
		})).To(Succeed())
		Expect(sched.Update(0)).To(Succeed())

		ch := sched.Registers().Channel(1)
		Expect(ch.Programmed.Frequency).To(Equal(5e6))
		Expect(ch.Programmed.Amplitude).To(Equal(0.5))
		Expect(ch.Programmed.Phase).To(Equal(45.0))
	})

	ginkgo.It("should apply new DDS parameters to a trigger in the same segment",
		func() {
			Expect(sched.StageDDS(DDSUpdate{
				Channel: 2, Frequency: 7e6, HasFrequency: true,
			})).To(Succeed())
			Expect(sched.StageTrigger(1 << 2)).To(Succeed())
			Expect(sched.Update(0)).To(Succeed())

			ch := sched.Registers().Channel(2)
			Expect(ch.Active.Frequency).To(Equal(7e6))
		})

	ginkgo.It("should not latch untriggered channels", func() {
		Expect(sched.StageDDS(DDSUpdate{
			Channel: 2, Frequency: 7e6, HasFrequency: true,
		})).To(Succeed())
		Expect(sched.StageDDS(DDSUpdate{
			Channel: 5, Frequency: 9e6, HasFrequency: true,
		})).To(Succeed())
		Expect(sched.StageTrigger(1 << 2)).To(Succeed())
		Expect(sched.Update(0)).To(Succeed())

		Expect(sched.Registers().Channel(2).Active.Frequency).To(Equal(7e6))
		Expect(sched.Registers().Channel(5).Active.Frequency).To(Equal(0.0))
	})

	ginkgo.It("should accumulate counts only while armed", func() {
		Expect(sched.Update(1e-3)).To(Succeed())
		Expect(sched.LoadCount(0)).To(Equal(uint64(0)))

		Expect(sched.StageCounter(0)).To(Succeed())
		Expect(sched.Update(1e-3)).To(Succeed())
		Expect(sched.LoadCount(0)).To(Equal(uint64(7)))

		Expect(sched.Update(1e-3)).To(Succeed())
		Expect(sched.LoadCount(0)).To(Equal(uint64(14)))
	})

	ginkgo.It("should reset the count when the counter is cleared", func() {
		Expect(sched.StageCounter(0)).To(Succeed())
		Expect(sched.Update(1e-3)).To(Succeed())
		Expect(sched.LoadCount(0)).To(Equal(uint64(7)))

		Expect(sched.StageClearCounter()).To(Succeed())
		Expect(sched.Update(0)).To(Succeed())

		Expect(sched.LoadCount(0)).To(Equal(uint64(0)))
		Expect(sched.Registers().Armed()).To(BeFalse())
	})

	ginkgo.It("should never expose a staged counter arm through LoadCount", func() {
		Expect(sched.StageCounter(4)).To(Succeed())
		Expect(sched.LoadCount(4)).To(Equal(uint64(0)))
		Expect(sched.Registers().Armed()).To(BeFalse())
	})

	ginkgo.It("should reject a negative hold", func() {
		err := sched.Update(-1e-6)
		Expect(IsFault(err, FaultTimingViolation)).To(BeTrue())
	})

	ginkgo.It("should reject a hold that is off the clock grid", func() {
		err := sched.Update(1.5e-9)
		Expect(IsFault(err, FaultTimingViolation)).To(BeTrue())
	})

	ginkgo.It("should refuse staging after termination", func() {
		sched.Terminate()

		Expect(IsFault(sched.StageShutter(1), FaultEngineTerminated)).
			To(BeTrue())
		Expect(IsFault(sched.Update(0), FaultEngineTerminated)).
			To(BeTrue())
	})

	ginkgo.It("should invoke commit hooks in program order", func() {
		var seqs []uint64
		sched.AcceptHook(hookFunc(func(ctx HookCtx) {
			if ctx.Pos != HookPosAfterCommit {
				return
			}
			seqs = append(seqs, ctx.Item.(CommitRecord).Seq)
		}))

		Expect(sched.Update(0)).To(Succeed())
		Expect(sched.Update(1e-6)).To(Succeed())
		Expect(sched.Update(0)).To(Succeed())

		Expect(seqs).To(Equal([]uint64{1, 2, 3}))
	})
})

var _ = ginkgo.Describe("Scheduler counter arming", func() {
	ginkgo.It("should fault on re-arming when strict", func() {
		sched := NewScheduler(100*MHz, WithStrictArming())

		Expect(sched.StageCounter(0)).To(Succeed())
		Expect(sched.Update(0)).To(Succeed())

		Expect(sched.StageCounter(1)).To(Succeed())
		err := sched.Update(0)
		Expect(IsFault(err, FaultCounterArmed)).To(BeTrue())
	})

	ginkgo.It("should rebind last-write-wins when not strict", func() {
		sched := NewScheduler(100 * MHz)

		rebinds := 0
		sched.AcceptHook(hookFunc(func(ctx HookCtx) {
			if ctx.Pos == HookPosCounterRebound {
				rebinds++
			}
		}))

		Expect(sched.StageCounter(0)).To(Succeed())
		Expect(sched.Update(0)).To(Succeed())

		Expect(sched.StageCounter(1)).To(Succeed())
		Expect(sched.Update(0)).To(Succeed())

		Expect(sched.Registers().ArmedChannel).To(Equal(1))
		Expect(rebinds).To(Equal(1))
	})
})

var _ = ginkgo.Describe("Scheduler with a backend", func() {
	var (
		mockCtrl *gomock.Controller
		backend  *MockBackend
		sched    *Scheduler
	)

	ginkgo.BeforeEach(func() {
		mockCtrl = gomock.NewController(ginkgo.GinkgoT())
		backend = NewMockBackend(mockCtrl)
		sched = NewScheduler(100*MHz, WithBackend(backend))
	})

	ginkgo.AfterEach(func() {
		mockCtrl.Finish()
	})

	ginkgo.It("should push the committed state and hold in order", func() {
		apply := backend.EXPECT().
			Apply(gomock.Any()).
			DoAndReturn(func(rec CommitRecord) error {
				Expect(rec.Shutter).To(Equal(uint64(0b11)))
				Expect(rec.Duration).To(BeNumerically("~", 1e-3, 1e-12))
				return nil
			})
		backend.EXPECT().
			Hold(TimeInSec(1e-3)).
			Return(nil).
			After(apply)

		Expect(sched.StageShutter(0b11)).To(Succeed())
		Expect(sched.Update(1e-3)).To(Succeed())
	})

	ginkgo.It("should surface backend failures", func() {
		backend.EXPECT().Apply(gomock.Any()).Return(errLinkDown)

		Expect(sched.Update(0)).To(MatchError(errLinkDown))
	})
})

// hookFunc adapts a function to the Hook interface for tests.
type hookFunc func(ctx HookCtx)

func (f hookFunc) Func(ctx HookCtx) { f(ctx) }
