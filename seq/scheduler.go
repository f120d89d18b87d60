package seq

// A CommitRecord describes one committed timeline segment. It is the item
// passed to commit hooks and to the hardware backend.
type CommitRecord struct {
	ID  string
	Seq uint64

	// Time is the logical time at which the segment committed, Duration the
	// hold requested with it.
	Time     TimeInSec
	Duration TimeInSec

	// Shutter is the composite shutter register after the commit; SetMask
	// and ClearMask are the staged deltas that produced it.
	Shutter   uint64
	SetMask   uint64
	ClearMask uint64

	// DDS lists the channel updates applied to the programmed banks, in
	// staging order.
	DDS []DDSUpdate

	// TriggerMask holds the trigger bits fired by this commit, zero if none.
	TriggerMask uint64

	// ArmedChannel is the counter binding after the commit (NoChannel when
	// disarmed); CounterCleared reports a clear was applied.
	ArmedChannel   int
	CounterCleared bool
}

// A Backend receives committed register state and realizes holds in real
// time. The default virtual backend does neither, which keeps the engine
// fully deterministic for tests and dry runs.
type Backend interface {
	// Apply pushes one committed segment to the hardware.
	Apply(commit CommitRecord) error

	// Hold blocks for the given duration of hardware time.
	Hold(d TimeInSec) error
}

// A CountSource produces the detection events a counter accumulates while
// armed. Implementations may be scripted (tests) or backed by hardware
// readback.
type CountSource interface {
	// Counts returns the number of events on the readout channel within
	// the half-open interval [start, end).
	Counts(channel int, start, end TimeInSec) uint64
}

type virtualBackend struct{}

func (virtualBackend) Apply(CommitRecord) error { return nil }
func (virtualBackend) Hold(TimeInSec) error     { return nil }

type zeroCountSource struct{}

func (zeroCountSource) Counts(int, TimeInSec, TimeInSec) uint64 { return 0 }

// A Scheduler owns the register file and the current timeline segment. It
// commits staged writes atomically at Update calls, advancing the logical
// clock, in a total order consistent with program order.
type Scheduler struct {
	HookableBase

	clock        Freq
	now          TimeInSec
	regs         *RegisterFile
	segment      *TimelineSegment
	backend      Backend
	source       CountSource
	strictArming bool

	commitSeq  uint64
	terminated bool
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithBackend attaches a hardware backend to the scheduler.
func WithBackend(b Backend) SchedulerOption {
	return func(s *Scheduler) { s.backend = b }
}

// WithCountSource attaches the event source counters accumulate from.
func WithCountSource(src CountSource) SchedulerOption {
	return func(s *Scheduler) { s.source = src }
}

// WithStrictArming makes re-arming an armed counter a CounterAlreadyArmed
// fault instead of a silent rebind.
func WithStrictArming() SchedulerOption {
	return func(s *Scheduler) { s.strictArming = true }
}

// NewScheduler creates a scheduler driving a fresh register file on the given
// hardware clock.
func NewScheduler(clock Freq, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		clock:   clock,
		regs:    NewRegisterFile(),
		segment: newTimelineSegment(),
		backend: virtualBackend{},
		source:  zeroCountSource{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Now returns the current logical time.
func (s *Scheduler) Now() TimeInSec {
	return s.now
}

// Clock returns the hardware clock frequency.
func (s *Scheduler) Clock() Freq {
	return s.clock
}

// Registers exposes the committed register state. Callers must not mutate it.
func (s *Scheduler) Registers() *RegisterFile {
	return s.regs
}

// Terminated reports whether the engine has entered terminal state.
func (s *Scheduler) Terminated() bool {
	return s.terminated
}

// Terminate puts the scheduler into terminal state. Every staging or commit
// attempt afterwards fails with EngineTerminated.
func (s *Scheduler) Terminate() {
	s.terminated = true
}

func (s *Scheduler) guard(op string) error {
	if s.terminated {
		return NewFault(FaultEngineTerminated,
			"%s after engine terminated", op)
	}
	return nil
}

// StageShutter stages an OR of the mask onto the composite shutter register.
func (s *Scheduler) StageShutter(mask uint64) error {
	if err := s.guard("set_shutter"); err != nil {
		return err
	}
	s.segment.stageShutter(mask)
	return nil
}

// StageInvShutter stages an AND-complement of the mask onto the composite
// shutter register.
func (s *Scheduler) StageInvShutter(mask uint64) error {
	if err := s.guard("set_inv_shutter"); err != nil {
		return err
	}
	s.segment.stageInvShutter(mask)
	return nil
}

// StageDDS stages a partial update to one synthesizer channel.
func (s *Scheduler) StageDDS(update DDSUpdate) error {
	if err := s.guard("set_dds"); err != nil {
		return err
	}
	s.segment.stageDDS(update)
	return nil
}

// StageTrigger stages a one-shot trigger pulse.
func (s *Scheduler) StageTrigger(mask uint64) error {
	if err := s.guard("set_trigger"); err != nil {
		return err
	}
	s.segment.stageTrigger(mask)
	return nil
}

// StageCounter stages arming the counter against a readout channel.
func (s *Scheduler) StageCounter(channel int) error {
	if err := s.guard("set_counter"); err != nil {
		return err
	}
	s.segment.stageCounter(channel)
	return nil
}

// StageClearCounter stages disarming and resetting the counter.
func (s *Scheduler) StageClearCounter() error {
	if err := s.guard("clear_counter"); err != nil {
		return err
	}
	s.segment.stageClearCounter()
	return nil
}

// LoadCount returns the last committed counter value for the channel. Values
// staged but not yet committed are never visible here.
func (s *Scheduler) LoadCount(channel int) uint64 {
	return s.regs.Count(channel)
}

// Update commits the current timeline segment atomically, advances the
// logical clock by d, and holds the committed state for d. Commit order is
// counters, then shutter masks, then DDS registers, then triggers, so that a
// trigger fired in the same segment as a DDS write always applies the new
// parameters.
func (s *Scheduler) Update(d TimeInSec) error {
	if err := s.guard("update"); err != nil {
		return err
	}

	if d < 0 {
		return NewFault(FaultTimingViolation,
			"negative hold duration %.12f", float64(d))
	}
	if _, onGrid := s.clock.Cycles(d); !onGrid {
		return NewFault(FaultTimingViolation,
			"duration %.12f not representable on a %.0f Hz clock",
			float64(d), float64(s.clock))
	}

	seg := s.segment
	rec := s.buildCommitRecord(seg, d)

	hookCtx := HookCtx{
		Domain: s,
		Pos:    HookPosBeforeCommit,
		Item:   rec,
	}
	s.InvokeHook(hookCtx)

	if err := s.commitCounters(seg); err != nil {
		return err
	}
	s.commitShutter(seg)
	s.commitDDS(seg)
	s.commitTrigger(seg)

	rec.Shutter = s.regs.Shutter
	rec.ArmedChannel = s.regs.ArmedChannel

	if err := s.backend.Apply(rec); err != nil {
		return err
	}

	s.accumulateCounts(d)

	s.now += d
	s.segment = newTimelineSegment()

	if err := s.backend.Hold(d); err != nil {
		return err
	}

	hookCtx.Pos = HookPosAfterCommit
	hookCtx.Item = rec
	s.InvokeHook(hookCtx)

	return nil
}

func (s *Scheduler) buildCommitRecord(
	seg *TimelineSegment,
	d TimeInSec,
) CommitRecord {
	s.commitSeq++

	rec := CommitRecord{
		ID:             GetIDGenerator().Generate(),
		Seq:            s.commitSeq,
		Time:           s.now,
		Duration:       d,
		SetMask:        seg.setMask,
		ClearMask:      seg.clearMask,
		TriggerMask:    seg.triggerMask,
		CounterCleared: seg.clearCounter,
	}

	for _, ch := range seg.ddsOrder {
		rec.DDS = append(rec.DDS, seg.dds[ch])
	}

	return rec
}

func (s *Scheduler) commitCounters(seg *TimelineSegment) error {
	if seg.clearCounter {
		if s.regs.Armed() {
			s.regs.Counts[s.regs.ArmedChannel] = 0
		}
		s.regs.ArmedChannel = NoChannel
	}

	if !seg.hasArm {
		return nil
	}

	if s.regs.Armed() && s.regs.ArmedChannel != seg.armChannel {
		if s.strictArming {
			return NewFault(FaultCounterArmed,
				"counter armed on channel %d, cannot re-arm on %d",
				s.regs.ArmedChannel, seg.armChannel)
		}

		s.InvokeHook(HookCtx{
			Domain: s,
			Pos:    HookPosCounterRebound,
			Item:   s.regs.ArmedChannel,
			Detail: seg.armChannel,
		})
	}

	s.regs.ArmedChannel = seg.armChannel
	s.regs.Counts[seg.armChannel] = 0

	return nil
}

func (s *Scheduler) commitShutter(seg *TimelineSegment) {
	s.regs.Shutter = (s.regs.Shutter | seg.setMask) &^ seg.clearMask
}

func (s *Scheduler) commitDDS(seg *TimelineSegment) {
	for _, chID := range seg.ddsOrder {
		ch := s.regs.Channel(chID)
		ch.Programmed = seg.dds[chID].applyTo(ch.Programmed)
	}
}

func (s *Scheduler) commitTrigger(seg *TimelineSegment) {
	if !seg.hasTrigger {
		return
	}

	for chID, ch := range s.regs.DDS {
		if seg.triggerMask&(1<<uint(chID)) != 0 {
			ch.Active = ch.Programmed
		}
	}

	s.regs.LastTriggerMask = seg.triggerMask
}

func (s *Scheduler) accumulateCounts(d TimeInSec) {
	if d == 0 || !s.regs.Armed() {
		return
	}

	ch := s.regs.ArmedChannel
	s.regs.Counts[ch] += s.source.Counts(ch, s.now, s.now+d)
}
