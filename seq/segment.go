package seq

// A TimelineSegment accumulates register writes staged since the last commit.
// Staging is idempotent per register: the last write for a register wins
// within one segment, and a set immediately followed by an inverse set of the
// same mask cancels out entirely.
type TimelineSegment struct {
	setMask   uint64
	clearMask uint64

	dds      map[int]DDSUpdate
	ddsOrder []int

	triggerMask  uint64
	hasTrigger   bool
	armChannel   int
	hasArm       bool
	clearCounter bool
}

// newTimelineSegment creates an empty segment.
func newTimelineSegment() *TimelineSegment {
	return &TimelineSegment{
		dds:        make(map[int]DDSUpdate),
		armChannel: NoChannel,
	}
}

// Empty reports whether the segment carries no staged writes.
func (s *TimelineSegment) Empty() bool {
	return s.setMask == 0 && s.clearMask == 0 &&
		len(s.dds) == 0 && !s.hasTrigger &&
		!s.hasArm && !s.clearCounter
}

// stageShutter stages an OR of the mask onto the composite shutter register.
// Bits with a pending inverse set are cancelled rather than re-staged, so a
// set/inverse-set pair within one segment leaves the register untouched.
func (s *TimelineSegment) stageShutter(mask uint64) {
	cancelled := s.clearMask & mask
	s.clearMask &^= cancelled
	s.setMask |= mask &^ cancelled
}

// stageInvShutter stages an AND-complement of the mask onto the composite
// shutter register, cancelling pending sets of the same bits.
func (s *TimelineSegment) stageInvShutter(mask uint64) {
	cancelled := s.setMask & mask
	s.setMask &^= cancelled
	s.clearMask |= mask &^ cancelled
}

// stageDDS stages a partial channel update. Later writes win per field.
func (s *TimelineSegment) stageDDS(update DDSUpdate) {
	prev, found := s.dds[update.Channel]
	if !found {
		s.dds[update.Channel] = update
		s.ddsOrder = append(s.ddsOrder, update.Channel)
		return
	}
	s.dds[update.Channel] = prev.mergeWith(update)
}

// stageTrigger stages a one-shot trigger pulse. Triggers within one segment
// accumulate into a single mask.
func (s *TimelineSegment) stageTrigger(mask uint64) {
	s.triggerMask |= mask
	s.hasTrigger = true
}

// stageCounter stages arming the counter against a readout channel.
func (s *TimelineSegment) stageCounter(channel int) {
	s.armChannel = channel
	s.hasArm = true
}

// stageClearCounter stages disarming and resetting the counter. A clear
// staged after an arm drops the arm (last write wins).
func (s *TimelineSegment) stageClearCounter() {
	s.clearCounter = true
	s.hasArm = false
	s.armChannel = NoChannel
}
