package seq

// NoChannel marks an unarmed counter binding.
const NoChannel = -1

// A RegisterFile is the committed state of all logical hardware registers.
// Staged writes never appear here until the segment that carries them
// commits.
type RegisterFile struct {
	// Shutter is the composite shutter mask register. Each bit gates one
	// beam path.
	Shutter uint64

	// DDS holds the synthesizer channels, created lazily on first write.
	DDS map[int]*DDSChannel

	// Counts holds the last committed counter value per readout channel.
	Counts map[int]uint64

	// ArmedChannel is the readout channel the counter is currently armed
	// against, or NoChannel.
	ArmedChannel int

	// LastTriggerMask records the trigger bits fired by the most recent
	// commit that carried a trigger.
	LastTriggerMask uint64
}

// NewRegisterFile creates a register file with all registers at their reset
// values.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{
		DDS:          make(map[int]*DDSChannel),
		Counts:       make(map[int]uint64),
		ArmedChannel: NoChannel,
	}
}

// Channel returns the state of one DDS channel, creating it at reset values
// if it has never been written.
func (r *RegisterFile) Channel(id int) *DDSChannel {
	ch, found := r.DDS[id]
	if !found {
		ch = &DDSChannel{}
		r.DDS[id] = ch
	}
	return ch
}

// Count returns the last committed counter value for the given readout
// channel.
func (r *RegisterFile) Count(channel int) uint64 {
	return r.Counts[channel]
}

// Armed reports whether the counter is armed.
func (r *RegisterFile) Armed() bool {
	return r.ArmedChannel != NoChannel
}
