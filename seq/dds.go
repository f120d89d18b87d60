package seq

// DDSChannelState is the (frequency, phase, amplitude) tuple of one
// frequency-synthesizer channel.
type DDSChannelState struct {
	Frequency float64
	Phase     float64
	Amplitude float64
}

// A DDSUpdate is a partial update to one DDS channel. Fields without the
// corresponding Has flag set keep the channel's previous value.
type DDSUpdate struct {
	Channel int

	Frequency    float64
	HasFrequency bool

	Phase    float64
	HasPhase bool

	Amplitude    float64
	HasAmplitude bool
}

// applyTo merges the update into a channel state, leaving unspecified fields
// unchanged.
func (u DDSUpdate) applyTo(s DDSChannelState) DDSChannelState {
	if u.HasFrequency {
		s.Frequency = u.Frequency
	}
	if u.HasPhase {
		s.Phase = u.Phase
	}
	if u.HasAmplitude {
		s.Amplitude = u.Amplitude
	}
	return s
}

// mergeWith folds a later update for the same channel into this one. The
// later write wins per field.
func (u DDSUpdate) mergeWith(later DDSUpdate) DDSUpdate {
	if later.HasFrequency {
		u.Frequency = later.Frequency
		u.HasFrequency = true
	}
	if later.HasPhase {
		u.Phase = later.Phase
		u.HasPhase = true
	}
	if later.HasAmplitude {
		u.Amplitude = later.Amplitude
		u.HasAmplitude = true
	}
	return u
}

// DDSChannel holds the two register banks of one synthesizer channel. A
// commit writes staged updates into the programmed bank; a trigger latches
// the programmed bank into the active bank that drives the output.
type DDSChannel struct {
	Programmed DDSChannelState
	Active     DDSChannelState
}
