package seq

// A Reporter receives readout values and the terminal exit code of a run.
// Exit is the sole terminal operation; the engine issues no instruction after
// it.
type Reporter interface {
	// WriteResult persists one readout value for a detection channel.
	WriteResult(channel int, value uint64)

	// Exit flushes pending writes and records the terminal exit code.
	Exit(code ExitCode)
}

// NullReporter discards all results. It serves dry runs and tests that only
// care about timing.
type NullReporter struct{}

// WriteResult discards the value.
func (NullReporter) WriteResult(int, uint64) {}

// Exit discards the code.
func (NullReporter) Exit(ExitCode) {}
