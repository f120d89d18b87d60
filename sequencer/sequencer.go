// Package sequencer wires the execution engine, result recording, and
// monitoring into one runnable unit.
package sequencer

import (
	"github.com/seqlab/pulseseq/monitoring"
	"github.com/seqlab/pulseseq/recording"
	"github.com/seqlab/pulseseq/seq"
)

// A Sequencer provides the services required to run compiled sequence
// programs against one set of hardware registers.
type Sequencer struct {
	id    string
	clock seq.Freq

	sched    *seq.Scheduler
	ram      *seq.PulseRAM
	feed     *seq.PointQueue
	recorder recording.Recorder
	reporter *recording.ReadoutWriter
	monitor  *monitoring.Monitor
}

// ID returns the unique identifier of this sequencer instance.
func (s *Sequencer) ID() string {
	return s.id
}

// Scheduler returns the timeline scheduler.
func (s *Sequencer) Scheduler() *seq.Scheduler {
	return s.sched
}

// Feed returns the scan-point queue. A host process may push points into it
// concurrently while a program runs.
func (s *Sequencer) Feed() *seq.PointQueue {
	return s.feed
}

// Recorder returns the result recorder.
func (s *Sequencer) Recorder() recording.Recorder {
	return s.recorder
}

// Monitor returns the monitor, nil when monitoring is disabled.
func (s *Sequencer) Monitor() *monitoring.Monitor {
	return s.monitor
}

// LoadRAM pre-populates the pulse RAM with the given cells.
func (s *Sequencer) LoadRAM(cells []uint64) error {
	return s.ram.Load(cells)
}

// Run executes one compiled program until the feed is exhausted, the program
// aborts, or an engine fault halts the run. Faults are recorded in the run
// log and returned.
func (s *Sequencer) Run(program *seq.Program) (seq.Outcome, error) {
	interp := seq.NewInterpreter(program, s.sched, s.ram, s.feed, s.reporter)
	interp.AcceptHook(s.reporter)

	if s.monitor != nil {
		s.monitor.RegisterInterpreter(interp)

		bar := s.monitor.CreateProgressBar(program.Name, uint64(s.feed.Len()))
		interp.AcceptHook(progressHook{bar: bar})
	}

	outcome, err := interp.Run()
	if err != nil {
		s.reporter.RecordFault(err)
	}

	return outcome, err
}

// Terminate flushes and closes the result recorder.
func (s *Sequencer) Terminate() {
	s.recorder.Close()
}

// progressHook advances a monitor progress bar as scan points are bound.
type progressHook struct {
	bar *monitoring.ProgressBar
}

func (h progressHook) Func(ctx seq.HookCtx) {
	if ctx.Pos == seq.HookPosPointBound {
		h.bar.IncrementFinished(1)
	}
}
