package recording

import (
	"fmt"
	"strconv"

	"github.com/seqlab/pulseseq/seq"
)

// readoutEntry is one persisted detection result.
type readoutEntry struct {
	Run       string
	Point     int
	Trial     int
	Channel   int
	Value     uint64
	TimeInSec float64
}

// A ReadoutWriter persists readout values and the terminal exit code of a
// run. It implements seq.Reporter, and doubles as an interpreter hook so
// every readout row carries its scan point and trial indices.
type ReadoutWriter struct {
	recorder Recorder
	runLog   *RunLog
	now      func() seq.TimeInSec
	runID    string

	point int
	trial int
}

// NewReadoutWriter creates a writer that records through the given recorder.
// now supplies the engine's logical time for each row; nil records zero.
func NewReadoutWriter(
	recorder Recorder,
	now func() seq.TimeInSec,
) *ReadoutWriter {
	if now == nil {
		now = func() seq.TimeInSec { return 0 }
	}

	w := &ReadoutWriter{
		recorder: recorder,
		runLog:   NewRunLog(recorder),
		now:      now,
		runID:    seq.GetIDGenerator().Generate(),
		point:    -1,
		trial:    -1,
	}

	w.recorder.CreateTable("readouts", readoutEntry{})
	w.runLog.Start()

	return w
}

// WriteResult persists one readout value.
func (w *ReadoutWriter) WriteResult(channel int, value uint64) {
	w.recorder.InsertData("readouts", readoutEntry{
		Run:       w.runID,
		Point:     w.point,
		Trial:     w.trial,
		Channel:   channel,
		Value:     value,
		TimeInSec: float64(w.now()),
	})
}

// Exit records the terminal exit code and flushes everything.
func (w *ReadoutWriter) Exit(code seq.ExitCode) {
	w.runLog.Record("Exit Code", strconv.FormatUint(uint64(code), 10))
	w.runLog.Record("Exit Label", code.String())
	w.runLog.End()
}

// RecordFault records a fatal engine fault, kept distinguishable from
// domain-level exit codes in the run log.
func (w *ReadoutWriter) RecordFault(err error) {
	w.runLog.Record("Engine Fault", fmt.Sprintf("%v", err))
	w.runLog.End()
}

// Func tracks scan point and trial transitions so readout rows can be
// attributed. Register the writer as a hook on the interpreter.
func (w *ReadoutWriter) Func(ctx seq.HookCtx) {
	switch ctx.Pos {
	case seq.HookPosPointBound:
		w.point++
		w.trial = -1
	case seq.HookPosTrialStart:
		w.trial = ctx.Item.(int)
	}
}
