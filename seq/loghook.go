package seq

import (
	"log"
)

// A LogHook is a hook that is responsible for recording information from a
// running sequence.
type LogHook interface {
	Hook
}

// LogHookBase provides the common logic for all LogHooks
type LogHookBase struct {
	*log.Logger
}

// CommitLogger is a hook that prints every committed timeline segment.
type CommitLogger struct {
	LogHookBase
}

// NewCommitLogger returns a CommitLogger which will write into the logger.
func NewCommitLogger(logger *log.Logger) *CommitLogger {
	h := new(CommitLogger)
	h.Logger = logger
	return h
}

// Func writes the commit information into the logger
func (h *CommitLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosAfterCommit {
		return
	}

	rec, ok := ctx.Item.(CommitRecord)
	if !ok {
		return
	}

	h.Logger.Printf("%.10f, commit %d, hold %.10f, shutter %#x, trigger %#x",
		rec.Time, rec.Seq, rec.Duration, rec.Shutter, rec.TriggerMask)
}

// StageLogger is a hook that prints interpreter stage and trial transitions.
type StageLogger struct {
	LogHookBase
}

// NewStageLogger returns a StageLogger which will write into the logger.
func NewStageLogger(logger *log.Logger) *StageLogger {
	h := new(StageLogger)
	h.Logger = logger
	return h
}

// Func writes the transition into the logger
func (h *StageLogger) Func(ctx HookCtx) {
	switch ctx.Pos {
	case HookPosPointBound:
		h.Logger.Printf("scan point bound: %v", ctx.Item)
	case HookPosTrialStart:
		h.Logger.Printf("trial %d", ctx.Item)
	case HookPosStageStart:
		h.Logger.Printf("stage %s start", ctx.Item)
	case HookPosStageEnd:
		h.Logger.Printf("stage %s end", ctx.Item)
	case HookPosCounterRebound:
		h.Logger.Printf("counter re-armed: channel %v -> %v",
			ctx.Item, ctx.Detail)
	case HookPosExit:
		h.Logger.Printf("exit: %v", ctx.Item)
	}
}
