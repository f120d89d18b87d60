package seq

// HookPos defines the enum of possible hooking positions
type HookPos struct {
	Name string
}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable defines an object that accept Hooks
type Hookable interface {
	// AcceptHook registers a hook
	AcceptHook(hook Hook)
}

// HookPosBeforeCommit triggers right before a timeline segment commits.
var HookPosBeforeCommit = &HookPos{Name: "BeforeCommit"}

// HookPosAfterCommit triggers after a timeline segment has committed and its
// hold, if any, has elapsed.
var HookPosAfterCommit = &HookPos{Name: "AfterCommit"}

// HookPosCounterRebound triggers when a counter is re-armed onto a different
// readout channel while it is still armed.
var HookPosCounterRebound = &HookPos{Name: "CounterRebound"}

// HookPosPointBound triggers when a scan point has been bound into the
// parameter table.
var HookPosPointBound = &HookPos{Name: "PointBound"}

// HookPosTrialStart triggers at the beginning of each trial.
var HookPosTrialStart = &HookPos{Name: "TrialStart"}

// HookPosStageStart triggers before a stage stages its register writes.
var HookPosStageStart = &HookPos{Name: "StageStart"}

// HookPosStageEnd triggers after a stage's cleanup writes are staged.
var HookPosStageEnd = &HookPos{Name: "StageEnd"}

// HookPosExit triggers once when the interpreter reaches its terminal state.
var HookPosExit = &HookPos{Name: "Exit"}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other type that implement
// the Hookable interface.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase object
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.Hooks = make([]Hook, 0)
	return h
}

// AcceptHook register a hook
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook triggers the register Hooks
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
