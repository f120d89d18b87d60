package seq

import "fmt"

// FaultKind classifies engine faults. A fault indicates a malformed
// instruction stream or an unschedulable timing request. Faults are fatal:
// the engine halts without attempting further commits.
type FaultKind int

// The possible fault kinds.
const (
	FaultOutOfRange FaultKind = iota + 1
	FaultCursorOverrun
	FaultTimingViolation
	FaultEngineTerminated
	FaultCounterArmed
	FaultBadParameter
)

var faultKindNames = map[FaultKind]string{
	FaultOutOfRange:       "OutOfRange",
	FaultCursorOverrun:    "CursorOverrun",
	FaultTimingViolation:  "TimingViolation",
	FaultEngineTerminated: "EngineTerminated",
	FaultCounterArmed:     "CounterAlreadyArmed",
	FaultBadParameter:     "BadParameter",
}

// String returns the name of the fault kind.
func (k FaultKind) String() string {
	name, found := faultKindNames[k]
	if !found {
		return fmt.Sprintf("FaultKind(%d)", int(k))
	}
	return name
}

// A Fault is a fatal engine error. It is distinct from a domain-level abort,
// which terminates the run with an ExitCode instead.
type Fault struct {
	Kind   FaultKind
	Detail string
}

// NewFault creates a fault of the given kind with a formatted detail message.
func NewFault(kind FaultKind, format string, args ...interface{}) *Fault {
	return &Fault{
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
}

// Error returns the fault as a human-readable string.
func (f *Fault) Error() string {
	if f.Detail == "" {
		return f.Kind.String()
	}
	return f.Kind.String() + ": " + f.Detail
}

// IsFault reports whether err is an engine fault of the given kind.
func IsFault(err error, kind FaultKind) bool {
	fault, ok := err.(*Fault)
	return ok && fault.Kind == kind
}
