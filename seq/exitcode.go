package seq

import "fmt"

// ExitCode is the terminal 64-bit sentinel a sequence run ends with. Once an
// exit code is emitted the engine performs no further hardware operations.
type ExitCode uint64

// Reserved exit codes. The all-ones sentinel denotes normal completion; low
// small integers denote categorized abnormal termination.
const (
	ExitNormal  ExitCode = 0xFFFFFFFFFFFFFFFF
	ExitIonLost ExitCode = 1
)

// IsNormal reports whether the code denotes normal completion.
func (c ExitCode) IsNormal() bool {
	return c == ExitNormal
}

// String returns the conventional label of the exit code.
func (c ExitCode) String() string {
	switch c {
	case ExitNormal:
		return "normal"
	case ExitIonLost:
		return "ion lost"
	}
	return fmt.Sprintf("exit(%d)", uint64(c))
}
