package seq

// A Context carries the engine sub-state a stage body may touch: the
// scheduler for register staging, the parameter table, and the pulse RAM.
type Context struct {
	Sched  *Scheduler
	Params *ParameterTable
	RAM    *PulseRAM
}

// A PresenceCheck samples a counter after its stage and re-executes the stage
// while the count stays below the threshold, within a bounded retry budget.
// Exhausting the budget aborts the run with AbortCode.
type PresenceCheck struct {
	// Channel is the readout channel to sample.
	Channel int

	// ThresholdParam names the parameter holding the presence threshold.
	ThresholdParam string

	// MaxRepeatParam names the parameter holding the retry budget.
	MaxRepeatParam string

	// AbortCode is emitted when the budget is exhausted.
	AbortCode ExitCode
}

// A PulseTrain configures RAM-driven playback for a stage. The stage reads a
// record count at Address, then plays each (phase, gap, pulse) record by
// programming the phase onto DDSChannel, firing TriggerMask, and gating
// PulseShutter for the pulse window.
type PulseTrain struct {
	Address      int
	DDSChannel   int
	TriggerMask  uint64
	PulseShutter uint64
}

// A Readout samples a counter after the stage's hold and persists the value
// through the reporter.
type Readout struct {
	Channel int
}

// A Stage is one named step of the per-trial sequence. A stage whose duration
// parameter evaluates to a non-positive value is skipped entirely: no
// register staging, no commit, no readout.
type Stage struct {
	Name string

	// DurationParam names the parameter giving the stage hold duration in
	// seconds. Stages driven by a PulseTrain leave it empty; their timing
	// comes from the RAM records.
	DurationParam string

	// Setup stages the stage-specific register writes before the commit.
	Setup func(*Context) error

	// Cleanup stages the inverse-mask writes after the hold. They ride into
	// the next segment's commit.
	Cleanup func(*Context) error

	Check      *PresenceCheck
	PulseTrain *PulseTrain
	Readout    *Readout
}

// A Program is one compiled experiment sequence: declared parameters, the
// ordered stage list executed once per trial, and the trial count per scan
// point.
type Program struct {
	Name string

	// Parameters declares the table entries with their defaults. Scan
	// points may only rebind declared names.
	Parameters []Parameter

	// Stages run in order, once per trial.
	Stages []Stage

	// ExperimentsParam names the parameter holding the trial count per scan
	// point.
	ExperimentsParam string
}

// declareInto seeds a parameter table with the program's declarations.
func (p *Program) declareInto(t *ParameterTable) {
	for _, param := range p.Parameters {
		t.Declare(param.Name, param.Value, param.Unit)
	}
}
