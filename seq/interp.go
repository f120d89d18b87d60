package seq

import "fmt"

// State is the interpreter state over one scan point.
type State int

// The interpreter states.
const (
	StateIdle State = iota
	StateBinding
	StateStageExecuting
	StateTrialLoop
	StateRetrying
	StatePulseTrainPlayback
	StateCompleted
	StateAborted
	StateTerminated
)

var stateNames = map[State]string{
	StateIdle:               "Idle",
	StateBinding:            "Binding",
	StateStageExecuting:     "StageExecuting",
	StateTrialLoop:          "TrialLoop",
	StateRetrying:           "Retrying",
	StatePulseTrainPlayback: "PulseTrainPlayback",
	StateCompleted:          "Completed",
	StateAborted:            "Aborted",
	StateTerminated:         "Terminated",
}

// String returns the state name.
func (s State) String() string {
	name, found := stateNames[s]
	if !found {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return name
}

// An Outcome summarizes a finished run.
type Outcome struct {
	// Code is the terminal exit code. It is only meaningful when the run
	// ended without an engine fault.
	Code ExitCode

	// Points is the number of scan points fully processed.
	Points int

	// Trials is the total number of trials executed.
	Trials int
}

// An Interpreter executes one compiled program against the scheduler, RAM,
// and scan feed. It owns the parameter table for the lifetime of the run and
// must not be shared between goroutines.
type Interpreter struct {
	HookableBase

	program  *Program
	sched    *Scheduler
	ram      *PulseRAM
	feed     Feed
	reporter Reporter
	params   *ParameterTable

	state     State
	trial     int
	abortCode ExitCode

	points int
	trials int
}

// NewInterpreter creates an interpreter for one program run.
func NewInterpreter(
	program *Program,
	sched *Scheduler,
	ram *PulseRAM,
	feed Feed,
	reporter Reporter,
) *Interpreter {
	return &Interpreter{
		program:  program,
		sched:    sched,
		ram:      ram,
		feed:     feed,
		reporter: reporter,
		params:   NewParameterTable(),
		state:    StateIdle,
	}
}

// State returns the current interpreter state.
func (i *Interpreter) State() State {
	return i.state
}

// Params returns the live parameter table of the run.
func (i *Interpreter) Params() *ParameterTable {
	return i.params
}

// Progress returns the number of scan points and trials finished so far.
func (i *Interpreter) Progress() (points, trials int) {
	return i.points, i.trials
}

func (i *Interpreter) context() *Context {
	return &Context{
		Sched:  i.sched,
		Params: i.params,
		RAM:    i.ram,
	}
}

// Run drives the state machine until the feed is exhausted, a domain abort
// occurs, or an engine fault halts the run. The returned error is non-nil
// only for engine faults and always dominates the outcome's exit code.
func (i *Interpreter) Run() (Outcome, error) {
	i.program.declareInto(i.params)

	for {
		switch i.state {
		case StateIdle:
			if !i.feed.HasNext() {
				return i.exit(ExitNormal)
			}
			i.state = StateBinding

		case StateBinding:
			point := i.feed.Next()
			if err := i.params.Bind(point); err != nil {
				return i.fault(err)
			}
			i.InvokeHook(HookCtx{
				Domain: i,
				Pos:    HookPosPointBound,
				Item:   point,
			})
			i.trial = 0
			i.state = StateTrialLoop

		case StateTrialLoop:
			experiments, err := i.experiments()
			if err != nil {
				return i.fault(err)
			}
			if i.trial >= experiments {
				i.points++
				i.state = StateIdle
				break
			}
			i.InvokeHook(HookCtx{
				Domain: i,
				Pos:    HookPosTrialStart,
				Item:   i.trial,
			})
			i.state = StateStageExecuting

		case StateStageExecuting:
			aborted, err := i.runTrial()
			if err != nil {
				return i.fault(err)
			}
			if aborted {
				i.state = StateAborted
				break
			}
			i.state = StateCompleted

		case StateCompleted:
			i.trial++
			i.trials++
			i.state = StateTrialLoop

		case StateAborted:
			return i.exit(i.abortCode)

		default:
			return i.fault(NewFault(FaultEngineTerminated,
				"interpreter in unexpected state %s", i.state))
		}
	}
}

// exit emits the terminal exit code and halts the engine.
func (i *Interpreter) exit(code ExitCode) (Outcome, error) {
	i.reporter.Exit(code)
	i.sched.Terminate()
	i.state = StateTerminated

	outcome := Outcome{Code: code, Points: i.points, Trials: i.trials}

	i.InvokeHook(HookCtx{
		Domain: i,
		Pos:    HookPosExit,
		Item:   code,
		Detail: outcome,
	})

	return outcome, nil
}

// fault halts the engine on a fatal fault. No exit code is emitted; the
// fault dominates any pending domain abort.
func (i *Interpreter) fault(err error) (Outcome, error) {
	i.sched.Terminate()
	i.state = StateTerminated

	outcome := Outcome{Points: i.points, Trials: i.trials}

	i.InvokeHook(HookCtx{
		Domain: i,
		Pos:    HookPosExit,
		Item:   err,
		Detail: outcome,
	})

	return outcome, err
}

func (i *Interpreter) experiments() (int, error) {
	if i.program.ExperimentsParam == "" {
		return 1, nil
	}

	v, err := i.params.Value(i.program.ExperimentsParam)
	if err != nil {
		return 0, err
	}

	return int(v), nil
}

// runTrial executes the stage sequence once. It reports whether the trial
// ended in a domain abort.
func (i *Interpreter) runTrial() (aborted bool, err error) {
	for s := range i.program.Stages {
		stage := &i.program.Stages[s]

		if stage.PulseTrain != nil {
			if err := i.playPulseTrain(stage); err != nil {
				return false, err
			}
			i.state = StateStageExecuting
			continue
		}

		aborted, err := i.runGuardedStage(stage)
		if err != nil {
			return false, err
		}
		if aborted {
			return true, nil
		}
	}

	return false, nil
}

// runGuardedStage runs one duration-guarded stage, honoring its presence
// check and readout. A non-positive duration skips the stage entirely.
func (i *Interpreter) runGuardedStage(stage *Stage) (aborted bool, err error) {
	duration, err := i.stageDuration(stage)
	if err != nil {
		return false, err
	}
	if duration <= 0 {
		return false, nil
	}

	if err := i.runStageOnce(stage, duration); err != nil {
		return false, err
	}

	if stage.Check != nil {
		aborted, err := i.checkPresence(stage, duration)
		if err != nil || aborted {
			return aborted, err
		}
	}

	if stage.Readout != nil {
		value := i.sched.LoadCount(stage.Readout.Channel)
		i.reporter.WriteResult(stage.Readout.Channel, value)
	}

	return false, nil
}

func (i *Interpreter) stageDuration(stage *Stage) (TimeInSec, error) {
	if stage.DurationParam == "" {
		return 0, nil
	}
	return i.params.Duration(stage.DurationParam)
}

// runStageOnce is one staging -> commit -> cleanup pass of a stage.
func (i *Interpreter) runStageOnce(stage *Stage, d TimeInSec) error {
	ctx := i.context()

	i.InvokeHook(HookCtx{
		Domain: i,
		Pos:    HookPosStageStart,
		Item:   stage.Name,
	})

	if stage.Setup != nil {
		if err := stage.Setup(ctx); err != nil {
			return err
		}
	}

	if err := i.sched.Update(d); err != nil {
		return err
	}

	if stage.Cleanup != nil {
		if err := stage.Cleanup(ctx); err != nil {
			return err
		}
	}

	i.InvokeHook(HookCtx{
		Domain: i,
		Pos:    HookPosStageEnd,
		Item:   stage.Name,
	})

	return nil
}

// checkPresence re-executes the stage while the sampled count stays below
// the threshold, within the retry budget. Exhausting the budget aborts.
func (i *Interpreter) checkPresence(
	stage *Stage,
	d TimeInSec,
) (aborted bool, err error) {
	check := stage.Check

	threshold, err := i.params.Value(check.ThresholdParam)
	if err != nil {
		return false, err
	}

	budget := 0
	if check.MaxRepeatParam != "" {
		v, err := i.params.Value(check.MaxRepeatParam)
		if err != nil {
			return false, err
		}
		budget = int(v)
	}

	for i.sched.LoadCount(check.Channel) < uint64(threshold) {
		if budget == 0 {
			i.abortCode = check.AbortCode
			return true, nil
		}
		budget--

		i.state = StateRetrying
		if err := i.runStageOnce(stage, d); err != nil {
			return false, err
		}
	}

	i.state = StateStageExecuting

	return false, nil
}

// playPulseTrain reads the record count at the train's RAM address, then
// plays each record: phase update plus trigger, an optional gap wait, and an
// optional gated pulse. Zero-duration sub-waits issue no commit.
func (i *Interpreter) playPulseTrain(stage *Stage) error {
	train := stage.PulseTrain
	clock := i.sched.Clock()

	i.state = StatePulseTrainPlayback
	i.InvokeHook(HookCtx{
		Domain: i,
		Pos:    HookPosStageStart,
		Item:   stage.Name,
	})

	if err := i.ram.SetAddress(train.Address); err != nil {
		return err
	}

	records, err := i.ram.ReadPulseTrain()
	if err != nil {
		return err
	}

	for _, rec := range records {
		err := i.sched.StageDDS(DDSUpdate{
			Channel:  train.DDSChannel,
			Phase:    float64(rec.Phase),
			HasPhase: true,
		})
		if err != nil {
			return err
		}
		if err := i.sched.StageTrigger(train.TriggerMask); err != nil {
			return err
		}

		if gap := clock.CyclesToTime(rec.GapCycles); gap > 0 {
			if err := i.sched.Update(gap); err != nil {
				return err
			}
		}

		pulse := clock.CyclesToTime(rec.PulseCycles)
		if pulse == 0 {
			continue
		}

		if err := i.sched.StageShutter(train.PulseShutter); err != nil {
			return err
		}
		if err := i.sched.Update(pulse); err != nil {
			return err
		}
		if err := i.sched.StageInvShutter(train.PulseShutter); err != nil {
			return err
		}
	}

	i.InvokeHook(HookCtx{
		Domain: i,
		Pos:    HookPosStageEnd,
		Item:   stage.Name,
	})

	return nil
}
