package main

import (
	"fmt"

	"github.com/seqlab/pulseseq/seq"
)

// ParameterConfig declares one sequence parameter with its default value.
type ParameterConfig struct {
	Name  string  `koanf:"name" yaml:"name"`
	Value float64 `koanf:"value" yaml:"value"`
	Unit  string  `koanf:"unit" yaml:"unit"`
}

// DDSConfig programs one DDS channel during a stage. Each field names the
// parameter supplying the value; empty names leave that register untouched.
type DDSConfig struct {
	Channel        int    `koanf:"channel" yaml:"channel"`
	FrequencyParam string `koanf:"frequencyparam" yaml:"frequencyparam"`
	PhaseParam     string `koanf:"phaseparam" yaml:"phaseparam"`
	AmplitudeParam string `koanf:"amplitudeparam" yaml:"amplitudeparam"`
}

// CheckConfig adds an ion-presence check to a stage.
type CheckConfig struct {
	Channel        int    `koanf:"channel" yaml:"channel"`
	ThresholdParam string `koanf:"thresholdparam" yaml:"thresholdparam"`
	MaxRepeatParam string `koanf:"maxrepeatparam" yaml:"maxrepeatparam"`
}

// PulseTrainConfig plays a RAM-stored pulse train as the stage body.
type PulseTrainConfig struct {
	Address      int    `koanf:"address" yaml:"address"`
	DDSChannel   int    `koanf:"ddschannel" yaml:"ddschannel"`
	TriggerMask  uint64 `koanf:"triggermask" yaml:"triggermask"`
	PulseShutter uint64 `koanf:"pulseshutter" yaml:"pulseshutter"`
}

// StageConfig describes one stage of the per-trial sequence.
type StageConfig struct {
	Name          string            `koanf:"name" yaml:"name"`
	DurationParam string            `koanf:"durationparam" yaml:"durationparam"`
	Shutter       uint64            `koanf:"shutter" yaml:"shutter"`
	Trigger       uint64            `koanf:"trigger" yaml:"trigger"`
	DDS           *DDSConfig        `koanf:"dds" yaml:"dds,omitempty"`
	Counter       *int              `koanf:"counter" yaml:"counter,omitempty"`
	Check         *CheckConfig      `koanf:"check" yaml:"check,omitempty"`
	PulseTrain    *PulseTrainConfig `koanf:"pulsetrain" yaml:"pulsetrain,omitempty"`
}

// ProgramConfig is the declarative form of a sequence program.
type ProgramConfig struct {
	Name             string            `koanf:"name" yaml:"name"`
	ExperimentsParam string            `koanf:"experimentsparam" yaml:"experimentsparam"`
	Parameters       []ParameterConfig `koanf:"parameters" yaml:"parameters"`
	Stages           []StageConfig     `koanf:"stages" yaml:"stages"`
}

// ScanConfig sweeps one parameter linearly over the scan points of a run. An
// empty parameter name produces a single point at the declared defaults.
type ScanConfig struct {
	Parameter string  `koanf:"parameter" yaml:"parameter"`
	Start     float64 `koanf:"start" yaml:"start"`
	Stop      float64 `koanf:"stop" yaml:"stop"`
	Points    int     `koanf:"points" yaml:"points"`
}

// SerialConfig selects the hardware link. Disabled runs stay fully virtual.
type SerialConfig struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled"`
	Port    string `koanf:"port" yaml:"port"`
	Baud    int    `koanf:"baud" yaml:"baud"`
}

// Config is the top-level configuration file layout.
type Config struct {
	ClockMHz     float64       `koanf:"clockmhz" yaml:"clockmhz"`
	Monitor      bool          `koanf:"monitor" yaml:"monitor"`
	MonitorPort  int           `koanf:"monitorport" yaml:"monitorport"`
	Output       string        `koanf:"output" yaml:"output"`
	RAMCapacity  int           `koanf:"ramcapacity" yaml:"ramcapacity"`
	StrictArming bool          `koanf:"strictarming" yaml:"strictarming"`
	RAM          []uint64      `koanf:"ram" yaml:"ram,omitempty"`
	Serial       SerialConfig  `koanf:"serial" yaml:"serial"`
	Program      ProgramConfig `koanf:"program" yaml:"program"`
	Scan         ScanConfig    `koanf:"scan" yaml:"scan"`
}

func defaultConfig() Config {
	return Config{
		ClockMHz:    100,
		Monitor:     true,
		RAMCapacity: 4096,
		Program: ProgramConfig{
			Name: "detection",
			Parameters: []ParameterConfig{
				{Name: "CoolingTime", Value: 1e-3, Unit: "s"},
				{Name: "DetectTime", Value: 1e-3, Unit: "s"},
				{Name: "experiments", Value: 100, Unit: "1"},
			},
			Stages: []StageConfig{
				{Name: "cool", DurationParam: "CoolingTime", Shutter: 1 << 0},
				{Name: "detect", DurationParam: "DetectTime", Shutter: 1 << 2,
					Counter: intPtr(0)},
			},
		},
	}
}

func intPtr(v int) *int { return &v }

// buildProgram compiles the declarative program into executable stage
// descriptors.
func buildProgram(c ProgramConfig) (*seq.Program, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("program needs a name")
	}
	if len(c.Stages) == 0 {
		return nil, fmt.Errorf("program %q declares no stages", c.Name)
	}

	program := &seq.Program{
		Name:             c.Name,
		ExperimentsParam: c.ExperimentsParam,
	}
	if program.ExperimentsParam == "" {
		program.ExperimentsParam = "experiments"
	}

	declared := map[string]bool{}
	for _, p := range c.Parameters {
		program.Parameters = append(program.Parameters, seq.Parameter{
			Name:  p.Name,
			Value: p.Value,
			Unit:  seq.Unit(p.Unit),
		})
		declared[p.Name] = true
	}
	if !declared[program.ExperimentsParam] {
		program.Parameters = append(program.Parameters, seq.Parameter{
			Name:  program.ExperimentsParam,
			Value: 1,
			Unit:  seq.UnitDimless,
		})
	}

	for _, sc := range c.Stages {
		stage, err := buildStage(sc)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", sc.Name, err)
		}
		program.Stages = append(program.Stages, stage)
	}

	return program, nil
}

func buildStage(c StageConfig) (seq.Stage, error) {
	if c.Name == "" {
		return seq.Stage{}, fmt.Errorf("stage needs a name")
	}
	if c.PulseTrain != nil && c.DurationParam != "" {
		return seq.Stage{}, fmt.Errorf(
			"pulse-train stages take their timing from RAM, remove durationparam")
	}
	if c.PulseTrain == nil && c.DurationParam == "" {
		return seq.Stage{}, fmt.Errorf("stage needs a durationparam")
	}

	stage := seq.Stage{
		Name:          c.Name,
		DurationParam: c.DurationParam,
	}

	if c.PulseTrain != nil {
		stage.PulseTrain = &seq.PulseTrain{
			Address:      c.PulseTrain.Address,
			DDSChannel:   c.PulseTrain.DDSChannel,
			TriggerMask:  c.PulseTrain.TriggerMask,
			PulseShutter: c.PulseTrain.PulseShutter,
		}
		return stage, nil
	}

	stage.Setup = func(ctx *seq.Context) error {
		if c.Shutter != 0 {
			if err := ctx.Sched.StageShutter(c.Shutter); err != nil {
				return err
			}
		}
		if c.DDS != nil {
			update, err := ddsUpdate(ctx, c.DDS)
			if err != nil {
				return err
			}
			if err := ctx.Sched.StageDDS(update); err != nil {
				return err
			}
		}
		if c.Trigger != 0 {
			if err := ctx.Sched.StageTrigger(c.Trigger); err != nil {
				return err
			}
		}
		if c.Counter != nil {
			if err := ctx.Sched.StageCounter(*c.Counter); err != nil {
				return err
			}
		}
		return nil
	}

	if c.Shutter != 0 {
		stage.Cleanup = func(ctx *seq.Context) error {
			return ctx.Sched.StageInvShutter(c.Shutter)
		}
	}

	if c.Counter != nil {
		stage.Readout = &seq.Readout{Channel: *c.Counter}
	}

	if c.Check != nil {
		stage.Check = &seq.PresenceCheck{
			Channel:        c.Check.Channel,
			ThresholdParam: c.Check.ThresholdParam,
			MaxRepeatParam: c.Check.MaxRepeatParam,
			AbortCode:      seq.ExitIonLost,
		}
	}

	return stage, nil
}

// ddsUpdate resolves the parameter-driven DDS fields at staging time, so a
// scan sweeping a frequency parameter reprograms the channel every point.
func ddsUpdate(ctx *seq.Context, c *DDSConfig) (seq.DDSUpdate, error) {
	update := seq.DDSUpdate{Channel: c.Channel}

	fields := []struct {
		param string
		value *float64
		has   *bool
	}{
		{c.FrequencyParam, &update.Frequency, &update.HasFrequency},
		{c.PhaseParam, &update.Phase, &update.HasPhase},
		{c.AmplitudeParam, &update.Amplitude, &update.HasAmplitude},
	}
	for _, f := range fields {
		if f.param == "" {
			continue
		}
		v, err := ctx.Params.Value(f.param)
		if err != nil {
			return seq.DDSUpdate{}, err
		}
		*f.value = v
		*f.has = true
	}

	return update, nil
}

// scanPoints expands the scan section into the point list pushed to the
// feed before the run starts.
func scanPoints(c ScanConfig) ([]seq.ScanPoint, error) {
	if c.Parameter == "" {
		return []seq.ScanPoint{{}}, nil
	}
	if c.Points < 1 {
		return nil, fmt.Errorf("scan of %q needs at least one point", c.Parameter)
	}

	points := make([]seq.ScanPoint, 0, c.Points)
	if c.Points == 1 {
		return append(points, seq.ScanPoint{c.Parameter: c.Start}), nil
	}

	step := (c.Stop - c.Start) / float64(c.Points-1)
	for i := 0; i < c.Points; i++ {
		points = append(points, seq.ScanPoint{
			c.Parameter: c.Start + float64(i)*step,
		})
	}
	return points, nil
}
