package sequencer

import (
	"github.com/rs/xid"

	"github.com/seqlab/pulseseq/monitoring"
	"github.com/seqlab/pulseseq/recording"
	"github.com/seqlab/pulseseq/seq"
)

// Builder can be used to build a sequencer.
type Builder struct {
	clock          seq.Freq
	strictArming   bool
	monitorOn      bool
	monitorPort    int
	outputFileName string
	ramCapacity    int
	backend        seq.Backend
	source         seq.CountSource
}

// MakeBuilder creates a new builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		clock:       100 * seq.MHz,
		monitorOn:   true,
		ramCapacity: 4096,
	}
}

// WithClock sets the hardware clock frequency.
func (b Builder) WithClock(f seq.Freq) Builder {
	b.clock = f
	return b
}

// WithStrictArming makes re-arming an armed counter a fault instead of a
// silent rebind.
func (b Builder) WithStrictArming() Builder {
	b.strictArming = true
	return b
}

// WithoutMonitoring sets the sequencer to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithOutputFileName sets the custom output file name for the result
// recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithRAMCapacity sets the pulse RAM capacity in cells.
func (b Builder) WithRAMCapacity(cells int) Builder {
	b.ramCapacity = cells
	return b
}

// WithBackend attaches a hardware backend.
func (b Builder) WithBackend(backend seq.Backend) Builder {
	b.backend = backend
	return b
}

// WithCountSource attaches the detection-event source.
func (b Builder) WithCountSource(source seq.CountSource) Builder {
	b.source = source
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}
	if b.ramCapacity <= 0 {
		panic("pulse RAM capacity must be positive")
	}
}

// Build builds the sequencer.
func (b Builder) Build() *Sequencer {
	b.parametersMustBeValid()

	s := &Sequencer{
		clock: b.clock,
	}

	s.id = xid.New().String()

	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "pulseseq_run_" + s.id
	}
	s.recorder = recording.New(outputPath)

	schedOpts := []seq.SchedulerOption{}
	if b.strictArming {
		schedOpts = append(schedOpts, seq.WithStrictArming())
	}
	if b.backend != nil {
		schedOpts = append(schedOpts, seq.WithBackend(b.backend))
	}
	if b.source != nil {
		schedOpts = append(schedOpts, seq.WithCountSource(b.source))
	}

	s.sched = seq.NewScheduler(b.clock, schedOpts...)
	s.ram = seq.NewPulseRAM(b.ramCapacity)
	s.feed = seq.NewPointQueue()

	s.reporter = recording.NewReadoutWriter(s.recorder, func() seq.TimeInSec {
		return s.sched.Now()
	})

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		s.monitor.RegisterScheduler(s.sched)
		s.monitor.RegisterFeed(s.feed)
		s.monitor.StartServer()
	}

	return s
}
