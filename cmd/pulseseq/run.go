package main

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/seqlab/pulseseq/hwlink"
	"github.com/seqlab/pulseseq/seq"
	"github.com/seqlab/pulseseq/sequencer"
)

var openMonitorPage bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the configured sequence program over its scan sweep.",
	RunE:  runSequence,
}

func init() {
	runCmd.Flags().BoolVar(&openMonitorPage, "open", false,
		"open the monitor page in a browser once the run starts")
	rootCmd.AddCommand(runCmd)
}

func runSequence(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	program, err := buildProgram(c.Program)
	if err != nil {
		return err
	}
	points, err := scanPoints(c.Scan)
	if err != nil {
		return err
	}

	clock := seq.Freq(c.ClockMHz) * seq.MHz

	builder := sequencer.MakeBuilder().WithClock(clock)
	if !c.Monitor {
		builder = builder.WithoutMonitoring()
	}
	if c.MonitorPort > 0 {
		builder = builder.WithMonitorPort(c.MonitorPort)
	}
	if c.Output != "" {
		builder = builder.WithOutputFileName(c.Output)
	}
	if c.RAMCapacity > 0 {
		builder = builder.WithRAMCapacity(c.RAMCapacity)
	}
	if c.StrictArming {
		builder = builder.WithStrictArming()
	}

	if c.Serial.Enabled {
		link, err := hwlink.Open(hwlink.Config{
			Port:  c.Serial.Port,
			Baud:  c.Serial.Baud,
			Clock: clock,
		})
		if err != nil {
			return err
		}
		defer link.Close()
		builder = builder.WithBackend(link)
	}

	s := builder.Build()
	defer s.Terminate()

	if len(c.RAM) > 0 {
		if err := s.LoadRAM(c.RAM); err != nil {
			return err
		}
	}

	for _, p := range points {
		s.Feed().Push(p)
	}

	if openMonitorPage && s.Monitor() != nil {
		if err := browser.OpenURL("http://" + s.Monitor().Addr()); err != nil {
			fmt.Fprintf(os.Stderr, "could not open browser: %v\n", err)
		}
	}

	outcome, err := s.Run(program)
	if err != nil {
		return fmt.Errorf("engine fault: %w", err)
	}

	fmt.Printf("run finished: %s, %d points, %d trials\n",
		outcome.Code, outcome.Points, outcome.Trials)

	if !outcome.Code.IsNormal() {
		os.Exit(2)
	}
	return nil
}
