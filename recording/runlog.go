package recording

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// runInfo rows describe one property of the run.
type runInfo struct {
	Property string
	Value    string
}

// A RunLog records execution metadata of one sequence run into the run_info
// table.
type RunLog struct {
	tablename string
	recorder  Recorder
	entries   []runInfo
}

// NewRunLog creates a run log writing through the given recorder.
func NewRunLog(recorder Recorder) *RunLog {
	l := &RunLog{
		tablename: "run_info",
		recorder:  recorder,
		entries:   []runInfo{},
	}

	l.recorder.CreateTable(l.tablename, runInfo{})

	return l
}

// Start logs the start of the current run.
func (l *RunLog) Start() {
	currentTime := time.Now()
	startTime := currentTime.Format("2006-01-02 15:04:05.000000000")
	l.entries = append(l.entries, runInfo{"Start Time", startTime})

	cmd := strings.Join(os.Args, " ")
	l.entries = append(l.entries, runInfo{"Command", cmd})

	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}

	cwd := filepath.Dir(ex)
	l.entries = append(l.entries, runInfo{"Working Directory", cwd})
}

// Record adds one property of the run.
func (l *RunLog) Record(property, value string) {
	l.entries = append(l.entries, runInfo{property, value})
}

// End writes the collected properties along with the end time.
func (l *RunLog) End() {
	for _, entry := range l.entries {
		l.recorder.InsertData(l.tablename, entry)
	}

	endTime := time.Now()
	endValue := endTime.Format("2006-01-02 15:04:05.000000000")
	l.recorder.InsertData(l.tablename, runInfo{"End Time", endValue})

	l.entries = nil

	l.recorder.Flush()
}
