// Package monitoring turns a running sequence into a small web server that
// exposes engine time, interpreter state, register contents, and process
// resources to external dashboards.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/seqlab/pulseseq/seq"
)

// Monitor exposes a running sequence over HTTP for external monitoring.
type Monitor struct {
	sched      *seq.Scheduler
	interp     *seq.Interpreter
	feed       *seq.PointQueue
	portNumber int
	addr       string

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// Addr returns the host:port the monitor listens on, empty before
// StartServer runs.
func (m *Monitor) Addr() string {
	return m.addr
}

// RegisterScheduler registers the timeline scheduler of the sequence.
func (m *Monitor) RegisterScheduler(s *seq.Scheduler) {
	m.sched = s
}

// RegisterInterpreter registers the interpreter that runs the sequence.
func (m *Monitor) RegisterInterpreter(i *seq.Interpreter) {
	m.interp = i
}

// RegisterFeed registers the scan-point queue being drained.
func (m *Monitor) RegisterFeed(f *seq.PointQueue) {
	m.feed = f
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        seq.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars)-1)
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitor as a web server, on a random port unless one
// was configured.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/status", m.status)
	r.HandleFunc("/api/registers", m.listRegisters)
	r.HandleFunc("/api/params", m.listParams)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.addr = fmt.Sprintf("localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring sequence with http://%s\n", m.addr)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.sched.Now()
	fmt.Fprintf(w, "{\"now\":%.10f}", now)
}

type statusRsp struct {
	State      string  `json:"state"`
	Now        float64 `json:"now"`
	Points     int     `json:"points"`
	Trials     int     `json:"trials"`
	PendingPts int     `json:"pending_points"`
	Terminated bool    `json:"terminated"`
}

func (m *Monitor) status(w http.ResponseWriter, _ *http.Request) {
	if m.interp == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	points, trials := m.interp.Progress()

	rsp := statusRsp{
		State:      m.interp.State().String(),
		Now:        float64(m.sched.Now()),
		Points:     points,
		Trials:     trials,
		Terminated: m.sched.Terminated(),
	}
	if m.feed != nil {
		rsp.PendingPts = m.feed.Len()
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listRegisters(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.sched.Registers())
	serializer.SetMaxDepth(2)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) listParams(w http.ResponseWriter, _ *http.Request) {
	if m.interp == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	params := m.interp.Params()

	values := make(map[string]float64)
	for _, name := range params.Names() {
		v, err := params.Value(name)
		dieOnErr(err)
		values[name] = v
	}

	bytes, err := json.Marshal(values)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	bytes, err := json.Marshal(m.progressBars)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
