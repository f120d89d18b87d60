package hwlink

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/tarm/serial"

	"github.com/seqlab/pulseseq/seq"
)

// Acknowledgement bytes the firmware answers each frame with.
const (
	ackByte = 0x06
	nakByte = 0x15
)

// ErrNotConnected is returned when the link is used after Close.
var ErrNotConnected = errors.New("serial link is not connected")

// Config describes the serial line and the hardware clock behind it.
type Config struct {
	// Port is the serial device path, e.g. /dev/ttyUSB0.
	Port string

	// Baud is the line rate. Zero selects 115200.
	Baud int

	// Clock is the sequencer clock frequency. Commit timing fields travel
	// as cycles of this clock.
	Clock seq.Freq

	// ReadTimeout bounds the wait for each acknowledgement byte. Zero
	// selects one second.
	ReadTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Baud == 0 {
		c.Baud = 115200
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = time.Second
	}
	return c
}

// A SerialLink pushes committed register state to the sequencer hardware
// over a serial line. It implements seq.Backend. Holds pass real wall-clock
// time so the hardware timeline and the host stay aligned.
type SerialLink struct {
	cfg  Config
	mu   sync.Mutex
	conn io.ReadWriteCloser

	open func() (io.ReadWriteCloser, error)
}

// Open connects to the hardware, retrying with capped exponential backoff.
// Sequencer firmware resets its USB endpoint on power-up and rejects
// connection thrashing, hence the backoff rather than a single attempt.
func Open(cfg Config) (*SerialLink, error) {
	cfg = cfg.withDefaults()

	l := &SerialLink{cfg: cfg}
	l.open = func() (io.ReadWriteCloser, error) {
		return serial.OpenPort(&serial.Config{
			Name:        cfg.Port,
			Baud:        cfg.Baud,
			ReadTimeout: cfg.ReadTimeout,
		})
	}

	if err := l.connect(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *SerialLink) connect() error {
	op := func() error {
		conn, err := l.open()
		if err != nil {
			return err
		}
		l.conn = conn
		return nil
	}

	return backoff.Retry(op, &backoff.ExponentialBackOff{
		InitialInterval:     25 * time.Millisecond,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         time.Second,
		MaxElapsedTime:      3 * time.Second,
		Clock:               backoff.SystemClock,
	})
}

// Apply frames one commit record and writes it to the line, then waits for
// the firmware's acknowledgement. A write failure triggers one reconnect
// and resend before the error is surfaced.
func (l *SerialLink) Apply(commit seq.CommitRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	payload, err := EncodeCommit(commit, l.cfg.Clock)
	if err != nil {
		return err
	}
	frame, err := EncodeFrame(payload)
	if err != nil {
		return err
	}

	if err := l.send(frame); err != nil {
		if err := l.reconnect(); err != nil {
			return err
		}
		return l.send(frame)
	}
	return nil
}

func (l *SerialLink) send(frame []byte) error {
	if l.conn == nil {
		return ErrNotConnected
	}

	if _, err := l.conn.Write(frame); err != nil {
		return err
	}

	var ack [1]byte
	if _, err := io.ReadFull(l.conn, ack[:]); err != nil {
		return fmt.Errorf("waiting for frame acknowledgement: %w", err)
	}
	switch ack[0] {
	case ackByte:
		return nil
	case nakByte:
		return errors.New("hardware rejected frame")
	default:
		return fmt.Errorf("unexpected acknowledgement byte 0x%02X", ack[0])
	}
}

func (l *SerialLink) reconnect() error {
	if l.conn != nil {
		l.conn.Close()
		l.conn = nil
	}
	return l.connect()
}

// Hold blocks for the given duration of hardware time.
func (l *SerialLink) Hold(d seq.TimeInSec) error {
	if d < 0 {
		return fmt.Errorf("cannot hold for %v s", d)
	}
	time.Sleep(time.Duration(float64(d) * float64(time.Second)))
	return nil
}

// Close shuts the serial line down. Further Apply calls fail.
func (l *SerialLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil
	}
	err := l.conn.Close()
	l.conn = nil
	return err
}
