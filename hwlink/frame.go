// Package hwlink carries committed register state to sequencer hardware over
// a serial line. Each commit travels as one framed, CRC-protected message.
package hwlink

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/snksoft/crc"

	"github.com/seqlab/pulseseq/seq"
)

const (
	// frameSync marks the start of every frame on the wire.
	frameSync = 0xA5

	// maxPayloadLen bounds a frame payload. A commit carrying updates for
	// every DDS channel the firmware supports stays well below this.
	maxPayloadLen = 4096
)

// flag bits of the commit payload header.
const (
	flagCounterCleared = 1 << 0
	flagCounterArmed   = 1 << 1
)

// per-field validity bits of a DDS entry.
const (
	ddsHasFrequency = 1 << 0
	ddsHasPhase     = 1 << 1
	ddsHasAmplitude = 1 << 2
)

var (
	// ErrCRCMismatch is returned when a received frame fails its checksum.
	ErrCRCMismatch = errors.New("frame CRC mismatch")

	// ErrFrameTooLarge is returned when a payload exceeds maxPayloadLen.
	ErrFrameTooLarge = errors.New("frame payload too large")

	wireOrder = binary.BigEndian
	crcTable  = crc.NewTable(crc.XMODEM)
)

// EncodeFrame wraps a payload as [sync][len][payload][crc16]. The CRC is
// CRC-CCITT XMODEM over the payload bytes only.
func EncodeFrame(payload []byte) ([]byte, error) {
	if len(payload) > maxPayloadLen {
		return nil, ErrFrameTooLarge
	}

	out := make([]byte, 0, len(payload)+5)
	out = append(out, frameSync)
	out = wireOrder.AppendUint16(out, uint16(len(payload)))
	out = append(out, payload...)
	out = wireOrder.AppendUint16(out, checksum(payload))

	return out, nil
}

func checksum(payload []byte) uint16 {
	c := crcTable.InitCrc()
	c = crcTable.UpdateCrc(c, payload)
	return crcTable.CRC16(c)
}

// DecodeFrame reads one frame from the stream, skipping noise bytes before
// the sync marker, and returns the verified payload.
func DecodeFrame(r io.Reader) ([]byte, error) {
	if err := seekSync(r); err != nil {
		return nil, err
	}

	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}

	payloadLen := int(wireOrder.Uint16(lenBuf[:]))
	if payloadLen > maxPayloadLen {
		return nil, ErrFrameTooLarge
	}

	buf := make([]byte, payloadLen+2)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	payload := buf[:payloadLen]
	want := wireOrder.Uint16(buf[payloadLen:])
	if want != checksum(payload) {
		return nil, ErrCRCMismatch
	}

	return payload, nil
}

func seekSync(r io.Reader) error {
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		if b[0] == frameSync {
			return nil
		}
	}
}

// EncodeCommit serializes a commit record into a frame payload. The layout
// is big-endian:
//
//	[seq u64][timeCycles u64][durCycles u64]
//	[shutter u64][setMask u64][clearMask u64][triggerMask u64]
//	[armedChannel i32][flags u8]
//	[ddsCount u8]{[channel i32][valid u8][freq f64][phase f64][amp f64]}...
//
// Times travel as clock cycles so the wire format never carries floats for
// the timing fields.
func EncodeCommit(commit seq.CommitRecord, clock seq.Freq) ([]byte, error) {
	timeCycles, ok := clock.Cycles(commit.Time)
	if !ok {
		return nil, fmt.Errorf("commit time %v s is off the clock grid", commit.Time)
	}
	durCycles, ok := clock.Cycles(commit.Duration)
	if !ok {
		return nil, fmt.Errorf("commit duration %v s is off the clock grid", commit.Duration)
	}
	if len(commit.DDS) > math.MaxUint8 {
		return nil, fmt.Errorf("commit carries %d DDS updates, limit is %d",
			len(commit.DDS), math.MaxUint8)
	}

	buf := new(bytes.Buffer)
	put := func(v any) { _ = binary.Write(buf, wireOrder, v) }

	put(commit.Seq)
	put(uint64(timeCycles))
	put(uint64(durCycles))
	put(commit.Shutter)
	put(commit.SetMask)
	put(commit.ClearMask)
	put(commit.TriggerMask)
	put(int32(commit.ArmedChannel))

	var flags uint8
	if commit.CounterCleared {
		flags |= flagCounterCleared
	}
	if commit.ArmedChannel != seq.NoChannel {
		flags |= flagCounterArmed
	}
	put(flags)

	put(uint8(len(commit.DDS)))
	for _, u := range commit.DDS {
		put(int32(u.Channel))

		var valid uint8
		if u.HasFrequency {
			valid |= ddsHasFrequency
		}
		if u.HasPhase {
			valid |= ddsHasPhase
		}
		if u.HasAmplitude {
			valid |= ddsHasAmplitude
		}
		put(valid)

		put(u.Frequency)
		put(u.Phase)
		put(u.Amplitude)
	}

	return buf.Bytes(), nil
}

// DecodeCommit parses a frame payload produced by EncodeCommit. It is used
// by the loopback tests and by host-side tooling that taps the wire.
func DecodeCommit(payload []byte, clock seq.Freq) (seq.CommitRecord, error) {
	buf := bytes.NewReader(payload)
	var commit seq.CommitRecord

	var timeCycles, durCycles uint64
	var armed int32
	var flags, ddsCount uint8

	fields := []any{
		&commit.Seq, &timeCycles, &durCycles,
		&commit.Shutter, &commit.SetMask, &commit.ClearMask,
		&commit.TriggerMask, &armed, &flags, &ddsCount,
	}
	for _, f := range fields {
		if err := binary.Read(buf, wireOrder, f); err != nil {
			return seq.CommitRecord{}, fmt.Errorf("truncated commit payload: %w", err)
		}
	}

	commit.Time = clock.CyclesToTime(timeCycles)
	commit.Duration = clock.CyclesToTime(durCycles)
	commit.CounterCleared = flags&flagCounterCleared != 0
	commit.ArmedChannel = int(armed)
	if flags&flagCounterArmed == 0 {
		commit.ArmedChannel = seq.NoChannel
	}

	for i := 0; i < int(ddsCount); i++ {
		var channel int32
		var valid uint8
		var u seq.DDSUpdate

		entry := []any{&channel, &valid, &u.Frequency, &u.Phase, &u.Amplitude}
		for _, f := range entry {
			if err := binary.Read(buf, wireOrder, f); err != nil {
				return seq.CommitRecord{}, fmt.Errorf("truncated DDS entry %d: %w", i, err)
			}
		}

		u.Channel = int(channel)
		u.HasFrequency = valid&ddsHasFrequency != 0
		u.HasPhase = valid&ddsHasPhase != 0
		u.HasAmplitude = valid&ddsHasAmplitude != 0
		commit.DDS = append(commit.DDS, u)
	}

	return commit, nil
}
