package seq

import (
	"log"
	"math"
)

// TimeInSec is the logical time of the sequencer in the unit of second.
type TimeInSec float64

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the time between two consecutive ticks
func (f Freq) Period() TimeInSec {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}
	return TimeInSec(1.0 / f)
}

// ThisTick returns the current tick time
//
//	           Input
//	           (          ]
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (f Freq) ThisTick(now TimeInSec) TimeInSec {
	if math.IsNaN(float64(now)) {
		log.Panic("invalid time")
	}
	period := f.Period()
	count := math.Ceil(math.Round(float64(now/(period/10))) / 10)
	return TimeInSec(count) * period
}

// NextTick returns the next tick time.
//
//	           Input
//	           [          )
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (f Freq) NextTick(now TimeInSec) TimeInSec {
	if math.IsNaN(float64(now)) {
		log.Panic("invalid time")
	}
	period := f.Period()
	count := math.Floor(math.Round(float64((now+period)/(period/10))) / 10)
	return TimeInSec(count+1) * period
}

// NCyclesLater returns the time after N cycles
//
// This function will always return a time of an integer number of cycles
func (f Freq) NCyclesLater(n int, now TimeInSec) TimeInSec {
	if math.IsNaN(float64(now)) {
		log.Panic("invalid time")
	}
	return f.ThisTick(now + TimeInSec(n)*f.Period())
}

// NoEarlierThan returns the tick time that is at or right after the given time
func (f Freq) NoEarlierThan(t TimeInSec) TimeInSec {
	if math.IsNaN(float64(t)) {
		log.Panic("invalid time")
	}
	count := t / f.Period()
	return TimeInSec(math.Ceil(float64(count))) * f.Period()
}

// Cycles returns the number of whole clock cycles that the duration d spans.
// The second return value reports whether d sits on the clock grid within
// one part in a thousand of a period.
func (f Freq) Cycles(d TimeInSec) (int64, bool) {
	if math.IsNaN(float64(d)) {
		log.Panic("invalid duration")
	}
	count := float64(d / f.Period())
	rounded := math.Round(count)
	onGrid := math.Abs(count-rounded) <= 1e-3
	return int64(rounded), onGrid
}

// CyclesToTime converts a cycle count, as stored in pulse-train RAM, to a
// duration on this clock.
func (f Freq) CyclesToTime(n uint64) TimeInSec {
	return TimeInSec(n) * f.Period()
}
