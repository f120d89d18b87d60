package seq

// A PulseRecord is one playback step of a pulse train: a phase word for the
// gate synthesizer, a gap to wait before the pulse, and the pulse duration.
// Durations are stored in clock cycles.
type PulseRecord struct {
	Phase       uint64
	GapCycles   uint64
	PulseCycles uint64
}

const cellsPerPulseRecord = 3

// PulseRAM is the onboard sequential memory that holds pre-loaded pulse
// trains. It is read through a monotonically advancing cursor.
type PulseRAM struct {
	cells  []uint64
	length int
	cursor int
}

// NewPulseRAM creates a pulse RAM with the given cell capacity.
func NewPulseRAM(capacity int) *PulseRAM {
	return &PulseRAM{
		cells: make([]uint64, capacity),
	}
}

// Capacity returns the number of cells the RAM can hold.
func (r *PulseRAM) Capacity() int {
	return len(r.cells)
}

// Length returns the number of valid cells currently loaded.
func (r *PulseRAM) Length() int {
	return r.length
}

// Cursor returns the current read position.
func (r *PulseRAM) Cursor() int {
	return r.cursor
}

// Load replaces the RAM content with the given cells and resets the cursor.
// Cells beyond the loaded region are invalid and must not be read.
func (r *PulseRAM) Load(cells []uint64) error {
	if len(cells) > len(r.cells) {
		return NewFault(FaultOutOfRange,
			"loading %d cells into RAM of capacity %d",
			len(cells), len(r.cells))
	}

	copy(r.cells, cells)
	r.length = len(cells)
	r.cursor = 0

	return nil
}

// SetAddress resets the cursor to addr.
func (r *PulseRAM) SetAddress(addr int) error {
	if addr < 0 || addr >= len(r.cells) {
		return NewFault(FaultOutOfRange,
			"RAM address %d outside capacity %d", addr, len(r.cells))
	}

	r.cursor = addr

	return nil
}

// Read returns the cell at the cursor and advances the cursor by one. Reading
// past the loaded region is a CursorOverrun fault.
func (r *PulseRAM) Read() (uint64, error) {
	if r.cursor >= r.length {
		return 0, NewFault(FaultCursorOverrun,
			"RAM cursor %d past loaded length %d", r.cursor, r.length)
	}

	value := r.cells[r.cursor]
	r.cursor++

	return value, nil
}

// ReadPulseTrain reads a record-oriented pulse train starting at the cursor:
// a leading count cell followed by count (phase, gap, pulse) triples. It
// consumes exactly count*3+1 cells.
func (r *PulseRAM) ReadPulseTrain() ([]PulseRecord, error) {
	count, err := r.Read()
	if err != nil {
		return nil, err
	}

	remaining := r.length - r.cursor
	needed := int(count) * cellsPerPulseRecord
	if needed > remaining {
		return nil, NewFault(FaultCursorOverrun,
			"pulse train of %d records needs %d cells, %d loaded past cursor",
			count, needed, remaining)
	}

	records := make([]PulseRecord, count)
	for i := range records {
		phase, _ := r.Read()
		gap, _ := r.Read()
		pulse, _ := r.Read()
		records[i] = PulseRecord{
			Phase:       phase,
			GapCycles:   gap,
			PulseCycles: pulse,
		}
	}

	return records, nil
}
