package cpu

// Memory map constants.
const (
	PROGRAM_WORDS = 16384 // Program memory capacity in words.
	FLASHEND      = PROGRAM_WORDS*2 - 1

	DATA_SIZE = 0x0900 // Data memory capacity in bytes.
	IO_START  = 0x0020 // First I/O register in data space.
	RAMSTART  = 0x0100 // First byte of the general data window.
	RAMEND    = 0x08ff // Last byte of the general data window.

	SPL  = 0x005d // Stack pointer low byte, data address.
	SPH  = 0x005e // Stack pointer high byte, data address.
	SREG = 0x005f // Status register, data address.
)

// ProgramMemory is word addressed flash.
type ProgramMemory struct {
	mem [PROGRAM_WORDS]uint16
}

// Load copies program into memory from address 0. Nothing is copied if
// the program does not fit.
func (pm *ProgramMemory) Load(program []uint16) (err error) {
	if len(program) > len(pm.mem) {
		err = ErrProgramTooLarge
		return
	}
	copy(pm.mem[:], program)
	return
}

// Read returns the word at addr.
func (pm *ProgramMemory) Read(addr uint16) (word uint16, err error) {
	if int(addr) >= len(pm.mem) {
		err = ErrIndex{Space: "program", Index: int(addr)}
		return
	}
	word = pm.mem[addr]
	return
}

// Byte returns the byte at byte address addr, low byte first.
func (pm *ProgramMemory) Byte(addr uint16) (value uint8, err error) {
	word, err := pm.Read(addr >> 1)
	if err != nil {
		return
	}
	if (addr & 1) != 0 {
		word >>= 8
	}
	value = uint8(word)
	return
}

// Write sets the word at addr.
func (pm *ProgramMemory) Write(addr uint16, word uint16) (err error) {
	if int(addr) >= len(pm.mem) {
		err = ErrIndex{Space: "program", Index: int(addr)}
		return
	}
	pm.mem[addr] = word
	return
}

// Size returns the capacity in words.
func (pm *ProgramMemory) Size() int {
	return len(pm.mem)
}

// Snapshot returns a copy of the words in [0, count).
func (pm *ProgramMemory) Snapshot(count int) []uint16 {
	count = min(max(count, 0), len(pm.mem))
	out := make([]uint16, count)
	copy(out, pm.mem[:count])
	return out
}

// DataMemory is the byte addressed data space. The register file and the
// status register are projected into the low addresses; the backing
// array is not used for those bytes.
type DataMemory struct {
	mem    [DATA_SIZE]uint8
	regs   *RegisterFile
	status *Status
}

// NewDataMemory creates a data space projecting regs and status.
func NewDataMemory(regs *RegisterFile, status *Status) *DataMemory {
	return &DataMemory{
		regs:   regs,
		status: status,
	}
}

// Read returns the byte at addr.
func (dm *DataMemory) Read(addr uint16) (value uint8, err error) {
	switch {
	case addr < IO_START:
		return dm.regs.Read(int(addr))
	case addr == SREG:
		value = dm.status.Get()
	case addr < DATA_SIZE:
		value = dm.mem[addr]
	default:
		err = ErrIndex{Space: "data", Index: int(addr)}
	}
	return
}

// Write sets the byte at addr.
func (dm *DataMemory) Write(addr uint16, value uint8) (err error) {
	switch {
	case addr < IO_START:
		return dm.regs.Write(int(addr), value)
	case addr == SREG:
		dm.status.Set(value)
	case addr < DATA_SIZE:
		dm.mem[addr] = value
	default:
		err = ErrIndex{Space: "data", Index: int(addr)}
	}
	return
}

// ReadData reads from the general data window only.
func (dm *DataMemory) ReadData(addr uint16) (value uint8, err error) {
	if addr < RAMSTART || addr > RAMEND {
		err = ErrIndex{Space: "sram", Index: int(addr)}
		return
	}
	value = dm.mem[addr]
	return
}

// WriteData writes to the general data window only.
func (dm *DataMemory) WriteData(addr uint16, value uint8) (err error) {
	if addr < RAMSTART || addr > RAMEND {
		err = ErrIndex{Space: "sram", Index: int(addr)}
		return
	}
	dm.mem[addr] = value
	return
}

// Reset zeros the I/O registers and the general data window.
func (dm *DataMemory) Reset() {
	clear(dm.mem[IO_START:])
}

// Snapshot returns a copy of the whole data space, with the register and
// status projections resolved.
func (dm *DataMemory) Snapshot() []uint8 {
	out := make([]uint8, DATA_SIZE)
	copy(out, dm.mem[:])
	regs := dm.regs.Snapshot()
	copy(out, regs[:])
	out[SREG] = dm.status.Get()
	return out
}
