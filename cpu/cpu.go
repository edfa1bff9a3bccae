package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"
)

var _cpu_defines = map[string]string{
	"FLASHEND": fmt.Sprintf("0x%04x", FLASHEND),
	"RAMSTART": fmt.Sprintf("0x%04x", RAMSTART),
	"RAMEND":   fmt.Sprintf("0x%04x", RAMEND),
	"SREG":     fmt.Sprintf("0x%02x", SREG-IO_START),
	"SPL":      fmt.Sprintf("0x%02x", SPL-IO_START),
	"SPH":      fmt.Sprintf("0x%02x", SPH-IO_START),
	"SREG_C":   "0",
	"SREG_Z":   "1",
	"SREG_N":   "2",
	"SREG_V":   "3",
	"SREG_S":   "4",
	"SREG_H":   "5",
	"SREG_T":   "6",
	"SREG_I":   "7",
}

// State is the execution state of the CPU.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RESET   = State(iota) // reset
	STATE_LOADED                // loaded
	STATE_RUNNING               // running
	STATE_HALTED                // halted
	STATE_FAULTED               // faulted
)

// Cpu is the simulation context for the microcontroller core.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers RegisterFile   // General purpose registers.
	Status    Status         // Status register.
	Pc        ProgramCounter // Program counter, in words.
	Alu       Alu            // Arithmetic logic unit.
	Program   ProgramMemory  // Program memory.
	Data      *DataMemory    // Data memory, projecting Registers and Status.
	Decoder   *Decoder       // Opcode decode table.

	Calls Stack // Call sites of active calls, for backtraces.
	Ticks int   // Instructions executed since reset.

	length int   // Words of loaded program.
	state  State // Execution state.
	fault  error // Terminal fault, when faulted.
}

// NewCpu creates a new CPU in the reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Decoder: NewDecoder(),
	}
	cpu.Data = NewDataMemory(&cpu.Registers, &cpu.Status)

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers, status, and program counter.
// - Clears the I/O registers and the general data window.
// - Sets the stack pointer to RAMEND.
// Program memory and the loaded length are kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.Clear()
	cpu.Status.Reset()
	cpu.Pc.Reset()
	cpu.Data.Reset()
	cpu.setSp(RAMEND)
	cpu.Calls.Reset()

	cpu.Ticks = 0
	cpu.state = STATE_RESET
	cpu.fault = nil
}

// Load copies a program into program memory from address 0.
// On ErrProgramTooLarge program memory is unchanged.
func (cpu *Cpu) Load(program []uint16) (err error) {
	err = cpu.Program.Load(program)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %d words", len(program))
	}

	cpu.length = len(program)
	cpu.state = STATE_LOADED
	return
}

// Length returns the number of words of the loaded program.
func (cpu *Cpu) Length() int {
	return cpu.length
}

// State returns the execution state.
func (cpu *Cpu) State() State {
	return cpu.state
}

// Fault returns the fault that stopped the CPU, if any.
func (cpu *Cpu) Fault() error {
	return cpu.fault
}

// Fetch reads and decodes the instruction at pc, including the address
// word of two word instructions. The opcode read is kept in inst even
// when it does not decode.
func (cpu *Cpu) Fetch(pc uint16) (inst Instruction, err error) {
	opcode, err := cpu.Program.Read(pc)
	if err != nil {
		return
	}

	inst, err = cpu.Decoder.Decode(opcode)
	if err != nil {
		inst.Opcode = opcode
		return
	}

	if inst.Words == 2 {
		var word uint16
		word, err = cpu.Program.Read(pc + 1)
		if err != nil {
			return
		}
		inst.extend(word)
	}

	return
}

// Step executes a single instruction.
func (cpu *Cpu) Step() (err error) {
	if cpu.state == STATE_FAULTED {
		return cpu.fault
	}

	pc := cpu.Pc.Get()

	var inst Instruction
	defer func() {
		if err != nil {
			err = &ErrFault{Pc: pc, Opcode: inst.Opcode, Err: err}
			cpu.fault = err
			cpu.state = STATE_FAULTED
			if cpu.Verbose {
				log.Printf("cpu: %v", err)
			}
		}
	}()

	inst, err = cpu.Fetch(pc)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%04x: %v", pc, inst)
	}

	cpu.state = STATE_RUNNING

	err = cpu.Execute(inst)
	if err != nil {
		return
	}

	cpu.Ticks++

	if int(cpu.Pc.Get()) >= cpu.length {
		cpu.state = STATE_HALTED
	}

	return
}

// Run steps until the program counter leaves the loaded program, or a
// fault occurs.
func (cpu *Cpu) Run() (err error) {
	for int(cpu.Pc.Get()) < cpu.length {
		err = cpu.Step()
		if err != nil {
			return
		}
	}

	if cpu.state != STATE_FAULTED {
		cpu.state = STATE_HALTED
	}

	return
}

// sp returns the stack pointer.
func (cpu *Cpu) sp() uint16 {
	lo, _ := cpu.Data.Read(SPL)
	hi, _ := cpu.Data.Read(SPH)
	return uint16(hi)<<8 | uint16(lo)
}

// setSp sets the stack pointer.
func (cpu *Cpu) setSp(value uint16) {
	_ = cpu.Data.Write(SPL, uint8(value))
	_ = cpu.Data.Write(SPH, uint8(value>>8))
}

// Snapshot is a copy of the CPU state.
type Snapshot struct {
	Registers [REGISTERS]uint8
	Status    Status
	Pc        uint16
	Sp        uint16
	State     State
	Ticks     int
}

// Snapshot returns a copy of the CPU state.
func (cpu *Cpu) Snapshot() Snapshot {
	return Snapshot{
		Registers: cpu.Registers.Snapshot(),
		Status:    cpu.Status,
		Pc:        cpu.Pc.Get(),
		Sp:        cpu.sp(),
		State:     cpu.state,
		Ticks:     cpu.Ticks,
	}
}

// Format returns the snapshot as text, with registers in columns.
func (snap Snapshot) Format(columns int) string {
	columns = min(max(columns, 1), REGISTERS)

	var sb strings.Builder
	fmt.Fprintf(&sb, "   pc: %04x   sp: %04x sreg: %v  %v\n",
		snap.Pc, snap.Sp, snap.Status, snap.State)
	for n, value := range snap.Registers {
		fmt.Fprintf(&sb, "% 5s: %02x", fmt.Sprintf("r%d", n), value)
		if (n+1)%columns == 0 || n == REGISTERS-1 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
	for _, p := range []Pointer{POINTER_X, POINTER_Y, POINTER_Z} {
		value := uint16(snap.Registers[p+1])<<8 | uint16(snap.Registers[p])
		fmt.Fprintf(&sb, "% 5s: %04x", p, value)
	}
	sb.WriteByte('\n')

	return sb.String()
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	return cpu.Snapshot().Format(8)
}
