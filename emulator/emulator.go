// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/avrsim/cpu"
	"github.com/ezrec/avrsim/internal"
)

const (
	FLASH_SIZE = cpu.FLASHEND + 1              // Program memory, in bytes.
	RAM_SIZE   = cpu.RAMEND - cpu.RAMSTART + 1 // General data window, in bytes.
	IO_SIZE    = cpu.RAMSTART - cpu.IO_START   // I/O register window, in bytes.
)

var _emulator_defines = map[string]string{
	"FLASH_SIZE": fmt.Sprintf("%v", FLASH_SIZE),
	"RAM_SIZE":   fmt.Sprintf("%v", RAM_SIZE),
	"IO_SIZE":    fmt.Sprintf("%v", IO_SIZE),
}

// Emulator state. CPU + the program listing it runs.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble parses assembly source into the program listing, with all of
// the emulator defines available as equates.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// Image sets the program listing from a program image with no source.
func (emu *Emulator) Image(words []uint16) {
	emu.Program = &cpu.Program{
		Opcodes: []cpu.Opcode{{Codes: slices.Clone(words)}},
	}
}

// Reset the CPU, and load the program listing into program memory.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()

	err = emu.Cpu.Load(emu.Program.Binary())
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: reset, %d opcodes", len(emu.Program.Opcodes))
	}

	return
}

// Pc returns current program counter.
func (emu *Emulator) Pc() int {
	return int(emu.Cpu.Pc.Get())
}

// Done is true when the program counter has left the loaded program.
func (emu *Emulator) Done() bool {
	return emu.Pc() >= emu.Cpu.Length()
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(uint16(emu.Pc()))
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Backtrace returns the source line numbers of the active calls, innermost
// first. Unknown call sites are line 0.
func (emu *Emulator) Backtrace() (lines []int) {
	for _, pc := range slices.Backward(emu.Cpu.Calls.Data) {
		lineno := 0
		dbg := emu.Program.Debug(pc)
		if dbg.Opcode != nil {
			lineno = dbg.LineNo
		}
		lines = append(lines, lineno)
	}

	return
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Done() {
		done = true
		return
	}

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Step()

	return
}

// Run ticks the emulator until the program completes, a fault occurs, or
// limit ticks have been executed. A limit of zero or less is unbounded.
func (emu *Emulator) Run(limit int) (err error) {
	for ticks := 0; limit <= 0 || ticks < limit; ticks++ {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	if !emu.Done() {
		err = &ErrRuntime{LineNo: emu.LineNo(), Err: ErrTickLimit}
	}

	return
}
