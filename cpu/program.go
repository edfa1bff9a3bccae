package cpu

import (
	"iter"
)

// Opcode is one assembled source statement.
type Opcode struct {
	LineNo    int      // Source line number.
	Pc        int      // Word address of the first code.
	Text      []string // Source words, after equate substitution.
	Codes     []uint16 // Program words.
	LinkLabel string   // Label resolved into Codes at link time.
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode containing program word pc.
func (prog *Program) Debug(pc uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(pc) >= op.Pc && int(pc) < op.Pc+len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(pc) - op.Pc,
			}
			break
		}
	}

	return
}

// Binary returns the program image, ready for Cpu.Load.
func (prog *Program) Binary() (bins []uint16) {
	for pc, code := range prog.Codes() {
		for int(pc) > len(bins) {
			bins = append(bins, 0)
		}
		bins = append(bins, code)
	}

	return
}

func (prog *Program) Codes() iter.Seq2[uint16, uint16] {
	return func(yield func(pc uint16, code uint16) bool) {
		for _, op := range prog.Opcodes {
			pc := uint16(op.Pc)
			for n, code := range op.Codes {
				if !yield(pc+uint16(n), code) {
					return
				}
			}
		}
	}
}
