package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
)

// flow returns true if op may move the program counter somewhere other
// than the next instruction.
func flow(op Op) bool {
	switch op {
	case OP_RJMP, OP_RCALL, OP_IJMP, OP_ICALL, OP_JMP, OP_CALL, OP_RET,
		OP_BRBS, OP_BRBC, OP_CPSE, OP_SBRC, OP_SBRS, OP_SBIC, OP_SBIS:
		return true
	}
	return false
}

func FuzzDecode(f *testing.F) {
	for _, opcode := range []uint16{0x0000, 0x0c01, 0x9609, 0x940c, 0x95c8, 0xffff} {
		f.Add(opcode, uint16(0x1234))
	}

	dec := NewDecoder()

	f.Fuzz(func(t *testing.T, opcode uint16, word uint16) {
		assert := assert.New(t)

		inst, err := dec.Decode(opcode)
		if err != nil {
			assert.ErrorIs(err, ErrUnsupportedOpcode)
			return
		}

		assert.Contains([]int{1, 2}, inst.Words)
		assert.NotEmpty(inst.String())

		words := []uint16{opcode}
		if inst.Words == 2 {
			inst.extend(word)
			words = append(words, word)
		}

		// IJMP answers to two opcodes, and the implicit LPM shares its
		// operands with LPM r0, Z.
		if inst.Op == OP_IJMP || opcode == 0x95c8 {
			return
		}

		encoded, err := Encode(inst.Op, inst.Operands...)
		assert.NoError(err, spew.Sdump(inst))
		assert.Equal(words, encoded, spew.Sdump(inst))
	})
}

func FuzzCpu(f *testing.F) {
	for rv := range 0xf {
		f.Add(uint16(0), uint8(rv<<4), uint16(0x0200))
		f.Add(uint16(0xffff), uint8(rv), uint16(0x00ff))
	}

	f.Fuzz(func(t *testing.T, opcode uint16, sreg uint8, pointer uint16) {
		assert := assert.New(t)

		cpu := NewCpu()
		err := cpu.Load([]uint16{0x0000, opcode, 0x0100, 0x0000, 0x0000})
		assert.NoError(err)

		for n := range REGISTERS {
			_ = cpu.Registers.Write(n, uint8(0x40+n))
		}
		for _, p := range []Pointer{POINTER_X, POINTER_Y, POINTER_Z} {
			_ = cpu.Registers.SetPointer(p, pointer)
		}
		cpu.Status.Set(sreg)
		cpu.Pc.Set(1)

		inst, derr := cpu.Fetch(1)

		err = cpu.Step()

		state := fmt.Sprintf("0x%04x (%v)\ncpu:%v", opcode, inst, cpu.String())

		if derr != nil {
			assert.ErrorIs(err, ErrUnsupportedOpcode, state)
			assert.Equal(STATE_FAULTED, cpu.State(), state)
			return
		}

		if err != nil {
			var fault *ErrFault
			assert.True(errors.As(err, &fault), state)
			assert.Equal(uint16(1), fault.Pc, state)
			assert.Equal(opcode, fault.Opcode, state)
			ok := errors.Is(err, ErrBreak) || errors.Is(err, ErrIndexOutOfRange)
			assert.True(ok, "%v: %v", state, err)
			assert.Equal(STATE_FAULTED, cpu.State(), state)
			assert.Equal(uint16(1), cpu.Pc.Get(), state)
			assert.Equal(err, cpu.Step(), state)
			return
		}

		assert.Equal(1, cpu.Ticks, state)
		if !flow(inst.Op) {
			assert.Equal(uint16(1+inst.Words), cpu.Pc.Get(), state)
		}
	})
}
