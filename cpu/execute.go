package cpu

import (
	"errors"
)

// machine applies one instruction to the cpu, keeping the first error.
type machine struct {
	*Cpu
	err error
}

func (m *machine) check(err error) {
	if m.err == nil && err != nil {
		m.err = err
	}
}

func (m *machine) reg(index int) uint8 {
	value, err := m.Registers.Read(index)
	m.check(err)
	return value
}

// setReg, and the other writers, do nothing once the instruction has
// faulted.
func (m *machine) setReg(index int, value uint8) {
	if m.err == nil {
		m.check(m.Registers.Write(index, value))
	}
}

func (m *machine) pair(index int) uint16 {
	value, err := m.Registers.Pair(index)
	m.check(err)
	return value
}

func (m *machine) setPair(index int, value uint16) {
	if m.err == nil {
		m.check(m.Registers.SetPair(index, value))
	}
}

func (m *machine) load(addr uint16) uint8 {
	value, err := m.Data.Read(addr)
	m.check(err)
	return value
}

func (m *machine) store(addr uint16, value uint8) {
	if m.err == nil {
		m.check(m.Data.Write(addr, value))
	}
}

func (m *machine) setSp(value uint16) {
	if m.err == nil {
		m.Cpu.setSp(value)
	}
}

func (m *machine) push(value uint8) {
	sp := m.sp()
	m.store(sp, value)
	m.setSp(sp - 1)
}

func (m *machine) pop() uint8 {
	sp := m.sp() + 1
	value := m.load(sp)
	m.setSp(sp)
	return value
}

// pushPc pushes a return address, low byte first. Both stack slots are
// checked before either is written.
func (m *machine) pushPc(pc uint16) {
	m.load(m.sp() - 1)
	m.push(uint8(pc))
	m.push(uint8(pc >> 8))
}

func (m *machine) popPc() uint16 {
	m.load(m.sp() + 2)
	hi := m.pop()
	lo := m.pop()
	return uint16(hi)<<8 | uint16(lo)
}

// call pushes the return address, and records the call site.
func (m *machine) call(here uint16, next uint16) {
	m.pushPc(next)
	if m.err == nil {
		m.Calls.Push(here)
	}
}

// skip moves the program counter past the instruction at next.
func (m *machine) skip(next uint16) {
	words := 1
	if inst, err := m.Fetch(next); err == nil {
		words = inst.Words
	}
	m.Pc.Set(next + uint16(words))
}

// arity returns the number of operands op needs to execute.
func arity(op Op) int {
	switch op {
	case OP_NOP, OP_IJMP, OP_ICALL, OP_RET, OP_SLEEP, OP_WDR, OP_BREAK:
		return 0
	case OP_COM, OP_NEG, OP_SWAP, OP_INC, OP_DEC, OP_ASR, OP_LSR, OP_ROR,
		OP_PUSH, OP_POP, OP_RJMP, OP_RCALL, OP_JMP, OP_CALL, OP_BSET, OP_BCLR:
		return 1
	case OP_LD, OP_ST, OP_LDD, OP_STD:
		return 3
	}
	return 2
}

// Execute applies a decoded instruction to the CPU state, and advances
// the program counter. On error the program counter, status and data
// are left as they were.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	if inst.Op <= OP_INVALID || inst.Op >= op_count {
		return ErrOpcode(inst.Opcode)
	}
	if len(inst.Operands) < arity(inst.Op) {
		return errors.Join(ErrOpcode(inst.Opcode), ErrOperandCount)
	}

	m := &machine{Cpu: cpu}
	ops := inst.Operands
	sr := &cpu.Status
	alu := cpu.Alu

	words := max(inst.Words, 1)
	here := cpu.Pc.Get()
	next := here + uint16(words)
	cpu.Pc.Set(next)

	status := cpu.Status
	defer func() {
		if m.err != nil {
			cpu.Pc.Set(here)
			cpu.Status = status
		}
	}()

	// SBC, SBCI and CPC only ever clear Z.
	stickyZero := func(result uint8, zero bool) {
		sr.SetFlag(FLAG_Z, zero && result == 0)
	}

	switch inst.Op {
	case OP_ADD:
		m.setReg(ops[0], alu.Add(m.reg(ops[0]), m.reg(ops[1]), false, sr))
	case OP_ADC:
		m.setReg(ops[0], alu.Add(m.reg(ops[0]), m.reg(ops[1]), sr.carry(), sr))
	case OP_SUB:
		m.setReg(ops[0], alu.Sub(m.reg(ops[0]), m.reg(ops[1]), false, sr))
	case OP_SBC:
		zero := sr.Flag(FLAG_Z)
		result := alu.Sub(m.reg(ops[0]), m.reg(ops[1]), sr.carry(), sr)
		stickyZero(result, zero)
		m.setReg(ops[0], result)
	case OP_AND:
		m.setReg(ops[0], alu.And(m.reg(ops[0]), m.reg(ops[1]), sr))
	case OP_OR:
		m.setReg(ops[0], alu.Or(m.reg(ops[0]), m.reg(ops[1]), sr))
	case OP_EOR:
		m.setReg(ops[0], alu.Xor(m.reg(ops[0]), m.reg(ops[1]), sr))
	case OP_CP:
		alu.Sub(m.reg(ops[0]), m.reg(ops[1]), false, sr)
	case OP_CPC:
		zero := sr.Flag(FLAG_Z)
		stickyZero(alu.Sub(m.reg(ops[0]), m.reg(ops[1]), sr.carry(), sr), zero)
	case OP_CPSE:
		if m.reg(ops[0]) == m.reg(ops[1]) {
			m.skip(next)
		}
	case OP_MOV:
		m.setReg(ops[0], m.reg(ops[1]))
	case OP_MOVW:
		m.setPair(ops[0], m.pair(ops[1]))
	case OP_MUL:
		product := uint16(m.reg(ops[0])) * uint16(m.reg(ops[1]))
		sr.SetFlag(FLAG_C, (product&0x8000) != 0)
		sr.SetFlag(FLAG_Z, product == 0)
		m.setPair(0, product)

	case OP_SUBI:
		m.setReg(ops[0], alu.Sub(m.reg(ops[0]), uint8(ops[1]), false, sr))
	case OP_SBCI:
		zero := sr.Flag(FLAG_Z)
		result := alu.Sub(m.reg(ops[0]), uint8(ops[1]), sr.carry(), sr)
		stickyZero(result, zero)
		m.setReg(ops[0], result)
	case OP_ANDI:
		m.setReg(ops[0], alu.And(m.reg(ops[0]), uint8(ops[1]), sr))
	case OP_ORI:
		m.setReg(ops[0], alu.Or(m.reg(ops[0]), uint8(ops[1]), sr))
	case OP_CPI:
		alu.Sub(m.reg(ops[0]), uint8(ops[1]), false, sr)
	case OP_LDI:
		m.setReg(ops[0], uint8(ops[1]))
	case OP_ADIW, OP_SBIW:
		// Low byte, then high byte with the carry of the low byte. Z
		// covers all 16 bits and H is not affected.
		half := sr.Flag(FLAG_H)
		lo, hi := m.reg(ops[0]), m.reg(ops[0]+1)
		if inst.Op == OP_ADIW {
			lo = alu.Add(lo, uint8(ops[1]), false, sr)
			hi = alu.Add(hi, 0, sr.carry(), sr)
		} else {
			lo = alu.Sub(lo, uint8(ops[1]), false, sr)
			hi = alu.Sub(hi, 0, sr.carry(), sr)
		}
		sr.SetFlag(FLAG_Z, lo == 0 && hi == 0)
		sr.SetFlag(FLAG_H, half)
		m.setReg(ops[0], lo)
		m.setReg(ops[0]+1, hi)

	case OP_COM:
		m.setReg(ops[0], alu.Com(m.reg(ops[0]), sr))
	case OP_NEG:
		m.setReg(ops[0], alu.Neg(m.reg(ops[0]), sr))
	case OP_SWAP:
		m.setReg(ops[0], alu.Swap(m.reg(ops[0])))
	case OP_INC:
		m.setReg(ops[0], alu.Inc(m.reg(ops[0]), sr))
	case OP_DEC:
		m.setReg(ops[0], alu.Dec(m.reg(ops[0]), sr))
	case OP_ASR:
		m.setReg(ops[0], alu.Asr(m.reg(ops[0]), sr))
	case OP_LSR:
		m.setReg(ops[0], alu.Lsr(m.reg(ops[0]), sr))
	case OP_ROR:
		m.setReg(ops[0], alu.Ror(m.reg(ops[0]), sr))

	case OP_LD, OP_ST:
		ptr := ops[1]
		addr := m.pair(ptr)
		if ops[2] == MODE_PRE_DEC {
			addr--
		}
		if inst.Op == OP_LD {
			m.setReg(ops[0], m.load(addr))
		} else {
			m.store(addr, m.reg(ops[0]))
		}
		switch ops[2] {
		case MODE_PRE_DEC:
			m.setPair(ptr, addr)
		case MODE_POST_INC:
			m.setPair(ptr, addr+1)
		}
	case OP_LDD:
		m.setReg(ops[0], m.load(m.pair(ops[1])+uint16(ops[2])))
	case OP_STD:
		m.store(m.pair(ops[1])+uint16(ops[2]), m.reg(ops[0]))
	case OP_LDS:
		m.setReg(ops[0], m.load(uint16(ops[1])))
	case OP_STS:
		m.store(uint16(ops[1]), m.reg(ops[0]))
	case OP_LPM:
		z := m.pair(int(POINTER_Z))
		value, err := cpu.Program.Byte(z)
		m.check(err)
		m.setReg(ops[0], value)
		if ops[1] == MODE_POST_INC {
			m.setPair(int(POINTER_Z), z+1)
		}
	case OP_PUSH:
		m.push(m.reg(ops[0]))
	case OP_POP:
		m.setReg(ops[0], m.pop())
	case OP_IN:
		m.setReg(ops[0], m.load(IO_START+uint16(ops[1])))
	case OP_OUT:
		m.store(IO_START+uint16(ops[0]), m.reg(ops[1]))

	case OP_SBI, OP_CBI:
		addr := IO_START + uint16(ops[0])
		value := m.load(addr)
		if inst.Op == OP_SBI {
			value |= 1 << ops[1]
		} else {
			value &^= 1 << ops[1]
		}
		m.store(addr, value)
	case OP_SBIC, OP_SBIS:
		set := (m.load(IO_START+uint16(ops[0])) & (1 << ops[1])) != 0
		if set == (inst.Op == OP_SBIS) {
			m.skip(next)
		}

	case OP_RJMP:
		cpu.Pc.Jump(ops[0])
	case OP_RCALL:
		m.call(here, next)
		cpu.Pc.Jump(ops[0])
	case OP_IJMP:
		cpu.Pc.Set(m.pair(int(POINTER_Z)))
	case OP_ICALL:
		m.call(here, next)
		cpu.Pc.Set(m.pair(int(POINTER_Z)))
	case OP_JMP:
		cpu.Pc.Set(uint16(ops[0]))
	case OP_CALL:
		m.call(here, next)
		cpu.Pc.Set(uint16(ops[0]))
	case OP_RET:
		cpu.Pc.Set(m.popPc())
		if m.err == nil {
			cpu.Calls.Pop()
		}
	case OP_BRBS, OP_BRBC:
		if sr.Flag(1<<ops[0]) == (inst.Op == OP_BRBS) {
			cpu.Pc.Jump(ops[1])
		}

	case OP_BSET:
		sr.SetFlag(1<<ops[0], true)
	case OP_BCLR:
		sr.SetFlag(1<<ops[0], false)
	case OP_BST:
		sr.SetFlag(FLAG_T, (m.reg(ops[0])&(1<<ops[1])) != 0)
	case OP_BLD:
		value := m.reg(ops[0]) &^ (1 << ops[1])
		if sr.Flag(FLAG_T) {
			value |= 1 << ops[1]
		}
		m.setReg(ops[0], value)
	case OP_SBRC, OP_SBRS:
		set := (m.reg(ops[0]) & (1 << ops[1])) != 0
		if set == (inst.Op == OP_SBRS) {
			m.skip(next)
		}

	case OP_NOP, OP_SLEEP, OP_WDR:
		// No interrupts or watchdog to act on.
	case OP_BREAK:
		m.check(ErrBreak)
	}

	return m.err
}
