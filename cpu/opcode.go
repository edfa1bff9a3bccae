package cpu

import (
	"fmt"
	"strings"
)

// Op identifies a decoded operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_INVALID = Op(iota) // INVALID

	// Register-register
	OP_ADD  // ADD
	OP_ADC  // ADC
	OP_SUB  // SUB
	OP_SBC  // SBC
	OP_AND  // AND
	OP_OR   // OR
	OP_EOR  // EOR
	OP_CP   // CP
	OP_CPC  // CPC
	OP_CPSE // CPSE
	OP_MOV  // MOV
	OP_MOVW // MOVW
	OP_MUL  // MUL

	// Register-immediate
	OP_SUBI // SUBI
	OP_SBCI // SBCI
	OP_ANDI // ANDI
	OP_ORI  // ORI
	OP_CPI  // CPI
	OP_LDI  // LDI
	OP_ADIW // ADIW
	OP_SBIW // SBIW

	// Single register
	OP_COM  // COM
	OP_NEG  // NEG
	OP_SWAP // SWAP
	OP_INC  // INC
	OP_DEC  // DEC
	OP_ASR  // ASR
	OP_LSR  // LSR
	OP_ROR  // ROR

	// Data transfer
	OP_LD   // LD
	OP_LDD  // LDD
	OP_LDS  // LDS
	OP_ST   // ST
	OP_STD  // STD
	OP_STS  // STS
	OP_LPM  // LPM
	OP_PUSH // PUSH
	OP_POP  // POP
	OP_IN   // IN
	OP_OUT  // OUT

	// I/O bit
	OP_SBI  // SBI
	OP_CBI  // CBI
	OP_SBIC // SBIC
	OP_SBIS // SBIS

	// Flow
	OP_RJMP  // RJMP
	OP_RCALL // RCALL
	OP_IJMP  // IJMP
	OP_ICALL // ICALL
	OP_JMP   // JMP
	OP_CALL  // CALL
	OP_RET   // RET
	OP_BRBS  // BRBS
	OP_BRBC  // BRBC

	// Bit
	OP_BSET // BSET
	OP_BCLR // BCLR
	OP_BST  // BST
	OP_BLD  // BLD
	OP_SBRC // SBRC
	OP_SBRS // SBRS

	// MCU control
	OP_NOP   // NOP
	OP_SLEEP // SLEEP
	OP_WDR   // WDR
	OP_BREAK // BREAK

	op_count
)

// Ops returns every valid operation.
func Ops() (ops []Op) {
	for op := OP_INVALID + 1; op < op_count; op++ {
		ops = append(ops, op)
	}
	return
}

// Pointer addressing modes for LD and ST.
const (
	MODE_PLAIN    = 0 // (P)
	MODE_POST_INC = 1 // (P+)
	MODE_PRE_DEC  = 2 // (-P)
)

// Instruction is a decoded opcode.
//
// Operand order follows assembly syntax, except LD and ST which are both
// (register, pointer, mode) and LDD and STD which are both (register,
// pointer, displacement).
type Instruction struct {
	Opcode   uint16
	Op       Op
	Operands []int
	Words    int // 1, or 2 when an address word follows the opcode.
}

// Mnemonic returns the instruction's mnemonic.
func (inst Instruction) Mnemonic() string {
	return inst.Op.String()
}

// extend folds the address word of a two word instruction into the
// operands.
func (inst *Instruction) extend(word uint16) {
	switch inst.Op {
	case OP_JMP, OP_CALL:
		inst.Operands[0] = (inst.Operands[0] << 16) | int(word)
	case OP_LDS, OP_STS:
		inst.Operands = append(inst.Operands, int(word))
	}
}

// branchNames are the conventional names of BRBS/BRBC by status bit.
var branchNames = [2][8]string{
	{"BRCC", "BRNE", "BRPL", "BRVC", "BRGE", "BRHC", "BRTC", "BRID"},
	{"BRCS", "BREQ", "BRMI", "BRVS", "BRLT", "BRHS", "BRTS", "BRIE"},
}

// String returns the instruction in assembly syntax.
func (inst Instruction) String() string {
	ops := inst.Operands
	name := strings.ToLower(inst.Op.String())
	reg := func(n int) string { return fmt.Sprintf("r%d", ops[n]) }
	ptr := func() string {
		p := Pointer(ops[1]).String()
		switch ops[2] {
		case MODE_POST_INC:
			p += "+"
		case MODE_PRE_DEC:
			p = "-" + p
		}
		return p
	}

	var args []string
	switch inst.Op {
	case OP_ADD, OP_ADC, OP_SUB, OP_SBC, OP_AND, OP_OR, OP_EOR,
		OP_CP, OP_CPC, OP_CPSE, OP_MOV, OP_MOVW, OP_MUL:
		args = []string{reg(0), reg(1)}
	case OP_SUBI, OP_SBCI, OP_ANDI, OP_ORI, OP_CPI, OP_LDI, OP_ADIW, OP_SBIW:
		args = []string{reg(0), fmt.Sprintf("0x%02x", ops[1])}
	case OP_COM, OP_NEG, OP_SWAP, OP_INC, OP_DEC, OP_ASR, OP_LSR, OP_ROR,
		OP_PUSH, OP_POP:
		args = []string{reg(0)}
	case OP_LD:
		args = []string{reg(0), ptr()}
	case OP_ST:
		args = []string{ptr(), reg(0)}
	case OP_LDD:
		args = []string{reg(0), fmt.Sprintf("%v+%d", Pointer(ops[1]), ops[2])}
	case OP_STD:
		args = []string{fmt.Sprintf("%v+%d", Pointer(ops[1]), ops[2]), reg(0)}
	case OP_LDS:
		args = []string{reg(0)}
		if len(ops) > 1 {
			args = append(args, fmt.Sprintf("0x%04x", ops[1]))
		}
	case OP_STS:
		if len(ops) > 1 {
			args = append(args, fmt.Sprintf("0x%04x", ops[1]))
		}
		args = append(args, reg(0))
	case OP_LPM:
		if inst.Opcode != 0x95c8 {
			z := "Z"
			if ops[1] == MODE_POST_INC {
				z = "Z+"
			}
			args = []string{reg(0), z}
		}
	case OP_IN:
		args = []string{reg(0), fmt.Sprintf("0x%02x", ops[1])}
	case OP_OUT:
		args = []string{fmt.Sprintf("0x%02x", ops[0]), reg(1)}
	case OP_SBI, OP_CBI, OP_SBIC, OP_SBIS:
		args = []string{fmt.Sprintf("0x%02x", ops[0]), fmt.Sprint(ops[1])}
	case OP_RJMP, OP_RCALL:
		args = []string{fmt.Sprintf(".%+d", ops[0]*2)}
	case OP_JMP, OP_CALL:
		args = []string{fmt.Sprintf("0x%x", ops[0]*2)}
	case OP_BRBS, OP_BRBC:
		set := 0
		if inst.Op == OP_BRBS {
			set = 1
		}
		name = strings.ToLower(branchNames[set][ops[0]&7])
		args = []string{fmt.Sprintf(".%+d", ops[1]*2)}
	case OP_BSET, OP_BCLR:
		args = []string{fmt.Sprint(ops[0])}
	case OP_BST, OP_BLD, OP_SBRC, OP_SBRS:
		args = []string{reg(0), fmt.Sprint(ops[1])}
	}

	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, ", ")
}
