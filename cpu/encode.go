package cpu

import (
	"errors"
)

// opBase is the opcode with all operand fields zero.
var opBase = map[Op]uint16{
	OP_NOP: 0x0000, OP_IJMP: 0x9409, OP_ICALL: 0x9509, OP_RET: 0x9508,
	OP_SLEEP: 0x9588, OP_BREAK: 0x9598, OP_WDR: 0x95a8,
	OP_BSET: 0x9408, OP_BCLR: 0x9488,
	OP_COM: 0x9400, OP_NEG: 0x9401, OP_SWAP: 0x9402, OP_INC: 0x9403,
	OP_ASR: 0x9405, OP_LSR: 0x9406, OP_ROR: 0x9407, OP_DEC: 0x940a,
	OP_LDS: 0x9000, OP_STS: 0x9200, OP_POP: 0x900f, OP_PUSH: 0x920f,
	OP_JMP: 0x940c, OP_CALL: 0x940e,
	OP_MOVW: 0x0100, OP_ADIW: 0x9600, OP_SBIW: 0x9700,
	OP_CBI: 0x9800, OP_SBIC: 0x9900, OP_SBI: 0x9a00, OP_SBIS: 0x9b00,
	OP_BLD: 0xf800, OP_BST: 0xfa00, OP_SBRC: 0xfc00, OP_SBRS: 0xfe00,
	OP_CPC: 0x0400, OP_SBC: 0x0800, OP_ADD: 0x0c00, OP_CPSE: 0x1000,
	OP_CP: 0x1400, OP_SUB: 0x1800, OP_ADC: 0x1c00, OP_AND: 0x2000,
	OP_EOR: 0x2400, OP_OR: 0x2800, OP_MOV: 0x2c00, OP_MUL: 0x9c00,
	OP_BRBS: 0xf000, OP_BRBC: 0xf400, OP_IN: 0xb000, OP_OUT: 0xb800,
	OP_CPI: 0x3000, OP_SBCI: 0x4000, OP_SUBI: 0x5000, OP_ORI: 0x6000,
	OP_ANDI: 0x7000, OP_LDI: 0xe000, OP_RJMP: 0xc000, OP_RCALL: 0xd000,
}

type pointerMode struct {
	ptr  Pointer
	mode int
}

var ldBase = map[pointerMode]uint16{
	{POINTER_X, MODE_PLAIN}:    0x900c,
	{POINTER_X, MODE_POST_INC}: 0x900d,
	{POINTER_X, MODE_PRE_DEC}:  0x900e,
	{POINTER_Y, MODE_PLAIN}:    0x8008,
	{POINTER_Y, MODE_POST_INC}: 0x9009,
	{POINTER_Y, MODE_PRE_DEC}:  0x900a,
	{POINTER_Z, MODE_PLAIN}:    0x8000,
	{POINTER_Z, MODE_POST_INC}: 0x9001,
	{POINTER_Z, MODE_PRE_DEC}:  0x9002,
}

// ST shares the LD layout with bit 9 set.
const stBit = 0x0200

// operands validates operand count and ranges. Each range is a lo/hi pair.
func operands(ops []int, ranges ...int) (err error) {
	if len(ops)*2 != len(ranges) {
		return ErrOperandCount
	}
	for n, op := range ops {
		if op < ranges[n*2] || op > ranges[n*2+1] {
			return errors.Join(ErrOperandRange, ErrIndex{Space: "operand", Index: op})
		}
	}
	return
}

// Encode assembles op and its operands, in Instruction operand order,
// into one or two program words.
func Encode(op Op, ops ...int) (words []uint16, err error) {
	base, ok := opBase[op]
	switch op {
	case OP_LD, OP_ST, OP_LDD, OP_STD, OP_LPM:
		ok = true
	}
	if !ok {
		err = ErrOpInvalid
		return
	}

	var word uint16
	switch op {
	case OP_NOP, OP_IJMP, OP_ICALL, OP_RET, OP_SLEEP, OP_BREAK, OP_WDR:
		err = operands(ops)
		word = base
	case OP_ADD, OP_ADC, OP_SUB, OP_SBC, OP_AND, OP_OR, OP_EOR,
		OP_CP, OP_CPC, OP_CPSE, OP_MOV, OP_MUL:
		err = operands(ops, 0, 31, 0, 31)
		if err == nil {
			d, r := uint16(ops[0]), uint16(ops[1])
			word = base | (d << 4) | (r & 0x0f) | ((r & 0x10) << 5)
		}
	case OP_MOVW:
		err = operands(ops, 0, 30, 0, 30)
		if err == nil && ((ops[0]|ops[1])&1) != 0 {
			err = ErrOperandRange
		}
		if err == nil {
			word = base | uint16(ops[0]/2)<<4 | uint16(ops[1]/2)
		}
	case OP_SUBI, OP_SBCI, OP_ANDI, OP_ORI, OP_CPI, OP_LDI:
		err = operands(ops, 16, 31, -128, 255)
		if err == nil {
			d, k := uint16(ops[0]-16), uint16(ops[1]&0xff)
			word = base | ((k & 0xf0) << 4) | (d << 4) | (k & 0x0f)
		}
	case OP_ADIW, OP_SBIW:
		err = operands(ops, 24, 30, 0, 63)
		if err == nil && (ops[0]&1) != 0 {
			err = ErrOperandRange
		}
		if err == nil && op == OP_ADIW && ops[0] == 24 && ops[1] == 9 {
			// 0x9609 executes as IJMP.
			err = errors.Join(ErrOperandRange, ErrIndex{Space: "operand", Index: ops[1]})
		}
		if err == nil {
			d, k := uint16(ops[0]-24)/2, uint16(ops[1])
			word = base | ((k & 0x30) << 2) | (d << 4) | (k & 0x0f)
		}
	case OP_COM, OP_NEG, OP_SWAP, OP_INC, OP_DEC, OP_ASR, OP_LSR, OP_ROR,
		OP_PUSH, OP_POP:
		err = operands(ops, 0, 31)
		if err == nil {
			word = base | uint16(ops[0])<<4
		}
	case OP_LD, OP_ST:
		err = operands(ops, 0, 31, int(POINTER_X), int(POINTER_Z), MODE_PLAIN, MODE_PRE_DEC)
		if err != nil {
			break
		}
		pattern, ok := ldBase[pointerMode{Pointer(ops[1]), ops[2]}]
		if !ok {
			err = ErrPointerInvalid
			break
		}
		if op == OP_ST {
			pattern |= stBit
		}
		word = pattern | uint16(ops[0])<<4
	case OP_LDD, OP_STD:
		err = operands(ops, 0, 31, int(POINTER_Y), int(POINTER_Z), 0, 63)
		if err != nil {
			break
		}
		var pattern uint16
		switch Pointer(ops[1]) {
		case POINTER_Y:
			pattern = 0x8008
		case POINTER_Z:
			pattern = 0x8000
		default:
			err = ErrPointerInvalid
			return
		}
		if op == OP_STD {
			pattern |= stBit
		}
		q := uint16(ops[2])
		word = pattern | ((q & 0x20) << 8) | ((q & 0x18) << 7) | (q & 0x07) | uint16(ops[0])<<4
	case OP_LDS, OP_STS:
		err = operands(ops, 0, 31, 0, 0xffff)
		if err == nil {
			words = []uint16{base | uint16(ops[0])<<4, uint16(ops[1])}
			return
		}
	case OP_LPM:
		if len(ops) == 0 {
			word = 0x95c8
			break
		}
		err = operands(ops, 0, 31, MODE_PLAIN, MODE_POST_INC)
		if err == nil {
			word = 0x9004 | uint16(ops[1]) | uint16(ops[0])<<4
		}
	case OP_IN:
		err = operands(ops, 0, 31, 0, 63)
		if err == nil {
			a := uint16(ops[1])
			word = base | ((a & 0x30) << 5) | uint16(ops[0])<<4 | (a & 0x0f)
		}
	case OP_OUT:
		err = operands(ops, 0, 63, 0, 31)
		if err == nil {
			a := uint16(ops[0])
			word = base | ((a & 0x30) << 5) | uint16(ops[1])<<4 | (a & 0x0f)
		}
	case OP_SBI, OP_CBI, OP_SBIC, OP_SBIS:
		err = operands(ops, 0, 31, 0, 7)
		if err == nil {
			word = base | uint16(ops[0])<<3 | uint16(ops[1])
		}
	case OP_RJMP, OP_RCALL:
		err = operands(ops, -2048, 2047)
		if err == nil {
			word = base | (uint16(ops[0]) & 0x0fff)
		}
	case OP_JMP, OP_CALL:
		err = operands(ops, 0, 0x3fffff)
		if err == nil {
			hi := uint16(ops[0] >> 16)
			words = []uint16{base | ((hi & 0x3e) << 3) | (hi & 0x01), uint16(ops[0])}
			return
		}
	case OP_BRBS, OP_BRBC:
		err = operands(ops, 0, 7, -64, 63)
		if err == nil {
			word = base | ((uint16(ops[1]) & 0x7f) << 3) | uint16(ops[0])
		}
	case OP_BSET, OP_BCLR:
		err = operands(ops, 0, 7)
		if err == nil {
			word = base | uint16(ops[0])<<4
		}
	case OP_BLD, OP_BST, OP_SBRC, OP_SBRS:
		err = operands(ops, 0, 31, 0, 7)
		if err == nil {
			word = base | uint16(ops[0])<<4 | uint16(ops[1])
		}
	default:
		err = ErrOpInvalid
	}

	if err != nil {
		return
	}

	words = []uint16{word}
	return
}
