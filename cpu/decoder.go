package cpu

// Handler extracts the operands of an opcode matched by a decode entry.
type Handler func(opcode uint16) (operands []int)

// Entry is a row of the decode table. An opcode matches when
// (opcode & Mask) == Pattern.
type Entry struct {
	Mask    uint16
	Pattern uint16
	Op      Op
	Words   int
	Handler Handler
}

// Match returns true if the entry decodes opcode.
func (entry Entry) Match(opcode uint16) bool {
	return (opcode & entry.Mask) == entry.Pattern
}

// Decoder is an ordered decode table. The first matching entry wins, so
// more specific masks precede more general ones.
type Decoder struct {
	entries []Entry
}

// Operand field extraction.

func fieldRd5(op uint16) int { return int((op >> 4) & 0x1f) }
func fieldRr5(op uint16) int { return int((op & 0x0f) | ((op >> 5) & 0x10)) }
func fieldRd4(op uint16) int { return 16 + int((op>>4)&0x0f) }
func fieldK8(op uint16) int  { return int((op & 0x0f) | ((op >> 4) & 0xf0)) }
func fieldA6(op uint16) int  { return int((op & 0x0f) | ((op >> 5) & 0x30)) }
func fieldA5(op uint16) int  { return int((op >> 3) & 0x1f) }
func fieldBit(op uint16) int { return int(op & 0x07) }
func fieldQ6(op uint16) int {
	return int((op & 0x07) | ((op >> 7) & 0x18) | ((op >> 8) & 0x20))
}

func fieldK12(op uint16) int {
	k := int(op & 0x0fff)
	if (k & 0x0800) != 0 {
		k -= 0x1000
	}
	return k
}

func fieldK7(op uint16) int {
	k := int((op >> 3) & 0x7f)
	if (k & 0x40) != 0 {
		k -= 0x80
	}
	return k
}

func handleNone(op uint16) []int  { return nil }
func handleRdRr(op uint16) []int  { return []int{fieldRd5(op), fieldRr5(op)} }
func handleRdK(op uint16) []int   { return []int{fieldRd4(op), fieldK8(op)} }
func handleRd(op uint16) []int    { return []int{fieldRd5(op)} }
func handleRdBit(op uint16) []int { return []int{fieldRd5(op), fieldBit(op)} }
func handleIoBit(op uint16) []int { return []int{fieldA5(op), fieldBit(op)} }
func handleK12(op uint16) []int   { return []int{fieldK12(op)} }

func handleMovw(op uint16) []int {
	return []int{int((op>>4)&0x0f) * 2, int(op&0x0f) * 2}
}

func handleWordK(op uint16) []int {
	return []int{24 + int((op>>4)&0x03)*2, int((op & 0x0f) | ((op >> 2) & 0x30))}
}

func handleSreg(op uint16) []int {
	return []int{int((op >> 4) & 0x07)}
}

func handleBranch(op uint16) []int {
	return []int{fieldBit(op), fieldK7(op)}
}

func handleLongK(op uint16) []int {
	return []int{int(((op >> 3) & 0x3e) | (op & 0x01))}
}

func handleIn(op uint16) []int  { return []int{fieldRd5(op), fieldA6(op)} }
func handleOut(op uint16) []int { return []int{fieldA6(op), fieldRd5(op)} }

func handlePointer(p Pointer, mode int) Handler {
	return func(op uint16) []int {
		return []int{fieldRd5(op), int(p), mode}
	}
}

func handleDisplacement(p Pointer) Handler {
	return func(op uint16) []int {
		return []int{fieldRd5(op), int(p), fieldQ6(op)}
	}
}

func handleLpm(mode int) Handler {
	return func(op uint16) []int {
		return []int{fieldRd5(op), mode}
	}
}

// NewDecoder creates a decoder holding the complete opcode table.
func NewDecoder() (dec *Decoder) {
	dec = &Decoder{}

	one := func(mask, pattern uint16, op Op, handler Handler) {
		dec.Add(Entry{Mask: mask, Pattern: pattern, Op: op, Words: 1, Handler: handler})
	}
	two := func(mask, pattern uint16, op Op, handler Handler) {
		dec.Add(Entry{Mask: mask, Pattern: pattern, Op: op, Words: 2, Handler: handler})
	}

	// Exact opcodes. IJMP also answers to 0x9609.
	one(0xffff, 0x0000, OP_NOP, handleNone)
	one(0xfdff, 0x9409, OP_IJMP, handleNone)
	one(0xffff, 0x9509, OP_ICALL, handleNone)
	one(0xffff, 0x9508, OP_RET, handleNone)
	one(0xffff, 0x9588, OP_SLEEP, handleNone)
	one(0xffff, 0x9598, OP_BREAK, handleNone)
	one(0xffff, 0x95a8, OP_WDR, handleNone)
	one(0xffff, 0x95c8, OP_LPM, func(uint16) []int { return []int{0, MODE_PLAIN} })

	// 1001 0100 Bsss 1000
	one(0xff8f, 0x9408, OP_BSET, handleSreg)
	one(0xff8f, 0x9488, OP_BCLR, handleSreg)

	// 1001 010d dddd xxxx
	one(0xfe0f, 0x9400, OP_COM, handleRd)
	one(0xfe0f, 0x9401, OP_NEG, handleRd)
	one(0xfe0f, 0x9402, OP_SWAP, handleRd)
	one(0xfe0f, 0x9403, OP_INC, handleRd)
	one(0xfe0f, 0x9405, OP_ASR, handleRd)
	one(0xfe0f, 0x9406, OP_LSR, handleRd)
	one(0xfe0f, 0x9407, OP_ROR, handleRd)
	one(0xfe0f, 0x940a, OP_DEC, handleRd)

	// 1001 000d dddd xxxx
	two(0xfe0f, 0x9000, OP_LDS, handleRd)
	one(0xfe0f, 0x9001, OP_LD, handlePointer(POINTER_Z, MODE_POST_INC))
	one(0xfe0f, 0x9002, OP_LD, handlePointer(POINTER_Z, MODE_PRE_DEC))
	one(0xfe0f, 0x9004, OP_LPM, handleLpm(MODE_PLAIN))
	one(0xfe0f, 0x9005, OP_LPM, handleLpm(MODE_POST_INC))
	one(0xfe0f, 0x9009, OP_LD, handlePointer(POINTER_Y, MODE_POST_INC))
	one(0xfe0f, 0x900a, OP_LD, handlePointer(POINTER_Y, MODE_PRE_DEC))
	one(0xfe0f, 0x900c, OP_LD, handlePointer(POINTER_X, MODE_PLAIN))
	one(0xfe0f, 0x900d, OP_LD, handlePointer(POINTER_X, MODE_POST_INC))
	one(0xfe0f, 0x900e, OP_LD, handlePointer(POINTER_X, MODE_PRE_DEC))
	one(0xfe0f, 0x900f, OP_POP, handleRd)

	// 1001 001r rrrr xxxx
	two(0xfe0f, 0x9200, OP_STS, handleRd)
	one(0xfe0f, 0x9201, OP_ST, handlePointer(POINTER_Z, MODE_POST_INC))
	one(0xfe0f, 0x9202, OP_ST, handlePointer(POINTER_Z, MODE_PRE_DEC))
	one(0xfe0f, 0x9209, OP_ST, handlePointer(POINTER_Y, MODE_POST_INC))
	one(0xfe0f, 0x920a, OP_ST, handlePointer(POINTER_Y, MODE_PRE_DEC))
	one(0xfe0f, 0x920c, OP_ST, handlePointer(POINTER_X, MODE_PLAIN))
	one(0xfe0f, 0x920d, OP_ST, handlePointer(POINTER_X, MODE_POST_INC))
	one(0xfe0f, 0x920e, OP_ST, handlePointer(POINTER_X, MODE_PRE_DEC))
	one(0xfe0f, 0x920f, OP_PUSH, handleRd)

	// 1001 010k kkkk 11xk
	two(0xfe0e, 0x940c, OP_JMP, handleLongK)
	two(0xfe0e, 0x940e, OP_CALL, handleLongK)

	one(0xff00, 0x0100, OP_MOVW, handleMovw)
	one(0xff00, 0x9600, OP_ADIW, handleWordK)
	one(0xff00, 0x9700, OP_SBIW, handleWordK)
	one(0xff00, 0x9800, OP_CBI, handleIoBit)
	one(0xff00, 0x9900, OP_SBIC, handleIoBit)
	one(0xff00, 0x9a00, OP_SBI, handleIoBit)
	one(0xff00, 0x9b00, OP_SBIS, handleIoBit)

	// 1111 1xxd dddd 0bbb
	one(0xfe08, 0xf800, OP_BLD, handleRdBit)
	one(0xfe08, 0xfa00, OP_BST, handleRdBit)
	one(0xfe08, 0xfc00, OP_SBRC, handleRdBit)
	one(0xfe08, 0xfe00, OP_SBRS, handleRdBit)

	// xxxx xxrd dddd rrrr
	one(0xfc00, 0x0400, OP_CPC, handleRdRr)
	one(0xfc00, 0x0800, OP_SBC, handleRdRr)
	one(0xfc00, 0x0c00, OP_ADD, handleRdRr)
	one(0xfc00, 0x1000, OP_CPSE, handleRdRr)
	one(0xfc00, 0x1400, OP_CP, handleRdRr)
	one(0xfc00, 0x1800, OP_SUB, handleRdRr)
	one(0xfc00, 0x1c00, OP_ADC, handleRdRr)
	one(0xfc00, 0x2000, OP_AND, handleRdRr)
	one(0xfc00, 0x2400, OP_EOR, handleRdRr)
	one(0xfc00, 0x2800, OP_OR, handleRdRr)
	one(0xfc00, 0x2c00, OP_MOV, handleRdRr)
	one(0xfc00, 0x9c00, OP_MUL, handleRdRr)

	// 1111 0xkk kkkk ksss
	one(0xfc00, 0xf000, OP_BRBS, handleBranch)
	one(0xfc00, 0xf400, OP_BRBC, handleBranch)

	// 1011 xAAd dddd AAAA
	one(0xf800, 0xb000, OP_IN, handleIn)
	one(0xf800, 0xb800, OP_OUT, handleOut)

	// 10q0 qqxd dddd yqqq
	one(0xd208, 0x8000, OP_LDD, handleDisplacement(POINTER_Z))
	one(0xd208, 0x8008, OP_LDD, handleDisplacement(POINTER_Y))
	one(0xd208, 0x8200, OP_STD, handleDisplacement(POINTER_Z))
	one(0xd208, 0x8208, OP_STD, handleDisplacement(POINTER_Y))

	// xxxx KKKK dddd KKKK
	one(0xf000, 0x3000, OP_CPI, handleRdK)
	one(0xf000, 0x4000, OP_SBCI, handleRdK)
	one(0xf000, 0x5000, OP_SUBI, handleRdK)
	one(0xf000, 0x6000, OP_ORI, handleRdK)
	one(0xf000, 0x7000, OP_ANDI, handleRdK)
	one(0xf000, 0xe000, OP_LDI, handleRdK)

	// xxxx kkkk kkkk kkkk
	one(0xf000, 0xc000, OP_RJMP, handleK12)
	one(0xf000, 0xd000, OP_RCALL, handleK12)

	return
}

// Add appends an entry to the end of the table.
func (dec *Decoder) Add(entry Entry) {
	if entry.Words == 0 {
		entry.Words = 1
	}
	dec.entries = append(dec.entries, entry)
}

// Entries returns a copy of the table in match order.
func (dec *Decoder) Entries() []Entry {
	return append([]Entry(nil), dec.entries...)
}

// Lookup returns the table index of the first entry matching opcode.
func (dec *Decoder) Lookup(opcode uint16) (index int, ok bool) {
	for n, entry := range dec.entries {
		if entry.Match(opcode) {
			return n, true
		}
	}
	return -1, false
}

// Decode returns a fresh instruction for opcode. Two word instructions
// are returned without their address word.
func (dec *Decoder) Decode(opcode uint16) (inst Instruction, err error) {
	index, ok := dec.Lookup(opcode)
	if !ok {
		err = ErrOpcode(opcode)
		return
	}

	entry := dec.entries[index]
	inst = Instruction{
		Opcode: opcode,
		Op:     entry.Op,
		Words:  entry.Words,
	}
	if entry.Handler != nil {
		inst.Operands = entry.Handler(opcode)
	}

	return
}
