package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("r26", asm.Equate["XL"])
	assert.Equal("r31", asm.Equate["ZH"])
}

func opEqual(t *testing.T, expected, opcodes []Opcode) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(opcodes))
	if len(expected) == len(opcodes) {
		for n := range len(expected) {
			assert.Equal(expected[n], opcodes[n])
		}
	}
}

// assemble parses the program lines, failing the test on error.
func assemble(t *testing.T, asm *Assembler, program ...string) *Program {
	t.Helper()
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

func TestAssemblerBasic(t *testing.T) {
	asm := &Assembler{}

	prog := assemble(t, asm,
		"ldi r16, 5",
		"LDI r17,3 ; comment",
		"add r16, r17",
	)

	expected := []Opcode{
		{1, 0, []string{"ldi", "r16", "5"}, []uint16{0xe005}, ""},
		{2, 1, []string{"LDI", "r17", "3"}, []uint16{0xe013}, ""},
		{3, 2, []string{"add", "r16", "r17"}, []uint16{0x0f01}, ""},
	}

	opEqual(t, expected, prog.Opcodes)
	assert.Equal(t, []uint16{0xe005, 0xe013, 0x0f01}, prog.Binary())
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		".equ CONST_10 0x10",
		"ldi r16, CONST_10",
		"ldi r17, $(CONST_10 + CONST_10)",
		".equ CONST_30 = $(2 * CONST_10 + CONST_10)",
		"ldi r18, CONST_30",
		".def acc = r20",
		"inc acc",
		"ldi r19, $(LINENO * 8)",
		"ldi ZL, $(lo8(0x1234))",
		"ldi ZH, $(hi8(0x1234))",
		"ldi r16, 'A'",
	)

	assert.Equal([]uint16{
		0xe100, 0xe210, 0xe320, 0x9543, 0xe430, 0xe3e4, 0xe1f2, 0xe401,
	}, prog.Binary())
	assert.Equal([]string{"ldi", "r30", "52"}, prog.Opcodes[5].Text)
	assert.Equal("48", asm.Equate["CONST_30"])
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("RAMSTART", "0x0100")
	asm.Predefine("SREG", "0x3f")

	prog := assemble(t, asm,
		"sts RAMSTART, r6",
		"in r16, SREG",
		"lds r0, $(RAMSTART + 1)",
	)

	assert.Equal([]uint16{0x9260, 0x0100, 0xb70f, 0x9000, 0x0101}, prog.Binary())

	// Predefines survive a second parse.
	prog = assemble(t, asm, "in r16, SREG")
	assert.Equal([]uint16{0xb70f}, prog.Binary())
}

func TestAssemblerMacro(t *testing.T) {
	asm := &Assembler{}
	prog := assemble(t, asm,
		".macro SETADD rn a b",
		"ldi rn, a",
		"add rn, b",
		".endm",
		"SETADD r16 8 r17",
		"SETADD r18 $(4 + 4) r16",
		".macro SKIPZ",
		"breq @skip",
		"inc r0",
		"@skip:",
		".endm",
		"SKIPZ",
		"SKIPZ",
	)

	expected := []Opcode{
		{2, 0, []string{"ldi", "r16", "8"}, []uint16{0xe008}, ""},
		{3, 1, []string{"add", "r16", "r17"}, []uint16{0x0f01}, ""},
		{2, 2, []string{"ldi", "r18", "8"}, []uint16{0xe028}, ""},
		{3, 3, []string{"add", "r18", "r16"}, []uint16{0x0f20}, ""},
		{8, 4, []string{"breq", "SKIPZ_3_skip"}, []uint16{0xf009}, "SKIPZ_3_skip"},
		{9, 5, []string{"inc", "r0"}, []uint16{0x9403}, ""},
		{8, 6, []string{"breq", "SKIPZ_4_skip"}, []uint16{0xf009}, "SKIPZ_4_skip"},
		{9, 7, []string{"inc", "r0"}, []uint16{0x9403}, ""},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		"start: ldi r16, 3",
		"loop: dec r16",
		"brne loop",
		"rjmp done",
		"rcall sub",
		"jmp start",
		"",
		"sub: ALSO:",
		"ret",
		"done: nop",
	)

	assert.Equal([]uint16{
		0xe003, 0x950a, 0xf7f1, 0xc004, 0xd002, 0x940c, 0x0000, 0x9508, 0x0000,
	}, prog.Binary())
	assert.Equal(map[string]int{"start": 0, "loop": 1, "sub": 7, "ALSO": 7, "done": 8}, asm.Label)

	expected := []Opcode{
		{1, 0, []string{"ldi", "r16", "3"}, []uint16{0xe003}, ""},
		{2, 1, []string{"dec", "r16"}, []uint16{0x950a}, ""},
		{3, 2, []string{"brne", "loop"}, []uint16{0xf7f1}, "loop"},
		{4, 3, []string{"rjmp", "done"}, []uint16{0xc004}, "done"},
		{5, 4, []string{"rcall", "sub"}, []uint16{0xd002}, "sub"},
		{6, 5, []string{"jmp", "start"}, []uint16{0x940c, 0x0000}, "start"},
		{9, 7, []string{"ret"}, []uint16{0x9508}, ""},
		{10, 8, []string{"nop"}, []uint16{0x0000}, ""},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerRelative(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		"rjmp .+4",
		"breq .-2",
		"brbc 1, .+0",
		"rcall 5",
		"call 0x1000",
	)

	assert.Equal([]uint16{0xc002, 0xf3f9, 0xf401, 0xd005, 0x940e, 0x1000}, prog.Binary())
}

func TestAssemblerAlias(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		"clr r1",
		"tst r16",
		"lsl r0",
		"rol r0",
		"ser r16",
		"sec",
		"cli",
		"set",
		"sbr r16, 0x01",
		"cbr r16, 0x01",
		"brsh .+0",
		"bset 3",
		"bclr 4",
	)

	assert.Equal([]uint16{
		0x2411, 0x2300, 0x0c00, 0x1c00, 0xef0f, 0x9408, 0x94f8, 0x9468,
		0x6001, 0x7f0e, 0xf400, 0x9438, 0x94c8,
	}, prog.Binary())
}

func TestAssemblerMemory(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		"ld r0, X+",
		"st -Y, r1",
		"ldd r2, Z+5",
		"std Y+1, r3",
		"ld r4, Z",
		"lds r5, 0x0100",
		"lpm",
		"lpm r7, Z+",
		"out 0x3e, r17",
		"sbi 0x05, 3",
		"push r1",
		"pop r1",
		"movw r30, r24",
		"adiw r24, 1",
		".dw 0x1234, 'A'",
	)

	assert.Equal([]uint16{
		0x900d, 0x921a, 0x8025, 0x8239, 0x8040, 0x9050, 0x0100, 0x95c8,
		0x9075, 0xbf1e, 0x9a2b, 0x921f, 0x901f, 0x01fc, 0x9601, 0x1234,
		0x0041,
	}, prog.Binary())
}

func TestAssemblerRun(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		"; Sum 1 through 10 into r16, through a subroutine.",
		"        clr r16",
		"        ldi r17, 10",
		"loop:   rcall accumulate",
		"        dec r17",
		"        brne loop",
		"        rjmp end",
		"accumulate:",
		"        add r16, r17",
		"        ret",
		"end:",
	)

	cpu := NewCpu()
	assert.NoError(cpu.Load(prog.Binary()))
	assert.NoError(cpu.Run())
	assert.Equal(uint8(55), reg(cpu, 16))
	assert.Equal(uint16(RAMEND), cpu.Snapshot().Sp)
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
		err  error
	}){
		{"DUP:\nDUP:\n", 2, ErrLabelDuplicate},
		{"ldi r16, nothing", 1, nil},
		{"ldi r16, $(\"aaa\")", 1, nil},
		{"ldi r16, $(more(1))", 1, nil},
		{"ldi r16, $(0x10000000000000000)", 1, nil},
		{"ldi r15, 1", 1, ErrOperandRange},
		{"ldi r16, 256", 1, ErrOperandRange},
		{"adiw r24, 8\nadiw r24, 9", 2, ErrOperandRange},
		{"ldi r16", 1, ErrOpcodeValueMissing},
		{"ldi r16, 1, 2", 1, ErrOpcodeExtraArgs},
		{"add r0, r32", 1, ErrRegisterInvalid},
		{"add r0, X", 1, ErrRegisterInvalid},
		{"ld r0, W", 1, ErrPointerInvalid},
		{"ld r0, X+1", 1, ErrPointerInvalid},
		{"ldd r0, X", 1, ErrPointerInvalid},
		{"ld r0, -Z+", 1, ErrPointerInvalid},
		{"lpm r0, X", 1, ErrPointerInvalid},
		{".equ", 1, ErrEquateSyntax},
		{".equ A", 1, ErrEquateSyntax},
		{".equ A 1\n.equ A 2\n", 2, ErrEquateDuplicate},
		{".macro A B C\n.endm\nA 1\n", 3, ErrMacroSyntax},
		{".macro A B\nldi B, 1\n.endm\nA r0\n", 4, ErrOperandRange},
		{".macro A B\n.macro C\n.endm\n.endm", 2, ErrMacroNesting},
		{".macro A B\n.endm\n.macro A\n.endm\n", 3, ErrMacroDuplicate},
		{".macro A B\n.endm\n.endm\n", 3, ErrMacroLonelyEndm},
		{".macro A\nnop\n", 2, ErrMacroLonely},
		{".macro\n", 1, ErrMacroSyntax},
		{"rjmp", 1, ErrOpcodeValueMissing},
		{"nop\nrjmp nowhere\nnop\n", 2, ErrLabelMissing("nowhere")},
		{"brne far\n" + strings.Repeat("nop\n", 64) + "far: nop\n", 1, ErrBranchRange},
		{"jmp .+2", 1, ErrInstructionInvalid},
		{"bogus r0", 1, ErrInstructionInvalid},
		{"nop bad", 1, ErrOpcodeExtraArgs},
		{"sec 1", 1, ErrOpcodeExtraArgs},
		{"cbr r16", 1, ErrOpcodeValueMissing},
		{".dw", 1, ErrOpcodeValueMissing},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
			if entry.err != nil {
				assert.ErrorIs(err, entry.err, entry.prog)
			}
		}
	}
}
