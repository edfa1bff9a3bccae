package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// sample is a program with a two word opcode and a gap.
func sample() *Program {
	return &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Pc: 0, Text: []string{"ldi", "r16", "16"}, Codes: []uint16{0xe100}},
			{LineNo: 2, Pc: 1, Text: []string{"jmp", "end"}, Codes: []uint16{0x940c, 0x0004}, LinkLabel: "end"},
			{LineNo: 4, Pc: 4, Text: []string{"nop"}, Codes: []uint16{0x0000}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := sample()

	table := [](struct {
		pc     uint16
		lineno int
		index  int
	}){
		{0, 1, 0},
		{1, 2, 0},
		{2, 2, 1},
		{4, 4, 0},
	}

	for _, entry := range table {
		dbg := prog.Debug(entry.pc)
		if assert.NotNil(dbg.Opcode, "pc %v", entry.pc) {
			assert.Equal(entry.lineno, dbg.LineNo, "pc %v", entry.pc)
			assert.Equal(entry.index, dbg.Index, "pc %v", entry.pc)
		}
	}
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := sample()

	for _, pc := range []uint16{3, 5, 0xffff} {
		dbg := prog.Debug(pc)
		assert.Nil(dbg.Opcode, "pc %v", pc)
		assert.Equal(0, dbg.Index)
	}
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]uint16{0xe100, 0x940c, 0x0004, 0x0000, 0x0000}, sample().Binary())
	assert.Empty((&Program{}).Binary())
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	pcs := []uint16{}
	codes := []uint16{}
	for pc, code := range sample().Codes() {
		pcs = append(pcs, pc)
		codes = append(codes, code)
	}

	assert.Equal([]uint16{0, 1, 2, 4}, pcs)
	assert.Equal([]uint16{0xe100, 0x940c, 0x0004, 0x0000}, codes)
}

func TestProgram_Codes_EarlyReturn(t *testing.T) {
	assert := assert.New(t)

	count := 0
	for range sample().Codes() {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(2, count)
}

func TestProgram_Integration_ParseAndDebug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := strings.Join([]string{
		"ldi r16, 1",
		"; nothing here",
		"lds r17, 0x0100",
		"add r16, r17",
	}, "\n")

	prog, err := asm.Parse(strings.NewReader(program))
	assert.NoError(err)

	assert.Equal(1, prog.Debug(0).LineNo)
	assert.Equal(3, prog.Debug(1).LineNo)
	assert.Equal(3, prog.Debug(2).LineNo)
	assert.Equal(1, prog.Debug(2).Index)
	assert.Equal(4, prog.Debug(3).LineNo)
	assert.Equal([]string{"add", "r16", "r17"}, prog.Debug(3).Text)
}
