package cpu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// flagsOf packs individual flag values the way Status does.
func flagsOf(c, z, n, v, s, h bool) (flags uint8) {
	for mask, set := range map[uint8]bool{
		FLAG_C: c, FLAG_Z: z, FLAG_N: n, FLAG_V: v, FLAG_S: s, FLAG_H: h,
	} {
		if set {
			flags |= mask
		}
	}
	return
}

func TestAluAddExhaustive(t *testing.T) {
	alu := Alu{}

	for a := range 256 {
		for b := range 256 {
			for c := range 2 {
				sr := &Status{}
				r := alu.Add(uint8(a), uint8(b), c == 1, sr)

				sum := a + b + c
				signed := int(int8(a)) + int(int8(b)) + c
				n := (sum & 0x80) != 0
				v := signed < -128 || signed > 127
				expected := flagsOf(sum > 0xff, uint8(sum) == 0, n, v, n != v,
					(a&0xf)+(b&0xf)+c > 0xf)

				if uint8(sum) != r || expected != sr.Get() {
					t.Fatalf("add 0x%02x 0x%02x %d: got 0x%02x %v, expected 0x%02x %v",
						a, b, c, r, *sr, uint8(sum), Status{flags: expected})
				}
			}
		}
	}
}

func TestAluSubExhaustive(t *testing.T) {
	alu := Alu{}

	for a := range 256 {
		for b := range 256 {
			for c := range 2 {
				sr := &Status{}
				r := alu.Sub(uint8(a), uint8(b), c == 1, sr)

				diff := a - b - c
				signed := int(int8(a)) - int(int8(b)) - c
				n := (uint8(diff) & 0x80) != 0
				v := signed < -128 || signed > 127
				expected := flagsOf(diff < 0, uint8(diff) == 0, n, v, n != v,
					(a&0xf) < (b&0xf)+c)

				if uint8(diff) != r || expected != sr.Get() {
					t.Fatalf("sub 0x%02x 0x%02x %d: got 0x%02x %v, expected 0x%02x %v",
						a, b, c, r, *sr, uint8(diff), Status{flags: expected})
				}
			}
		}
	}
}

func TestAluInverse(t *testing.T) {
	alu := Alu{}
	sr := &Status{}

	for a := range 256 {
		for b := range 256 {
			r := alu.Sub(uint8(a), uint8(b), false, sr)
			r = alu.Add(r, uint8(b), false, sr)
			if r != uint8(a) {
				t.Fatalf("sub/add 0x%02x 0x%02x: got 0x%02x", a, b, r)
			}
		}
	}
}

func TestAluLogic(t *testing.T) {
	assert := assert.New(t)

	alu := Alu{}

	table := [](struct {
		name   string
		op     func(a, b uint8, sr *Status) uint8
		a, b   uint8
		result uint8
		flags  uint8
	}){
		{"and", alu.And, 0xf0, 0x0f, 0x00, FLAG_Z | FLAG_C},
		{"and_neg", alu.And, 0xf0, 0x80, 0x80, FLAG_N | FLAG_S | FLAG_C},
		{"or", alu.Or, 0x01, 0x02, 0x03, FLAG_C},
		{"eor", alu.Xor, 0x55, 0x55, 0x00, FLAG_Z | FLAG_C},
		{"eor_neg", alu.Xor, 0x7f, 0xff, 0x80, FLAG_N | FLAG_S | FLAG_C},
	}

	for _, entry := range table {
		// Carry and overflow preset: carry survives, overflow does not.
		sr := &Status{}
		sr.Set(FLAG_C | FLAG_V)
		r := entry.op(entry.a, entry.b, sr)
		assert.Equal(entry.result, r, entry.name)
		assert.Equal(entry.flags, sr.Get(), fmt.Sprintf("%v: %v", entry.name, sr))
	}
}

func TestAluUnary(t *testing.T) {
	assert := assert.New(t)

	alu := Alu{}

	table := [](struct {
		name   string
		op     func(a uint8, sr *Status) uint8
		carry  bool
		a      uint8
		result uint8
		flags  uint8
	}){
		{"com", alu.Com, false, 0x0f, 0xf0, FLAG_C | FLAG_N | FLAG_S},
		{"com_zero", alu.Com, false, 0xff, 0x00, FLAG_C | FLAG_Z},
		{"neg", alu.Neg, false, 0x01, 0xff, FLAG_C | FLAG_N | FLAG_S | FLAG_H},
		{"neg_zero", alu.Neg, false, 0x00, 0x00, FLAG_Z},
		{"neg_min", alu.Neg, false, 0x80, 0x80, FLAG_C | FLAG_N | FLAG_V},
		{"inc", alu.Inc, true, 0x01, 0x02, FLAG_C},
		{"inc_overflow", alu.Inc, false, 0x7f, 0x80, FLAG_N | FLAG_V},
		{"inc_wrap", alu.Inc, false, 0xff, 0x00, FLAG_Z},
		{"dec", alu.Dec, true, 0x02, 0x01, FLAG_C},
		{"dec_overflow", alu.Dec, false, 0x80, 0x7f, FLAG_V | FLAG_S},
		{"dec_zero", alu.Dec, false, 0x01, 0x00, FLAG_Z},
		{"lsr", alu.Lsr, false, 0x03, 0x01, FLAG_C | FLAG_V | FLAG_S},
		{"lsr_zero", alu.Lsr, false, 0x01, 0x00, FLAG_C | FLAG_Z | FLAG_V | FLAG_S},
		{"ror", alu.Ror, true, 0x02, 0x81, FLAG_N | FLAG_V},
		{"ror_out", alu.Ror, false, 0x01, 0x00, FLAG_C | FLAG_Z | FLAG_V | FLAG_S},
		{"asr", alu.Asr, false, 0x81, 0xc0, FLAG_C | FLAG_N | FLAG_S},
		{"asr_pos", alu.Asr, false, 0x40, 0x20, 0},
	}

	for _, entry := range table {
		sr := &Status{}
		sr.SetFlag(FLAG_C, entry.carry)
		r := entry.op(entry.a, sr)
		assert.Equal(entry.result, r, entry.name)
		assert.Equal(entry.flags, sr.Get(), fmt.Sprintf("%v: %v", entry.name, sr))
	}
}

func TestAluSwap(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint8(0x21), Alu{}.Swap(0x12))
	assert.Equal(uint8(0xff), Alu{}.Swap(0xff))
}
