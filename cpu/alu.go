package cpu

// Alu is the stateless arithmetic logic unit. Each operation returns its
// result and writes the flags it defines into sr, leaving the rest alone.
type Alu struct{}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Add returns a + b + carry.
func (Alu) Add(a, b uint8, carry bool, sr *Status) uint8 {
	c := b2u(carry)
	sum := uint16(a) + uint16(b) + uint16(c)
	result := uint8(sum)

	half := ((a & 0x0f) + (b & 0x0f) + c) > 0x0f
	negative := (result & 0x80) != 0
	overflow := (^(a ^ b) & (a ^ result) & 0x80) != 0

	sr.SetFlag(FLAG_H, half)
	sr.SetFlag(FLAG_N, negative)
	sr.SetFlag(FLAG_V, overflow)
	sr.SetFlag(FLAG_S, negative != overflow)
	sr.SetFlag(FLAG_Z, result == 0)
	sr.SetFlag(FLAG_C, sum > 0xff)

	return result
}

// Sub returns a - b - carry.
func (Alu) Sub(a, b uint8, carry bool, sr *Status) uint8 {
	c := b2u(carry)
	result := a - b - c

	half := (((a & 0x0f) - (b & 0x0f) - c) & 0x10) != 0
	negative := (result & 0x80) != 0
	overflow := ((a ^ b) & (a ^ result) & 0x80) != 0

	sr.SetFlag(FLAG_H, half)
	sr.SetFlag(FLAG_N, negative)
	sr.SetFlag(FLAG_V, overflow)
	sr.SetFlag(FLAG_S, negative != overflow)
	sr.SetFlag(FLAG_Z, result == 0)
	sr.SetFlag(FLAG_C, uint16(a) < uint16(b)+uint16(c))

	return result
}

// logic sets the flags shared by the bitwise operations.
func (Alu) logic(result uint8, sr *Status) uint8 {
	negative := (result & 0x80) != 0

	sr.SetFlag(FLAG_N, negative)
	sr.SetFlag(FLAG_Z, result == 0)
	sr.SetFlag(FLAG_S, negative)
	sr.SetFlag(FLAG_V, false)

	return result
}

func (alu Alu) And(a, b uint8, sr *Status) uint8 {
	return alu.logic(a&b, sr)
}

func (alu Alu) Or(a, b uint8, sr *Status) uint8 {
	return alu.logic(a|b, sr)
}

func (alu Alu) Xor(a, b uint8, sr *Status) uint8 {
	return alu.logic(a^b, sr)
}

// Com returns the one's complement of a. Carry is always set.
func (alu Alu) Com(a uint8, sr *Status) uint8 {
	result := alu.logic(^a, sr)
	sr.SetFlag(FLAG_C, true)
	return result
}

// Neg returns the two's complement of a.
func (alu Alu) Neg(a uint8, sr *Status) uint8 {
	return alu.Sub(0, a, false, sr)
}

// Inc returns a + 1. Carry and half carry are untouched.
func (Alu) Inc(a uint8, sr *Status) uint8 {
	result := a + 1
	negative := (result & 0x80) != 0
	overflow := result == 0x80

	sr.SetFlag(FLAG_N, negative)
	sr.SetFlag(FLAG_V, overflow)
	sr.SetFlag(FLAG_S, negative != overflow)
	sr.SetFlag(FLAG_Z, result == 0)

	return result
}

// Dec returns a - 1. Carry and half carry are untouched.
func (Alu) Dec(a uint8, sr *Status) uint8 {
	result := a - 1
	negative := (result & 0x80) != 0
	overflow := result == 0x7f

	sr.SetFlag(FLAG_N, negative)
	sr.SetFlag(FLAG_V, overflow)
	sr.SetFlag(FLAG_S, negative != overflow)
	sr.SetFlag(FLAG_Z, result == 0)

	return result
}

// shift sets the flags shared by the right shifts; out is the bit shifted
// into carry.
func (Alu) shift(result uint8, out bool, sr *Status) uint8 {
	negative := (result & 0x80) != 0
	overflow := negative != out

	sr.SetFlag(FLAG_C, out)
	sr.SetFlag(FLAG_N, negative)
	sr.SetFlag(FLAG_V, overflow)
	sr.SetFlag(FLAG_S, negative != overflow)
	sr.SetFlag(FLAG_Z, result == 0)

	return result
}

// Lsr shifts a right, bit 7 cleared.
func (alu Alu) Lsr(a uint8, sr *Status) uint8 {
	return alu.shift(a>>1, (a&1) != 0, sr)
}

// Ror rotates a right through carry.
func (alu Alu) Ror(a uint8, sr *Status) uint8 {
	return alu.shift((a>>1)|(b2u(sr.carry())<<7), (a&1) != 0, sr)
}

// Asr shifts a right, bit 7 held.
func (alu Alu) Asr(a uint8, sr *Status) uint8 {
	return alu.shift((a>>1)|(a&0x80), (a&1) != 0, sr)
}

// Swap exchanges the nibbles of a.
func (Alu) Swap(a uint8) uint8 {
	return (a << 4) | (a >> 4)
}
