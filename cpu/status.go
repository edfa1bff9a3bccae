package cpu

import (
	"strings"
)

// Status register flag masks.
const (
	FLAG_C = uint8(1 << 0) // Carry
	FLAG_Z = uint8(1 << 1) // Zero
	FLAG_N = uint8(1 << 2) // Negative
	FLAG_V = uint8(1 << 3) // Two's complement overflow
	FLAG_S = uint8(1 << 4) // Sign, N ^ V
	FLAG_H = uint8(1 << 5) // Half carry
	FLAG_T = uint8(1 << 6) // Bit copy storage
	FLAG_I = uint8(1 << 7) // Global interrupt enable
)

// Status is the 8-bit status register.
type Status struct {
	flags uint8
}

// SetFlag sets or clears the flags in mask.
func (sr *Status) SetFlag(mask uint8, value bool) {
	if value {
		sr.flags |= mask
	} else {
		sr.flags &^= mask
	}
}

// Flag returns true if any flag in mask is set.
func (sr Status) Flag(mask uint8) bool {
	return (sr.flags & mask) != 0
}

// Get returns the raw status byte.
func (sr Status) Get() uint8 {
	return sr.flags
}

// Set replaces the raw status byte.
func (sr *Status) Set(value uint8) {
	sr.flags = value
}

// Reset clears all flags.
func (sr *Status) Reset() {
	sr.flags = 0
}

// carry returns the C flag as an add/sub carry-in.
func (sr Status) carry() bool {
	return sr.Flag(FLAG_C)
}

// String returns the flags as "ITHSVNZC", with clear flags as '-'.
func (sr Status) String() string {
	var sb strings.Builder
	for n, ch := range "ITHSVNZC" {
		if (sr.flags & (0x80 >> n)) != 0 {
			sb.WriteRune(ch)
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}
