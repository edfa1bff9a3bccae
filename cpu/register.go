package cpu

import (
	"fmt"
)

// REGISTERS is the number of general purpose registers.
const REGISTERS = 32

// Pointer identifies a 16-bit register pair by its low register index.
type Pointer int

const (
	POINTER_X = Pointer(26) // r27:r26
	POINTER_Y = Pointer(28) // r29:r28
	POINTER_Z = Pointer(30) // r31:r30
)

func (p Pointer) String() string {
	switch p {
	case POINTER_X:
		return "X"
	case POINTER_Y:
		return "Y"
	case POINTER_Z:
		return "Z"
	}
	return fmt.Sprintf("r%d:r%d", int(p)+1, int(p))
}

// RegisterFile is the general purpose register bank.
type RegisterFile struct {
	regs [REGISTERS]uint8
}

// Read returns register index.
func (rf *RegisterFile) Read(index int) (value uint8, err error) {
	if index < 0 || index >= REGISTERS {
		err = ErrIndex{Space: "register", Index: index}
		return
	}
	value = rf.regs[index]
	return
}

// Write sets register index.
func (rf *RegisterFile) Write(index int, value uint8) (err error) {
	if index < 0 || index >= REGISTERS {
		err = ErrIndex{Space: "register", Index: index}
		return
	}
	rf.regs[index] = value
	return
}

// Pair returns the 16-bit value of the pair whose low byte is at index.
func (rf *RegisterFile) Pair(index int) (value uint16, err error) {
	lo, err := rf.Read(index)
	if err != nil {
		return
	}
	hi, err := rf.Read(index + 1)
	if err != nil {
		return
	}
	value = uint16(hi)<<8 | uint16(lo)
	return
}

// SetPair writes a 16-bit value, low byte to index, high byte to index+1.
func (rf *RegisterFile) SetPair(index int, value uint16) (err error) {
	if index < 0 || index+1 >= REGISTERS {
		err = ErrIndex{Space: "register", Index: index + 1}
		return
	}
	rf.regs[index] = uint8(value)
	rf.regs[index+1] = uint8(value >> 8)
	return
}

// Pointer returns the address held in pointer pair p.
func (rf *RegisterFile) Pointer(p Pointer) (uint16, error) {
	return rf.Pair(int(p))
}

// SetPointer sets the address held in pointer pair p.
func (rf *RegisterFile) SetPointer(p Pointer, value uint16) error {
	return rf.SetPair(int(p), value)
}

// Clear zeros all registers.
func (rf *RegisterFile) Clear() {
	clear(rf.regs[:])
}

// Snapshot returns a copy of the registers.
func (rf *RegisterFile) Snapshot() [REGISTERS]uint8 {
	return rf.regs
}
