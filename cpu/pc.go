package cpu

// ProgramCounter is the word index of the next instruction.
type ProgramCounter struct {
	pc uint16
}

func (pc *ProgramCounter) Reset() {
	pc.pc = 0
}

func (pc *ProgramCounter) Get() uint16 {
	return pc.pc
}

func (pc *ProgramCounter) Set(value uint16) {
	pc.pc = value
}

func (pc *ProgramCounter) Increment() {
	pc.pc++
}

// Decrement moves back one word, stopping at zero.
func (pc *ProgramCounter) Decrement() {
	if pc.pc > 0 {
		pc.pc--
	}
}

// Jump moves by a signed word displacement, modulo program memory size.
func (pc *ProgramCounter) Jump(displacement int) {
	target := (int(pc.pc) + displacement) % PROGRAM_WORDS
	if target < 0 {
		target += PROGRAM_WORDS
	}
	pc.pc = uint16(target)
}
