package cpu

import (
	"errors"

	"github.com/ezrec/avrsim/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrIndexOutOfRange   = errors.New(f("index out of range"))
	ErrProgramTooLarge   = errors.New(f("program too large"))
	ErrUnsupportedOpcode = errors.New(f("unsupported opcode"))
	ErrBreak             = errors.New(f("break"))

	// Encoder errors
	ErrOperandCount = errors.New(f("operand count"))
	ErrOperandRange = errors.New(f("operand out of range"))
	ErrOpInvalid    = errors.New(f("operation invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrPointerInvalid     = errors.New(f("pointer invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrBranchRange        = errors.New(f("branch target out of range"))
)

// ErrIndex is an out of range access to a register or memory space.
type ErrIndex struct {
	Space string // "register", "program", "data", ...
	Index int
}

func (err ErrIndex) Error() string {
	return f("%v index 0x%04x out of range", err.Space, err.Index)
}

func (err ErrIndex) Unwrap() error {
	return ErrIndexOutOfRange
}

// ErrOpcode is an opcode with no decode table entry.
type ErrOpcode uint16

func (eo ErrOpcode) Error() string {
	return f("unsupported opcode 0x%04x", uint16(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	if err == ErrUnsupportedOpcode {
		return true
	}
	_, ok = err.(ErrOpcode)
	return
}

// ErrFault is a fault raised while executing the instruction at Pc.
type ErrFault struct {
	Pc     uint16
	Opcode uint16
	Err    error
}

func (err *ErrFault) Error() string {
	return f("pc 0x%04x opcode 0x%04x: %v", err.Pc, err.Opcode, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
