// Package cpu implements the execution core and assembler of an 8-bit
// AVR-class microcontroller.
//
// The CPU consists of 32 8-bit general purpose registers (r0-r31), of
// which r26:r27, r28:r29 and r30:r31 form the X, Y and Z pointers, a
// status register, a program counter addressing 16K words of program
// memory, and 2304 bytes of data memory. The lowest 32 bytes of data
// memory are the register file, and the status register appears at
// I/O address 0x3F.
//
// Opcodes are decoded through an ordered mask/pattern table into an
// Instruction, which the Cpu applies to its own state.
//
// The assembler provides the architecture's assembly language, extended
// with macros, labels, equates, and compile-time expression evaluation.
package cpu
