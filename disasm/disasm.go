// Package disasm renders a loaded image's code section back into
// human-readable text. It supplements the specification: spec.md names
// no disassembler, but the REPL's ".program" command (spec.md §6) needs
// some rendering of the currently loaded program, and original_source
// has no disassembler to borrow from either. Grounded on the teacher's
// disassembler package shape (an Instruction struct carrying an
// address, mnemonic and operands, produced by a linear sweep), reduced
// to a flat loop since this ISA has no variable-width instructions or
// control-flow-guided reachability to walk (see DESIGN.md).
package disasm

import (
	"fmt"
	"strings"

	"github.com/halvarsson/rvm/opcode"
	"github.com/halvarsson/rvm/pie"
)

// Instruction is one decoded, 4-byte-wide line of disassembly.
type Instruction struct {
	Address  uint32
	Op       opcode.Opcode
	Operands [3]uint8
}

// String renders the instruction as "<addr>: <mnemonic> <b0> <b1> <b2>".
func (i Instruction) String() string {
	return fmt.Sprintf("%04x: %-6s %3d %3d %3d", i.Address, i.Op, i.Operands[0], i.Operands[1], i.Operands[2])
}

// Disassemble sweeps code (with no header, offsets relative to
// pie.HeaderLength) four bytes at a time and returns one Instruction
// per word. Every opcode in this ISA is fixed-width, so a flat sweep
// never misaligns the way a variable-width sweep could.
func Disassemble(code []byte) []Instruction {
	var out []Instruction
	for off := 0; off+4 <= len(code); off += 4 {
		out = append(out, Instruction{
			Address:  pie.HeaderLength + uint32(off),
			Op:       opcode.FromByte(code[off]),
			Operands: [3]uint8{code[off+1], code[off+2], code[off+3]},
		})
	}
	return out
}

// Listing renders a full code section as newline-separated text.
func Listing(code []byte) string {
	instrs := Disassemble(code)
	lines := make([]string, len(instrs))
	for i, instr := range instrs {
		lines[i] = instr.String()
	}
	return strings.Join(lines, "\n")
}
