package assembler

import (
	"encoding/binary"

	"github.com/halvarsson/rvm/opcode"
)

// Encode serializes one opcode-bearing instruction into exactly 4 bytes:
// the opcode byte followed by up to three operand bytes, zero-padded
// (spec.md §4.4). Label-usage operands are resolved against symbols;
// an unresolved label encodes as offset 0 rather than failing the
// encode. Neither Encode nor the assembler's phase one reports an
// unresolved label as an error.
//
// DJMPE is a special case: its single operand is an 8-bit absolute
// destination, not the general 16-bit big-endian offset every other
// label-usage operand uses (see SPEC_FULL.md §3).
func Encode(instr *Instruction, symbols *SymbolTable) []byte {
	op := instr.Opcode.Op
	out := make([]byte, 0, 4)
	out = append(out, op.Byte())

	for _, operand := range instr.Operands() {
		out = append(out, encodeOperand(operand, op, symbols)...)
	}

	for len(out) < 4 {
		out = append(out, 0)
	}
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

func encodeOperand(t *Token, op opcode.Opcode, symbols *SymbolTable) []byte {
	switch t.Kind {
	case TokRegister:
		return []byte{t.Reg}
	case TokInteger:
		buf := make([]byte, 2)
		binary.BigEndian.PutUint16(buf, uint16(t.Int))
		return buf
	case TokLabelUsage:
		offset, _ := symbols.Value(t.Name)
		if op == opcode.DJMPE {
			return []byte{byte(offset)}
		}
		buf := make([]byte, 2)
		binary.BigEndian.PutUint16(buf, uint16(offset))
		return buf
	default:
		return nil
	}
}
