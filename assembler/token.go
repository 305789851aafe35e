package assembler

import "github.com/halvarsson/rvm/opcode"

// TokenKind discriminates the shapes a Token can take (spec.md §3).
type TokenKind int

const (
	TokOp TokenKind = iota
	TokRegister
	TokInteger
	TokLabelDecl
	TokLabelUsage
	TokDirective
	TokString
)

// Token is the tagged variant produced by the lexer: exactly one of the
// fields below is meaningful, selected by Kind. Grounded on the
// teacher's Mnemonic/Operand value-struct shape (assembler/parse.go),
// collapsed to the single small-struct-with-discriminant form since
// this domain's token set is closed and flat.
type Token struct {
	Kind TokenKind
	Op   opcode.Opcode
	Reg  uint8
	Int  int32
	Name string // label or directive name, no leading '@'/'.'
	Text string // string literal contents, no surrounding quotes
}

// Instruction is one parsed line: at most one of Opcode or Directive is
// set, Label is set only if the line carried a "name:" prefix, and
// Operand1..3 are populated left to right (spec.md §3's
// AssemblerInstruction record).
type Instruction struct {
	Opcode    *Token
	Label     *Token
	Directive *Token
	Operand1  *Token
	Operand2  *Token
	Operand3  *Token
}

// Operands returns the populated operand slots in order, skipping nils.
func (i *Instruction) Operands() []*Token {
	out := make([]*Token, 0, 3)
	for _, t := range []*Token{i.Operand1, i.Operand2, i.Operand3} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
