package assembler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/halvarsson/rvm/opcode"
)

// Grounded on the teacher's assembler/parse.go style of dispatching on a
// family of small regexes rather than a combinator library (spec.md
// explicitly leaves "the concrete text-parser combinators" out of
// scope, so any regex-driven hand lexer satisfying the grammar is fair
// game).
var (
	labelDeclRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):\s*(.*)$`)
	registerRe  = regexp.MustCompile(`^\$([0-9]+)$`)
	integerRe   = regexp.MustCompile(`^#(-?[0-9]+)$`)
	labelUseRe  = regexp.MustCompile(`^@([A-Za-z_][A-Za-z0-9_]*)$`)
	stringRe    = regexp.MustCompile(`^(?:'([A-Za-z0-9]*)'|"([A-Za-z0-9]*)")$`)
)

// Parse lexes and parses the full source text of a program into its
// instruction list, in source order. It performs no symbol resolution;
// that's the Assembler's job across its two phases (spec.md §4.3).
func Parse(source string) ([]*Instruction, error) {
	var program []*Instruction
	for lineNo, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		instr, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo+1)
		}
		program = append(program, instr)
	}
	return program, nil
}

func parseLine(line string) (*Instruction, error) {
	instr := &Instruction{}

	if m := labelDeclRe.FindStringSubmatch(line); m != nil {
		instr.Label = &Token{Kind: TokLabelDecl, Name: m[1]}
		line = strings.TrimSpace(m[2])
	}

	if line == "" {
		if instr.Label == nil {
			return nil, errors.New("empty instruction")
		}
		return instr, nil
	}

	fields := strings.Fields(line)
	head, rest := fields[0], fields[1:]

	if strings.HasPrefix(head, ".") {
		instr.Directive = &Token{Kind: TokDirective, Name: strings.TrimPrefix(head, ".")}
	} else {
		op := opcode.FromMnemonic(head)
		if op == opcode.IGL {
			return nil, errors.Errorf("unrecognized mnemonic %q", head)
		}
		instr.Opcode = &Token{Kind: TokOp, Op: op}
	}

	if len(rest) > 3 {
		return nil, errors.Errorf("too many operands: %q", line)
	}
	slots := []**Token{&instr.Operand1, &instr.Operand2, &instr.Operand3}
	for i, field := range rest {
		tok, err := parseOperand(field)
		if err != nil {
			return nil, err
		}
		*slots[i] = tok
	}
	return instr, nil
}

func parseOperand(field string) (*Token, error) {
	switch {
	case registerRe.MatchString(field):
		m := registerRe.FindStringSubmatch(field)
		n, err := strconv.ParseUint(m[1], 10, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "register operand %q", field)
		}
		return &Token{Kind: TokRegister, Reg: uint8(n)}, nil
	case integerRe.MatchString(field):
		m := integerRe.FindStringSubmatch(field)
		n, err := strconv.ParseInt(m[1], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "integer operand %q", field)
		}
		return &Token{Kind: TokInteger, Int: int32(n)}, nil
	case labelUseRe.MatchString(field):
		m := labelUseRe.FindStringSubmatch(field)
		return &Token{Kind: TokLabelUsage, Name: m[1]}, nil
	case stringRe.MatchString(field):
		m := stringRe.FindStringSubmatch(field)
		text := m[1]
		if text == "" {
			text = m[2]
		}
		return &Token{Kind: TokString, Text: text}, nil
	default:
		return nil, errors.Errorf("unrecognized operand %q", field)
	}
}
