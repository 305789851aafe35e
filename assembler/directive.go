package assembler

import "github.com/sirupsen/logrus"

// processDirective handles a directive-bearing instruction during
// phase one. A directive with no operands is a section header
// (".data"/".code"); one with operands is a data declaration
// (".asciiz"). Grounded on the teacher's assembler/directives.go shape
// (normalize the name, switch on it, dispatch to a handler) though none
// of the M68K directive bodies survive (see DESIGN.md).
func (a *Assembler) processDirective(instr *Instruction, idx int) {
	name := instr.Directive.Name

	if len(instr.Operands()) == 0 {
		a.enterSection(name)
		return
	}

	switch name {
	case "asciiz":
		a.handleAsciiz(instr, idx)
	default:
		a.errs = append(a.errs, &UnknownDirectiveFoundError{Name: name})
	}
}

func (a *Assembler) enterSection(name string) {
	sec := sectionFromName(name)
	if sec == SectionUnknown {
		logrus.WithField("directive", name).Warn("unrecognized section directive ignored")
		return
	}
	if len(a.sections) == 0 || a.sections[len(a.sections)-1] != sec {
		a.sections = append(a.sections, sec)
	}
	a.section = sec
}

func (a *Assembler) handleAsciiz(instr *Instruction, idx int) {
	if instr.Label == nil {
		a.errs = append(a.errs, &StringConstantDeclaredWithoutLabelError{InstructionIndex: idx})
		return
	}
	var text string
	if instr.Operand1 != nil && instr.Operand1.Kind == TokString {
		text = instr.Operand1.Text
	}
	offset := uint32(len(a.roData))
	a.symbols.SetOffset(instr.Label.Name, offset)
	a.roData = append(a.roData, []byte(text)...)
	a.roData = append(a.roData, 0)
}
