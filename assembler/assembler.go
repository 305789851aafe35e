// Package assembler implements the two-phase assembler: phase one
// discovers labels, sections and read-only data and resolves every
// symbol's offset; phase two re-walks the same parsed program and
// emits code bytes (spec.md §4.3). Grounded on the teacher's
// assembler/assembler.go Assemble method, which orchestrates its own
// multi-pass loop the same way: parse once, walk to stabilize offsets,
// walk again to generate bytes.
package assembler

import (
	"github.com/halvarsson/rvm/pie"
)

// Assembler holds the mutable state threaded through both phases of one
// Assemble call. A fresh Assembler should be used per call; its symbol
// table does not outlive the call (spec.md §3: "Symbols live for the
// duration of one assemble call").
type Assembler struct {
	symbols        *SymbolTable
	sections       []Section
	section        Section
	roData         []byte
	errs           Errors
	codeInstrCount uint32
}

// New returns an Assembler ready for one Assemble call.
func New() *Assembler {
	return &Assembler{symbols: NewSymbolTable()}
}

// Assemble lexes, parses, resolves and encodes source into a pie.Image.
// On any diagnostic raised during either phase, it returns all of them
// together as an Errors value rather than stopping at the first one
// (spec.md §7).
func (a *Assembler) Assemble(source string) (pie.Image, error) {
	program, err := Parse(source)
	if err != nil {
		return pie.Image{}, err
	}

	a.phaseOne(program)
	if !a.hasRequiredSections() {
		a.errs = append(a.errs, &InsufficientSectionsError{})
	}
	if len(a.errs) > 0 {
		return pie.Image{}, a.errs
	}

	code := a.phaseTwo(program)
	if len(a.errs) > 0 {
		return pie.Image{}, a.errs
	}

	return pie.Image{Code: code, RoData: a.roData}, nil
}

// Symbols exposes the resolved symbol table after a successful
// Assemble, for callers that need to keep resolving labels against it
// after the call.
func (a *Assembler) Symbols() *SymbolTable {
	return a.symbols
}

func (a *Assembler) phaseOne(program []*Instruction) {
	a.section = SectionUnknown
	for idx, instr := range program {
		if instr.Label != nil {
			a.declareLabel(instr.Label.Name, idx)
		}
		if instr.Directive != nil {
			a.processDirective(instr, idx)
			continue
		}
		if instr.Opcode != nil {
			if a.section == SectionUnknown {
				a.errs = append(a.errs, &NoSegmentDeclarationFoundError{InstructionIndex: idx})
			}
			a.codeInstrCount++
		}
	}
}

func (a *Assembler) declareLabel(name string, idx int) {
	if a.section == SectionUnknown {
		a.errs = append(a.errs, &NoSegmentDeclarationFoundError{InstructionIndex: idx})
		return
	}
	if a.symbols.Has(name) {
		a.errs = append(a.errs, &SymbolAlreadyDeclaredError{Name: name})
		return
	}
	a.symbols.Add(Symbol{Name: name, Type: SymbolLabel})
	if a.section == SectionCode {
		offset := uint32(pie.HeaderLength) + a.codeInstrCount*4
		a.symbols.SetOffset(name, offset)
	}
}

func (a *Assembler) hasRequiredSections() bool {
	var hasData, hasCode bool
	for _, s := range a.sections {
		switch s {
		case SectionData:
			hasData = true
		case SectionCode:
			hasCode = true
		}
	}
	return hasData && hasCode
}

func (a *Assembler) phaseTwo(program []*Instruction) []byte {
	var code []byte
	section := SectionUnknown
	for _, instr := range program {
		if instr.Directive != nil && len(instr.Operands()) == 0 {
			if sec := sectionFromName(instr.Directive.Name); sec != SectionUnknown {
				section = sec
			}
			continue
		}
		if instr.Opcode == nil {
			continue
		}
		if section != SectionCode {
			continue
		}
		code = append(code, Encode(instr, a.symbols)...)
	}
	return code
}
