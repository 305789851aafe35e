package assembler

import "fmt"

// NoSegmentDeclarationFoundError: a label or instruction appeared before
// any ".data"/".code" section header.
type NoSegmentDeclarationFoundError struct {
	InstructionIndex int
}

func (e *NoSegmentDeclarationFoundError) Error() string {
	return fmt.Sprintf("instruction %d: no segment declaration found", e.InstructionIndex)
}

// StringConstantDeclaredWithoutLabelError: an ".asciiz" directive has no
// preceding label to bind its offset to.
type StringConstantDeclaredWithoutLabelError struct {
	InstructionIndex int
}

func (e *StringConstantDeclaredWithoutLabelError) Error() string {
	return fmt.Sprintf("instruction %d: string constant declared without a label", e.InstructionIndex)
}

// SymbolAlreadyDeclaredError: a label name was declared twice.
type SymbolAlreadyDeclaredError struct {
	Name string
}

func (e *SymbolAlreadyDeclaredError) Error() string {
	return fmt.Sprintf("symbol %q already declared", e.Name)
}

// UnknownDirectiveFoundError: a directive carrying operands other than
// ".asciiz". An unknown directive with no operands is treated as an
// unrecognized section header and only logged as a warning.
type UnknownDirectiveFoundError struct {
	Name string
}

func (e *UnknownDirectiveFoundError) Error() string {
	return fmt.Sprintf("unknown directive %q", e.Name)
}

// InsufficientSectionsError: the program declared fewer than one ".data"
// and one ".code" section.
type InsufficientSectionsError struct{}

func (e *InsufficientSectionsError) Error() string {
	return "insufficient sections: at least one .data and one .code section are required"
}

// Errors collects every diagnostic raised during one Assemble call.
// Assembling never stops at the first error (spec.md §7): phase one
// runs to completion, accumulating every problem it finds, before
// Assemble reports them together.
type Errors []error

func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return "no errors"
	case 1:
		return e[0].Error()
	}
	s := fmt.Sprintf("%d assembler errors:", len(e))
	for _, err := range e {
		s += "\n  " + err.Error()
	}
	return s
}
