// Package vm implements the register-based bytecode interpreter:
// fetch-decode-execute loop, register file, program counter, heap,
// equal flag and ro-data window (spec.md §3, §4.5). Grounded on the
// teacher's cpu/cpu.go shape (a struct holding registers and memory,
// with a dedicated Execute method), collapsed because this ISA has no
// separate decode step distinct from execute (every instruction is a
// fixed 4 bytes with fixed operand positions).
package vm

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/halvarsson/rvm/pie"
)

// NumRegisters is the fixed register file size (spec.md §3).
const NumRegisters = 32

// ErrHeaderIncorrect is returned by Start/Run when the loaded program
// does not begin with the PIE magic (spec.md §4.5).
var ErrHeaderIncorrect = errors.New("header incorrect")

// ErrDivisionByZero is returned by Step when DIV's divisor register is
// zero. spec.md §4.5 leaves this undefined-but-must-not-corrupt-state;
// trapping with an error satisfies that without wrapping or saturating.
var ErrDivisionByZero = errors.New("division by zero")

// VM is a single-threaded register machine (spec.md §5: no scheduler,
// no concurrency inside the run loop besides PRTS's synchronous write).
type VM struct {
	Registers [NumRegisters]int32
	Remainder int32
	EqualFlag bool

	Program []byte // owns the full loaded image: header + code
	RoData  []byte
	Heap    []byte

	pc uint32

	// Stdout receives PRTS output. Defaults to os.Stdout; tests and the
	// REPL may redirect it.
	Stdout io.Writer
}

// New returns a VM with no program loaded and all state zeroed.
func New() *VM {
	return &VM{Stdout: os.Stdout}
}

// PC returns the current program counter, a byte offset into Program.
func (vm *VM) PC() uint32 {
	return vm.pc
}

// Load installs img as the running program, replacing any previously
// loaded one: spec.md §3's "reloading truncates and re-appends" — the
// VM never retains bytes from an earlier Load once a new one completes.
// Code and ro_data travel together as a side channel (see pie.Image's
// doc comment and SPEC_FULL.md §4.5) rather than both being sliced back
// out of one concatenated byte stream.
func (vm *VM) Load(img pie.Image) {
	program := pie.WriteHeader(make([]byte, 0, pie.HeaderLength+len(img.Code)))
	program = append(program, img.Code...)
	vm.Program = program
	vm.RoData = append([]byte(nil), img.RoData...)
	vm.Heap = nil
	vm.pc = 0
}

// LoadRaw installs a raw image byte slice with no known ro_data split
// (e.g. a .bin file read back from disk, where the boundary between
// code and ro_data cannot be recovered without an out-of-band length —
// spec.md §6's documented limitation).
func (vm *VM) LoadRaw(raw []byte) {
	vm.Program = append([]byte(nil), raw...)
	vm.RoData = nil
	vm.Heap = nil
	vm.pc = 0
}

// Start verifies the header and positions pc at the first byte past it.
// Run and the REPL's free-form execution path both call this once
// before their first Step.
func (vm *VM) Start() error {
	if !pie.VerifyHeader(vm.Program) {
		return ErrHeaderIncorrect
	}
	vm.pc = pie.HeaderLength
	return nil
}

// Run executes from the current pc until HLT, IGL, or end of program
// (spec.md §4.5). If the header has not yet been verified this run, it
// verifies it first and positions pc past it.
func (vm *VM) Run() error {
	return vm.RunFor(0)
}

// RunFor behaves like Run but stops after maxCycles instructions even
// if the program has not halted, when maxCycles is positive. A
// maxCycles of 0 means unbounded. This backs cmd/rvm's "--cycles" flag,
// a debugging aid for runaway or looping programs that spec.md does not
// name but does not exclude either.
func (vm *VM) RunFor(maxCycles int) error {
	if vm.pc == 0 {
		if err := vm.Start(); err != nil {
			return err
		}
	}
	for cycles := 0; vm.pc < uint32(len(vm.Program)); cycles++ {
		if maxCycles > 0 && cycles >= maxCycles {
			return nil
		}
		done, err := vm.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return nil
}
