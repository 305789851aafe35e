// Package repl implements the interactive line-oriented shell spec.md
// §6 names as an external collaborator and specifies only by its six
// commands. Behavior is grounded line-for-line (not text-for-text) on
// original_source/src/repl/mod.rs's command dispatch, re-expressed in
// the teacher's Go idiom: structured logging via logrus instead of bare
// println!, and explicit error returns instead of Rust's .expect()
// panics.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/halvarsson/rvm/assembler"
	"github.com/halvarsson/rvm/disasm"
	"github.com/halvarsson/rvm/pie"
	"github.com/halvarsson/rvm/vm"
)

// REPL holds one VM and one persistent symbol table for its lifetime —
// a local scope, not process-wide state (spec.md §9).
type REPL struct {
	VM      *vm.VM
	symbols *assembler.SymbolTable
	history []string

	in  *bufio.Scanner
	out io.Writer
}

// New returns a REPL reading commands from in and writing output to out.
func New(in io.Reader, out io.Writer) *REPL {
	m := vm.New()
	m.Stdout = out
	m.Program = pie.WriteHeader(nil)
	return &REPL{
		VM:      m,
		symbols: assembler.NewSymbolTable(),
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// NewStdio returns a REPL wired to os.Stdin/os.Stdout.
func NewStdio() *REPL {
	return New(os.Stdin, os.Stdout)
}

// Run reads and dispatches commands until ".quit" or end of input.
func (r *REPL) Run() error {
	for {
		fmt.Fprint(r.out, "rvm> ")
		if !r.in.Scan() {
			return r.in.Err()
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		r.history = append(r.history, line)

		quit, err := r.dispatch(line)
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (r *REPL) dispatch(line string) (quit bool, err error) {
	switch line {
	case ".quit":
		return true, nil
	case ".history":
		for _, cmd := range r.history {
			fmt.Fprintln(r.out, cmd)
		}
		return false, nil
	case ".program":
		fmt.Fprintln(r.out, disasm.Listing(r.VM.Program[pie.HeaderLength:]))
		return false, nil
	case ".registers":
		fmt.Fprintf(r.out, "%v\n", r.VM.Registers)
		return false, nil
	case ".clear_program":
		r.VM.Program = pie.WriteHeader(nil)
		return false, r.VM.Start()
	case ".load_file":
		return false, r.loadFile()
	default:
		return false, r.runOne(line)
	}
}

// loadFile prompts for a path, assembles its contents, and replaces the
// running program wholesale, then runs it to completion. Grounded on
// original_source's ".load_file" branch, which is the one REPL command
// that assembles a full program rather than one instruction.
func (r *REPL) loadFile() error {
	fmt.Fprint(r.out, "file path: ")
	if !r.in.Scan() {
		return r.in.Err()
	}
	path := strings.TrimSpace(r.in.Text())
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img, err := assembler.New().Assemble(string(contents))
	if err != nil {
		return err
	}
	r.VM.Load(img)
	return r.VM.Run()
}

// runOne lexes line as a single instruction, encodes it against the
// REPL's persistent symbol table, appends it to the running program,
// and executes just that one instruction. Grounded on original_source's
// default case, which parses one instruction directly rather than
// invoking the full two-phase Assembler.
func (r *REPL) runOne(line string) error {
	program, err := assembler.Parse(line)
	if err != nil {
		return err
	}
	if len(program) == 0 || program[0].Opcode == nil {
		return fmt.Errorf("not an instruction: %q", line)
	}
	bytes := assembler.Encode(program[0], r.symbols)
	r.VM.Program = append(r.VM.Program, bytes...)
	if r.VM.PC() == 0 {
		if err := r.VM.Start(); err != nil {
			return err
		}
	}
	_, err = r.VM.Step()
	if err != nil {
		logrus.WithError(err).Warn("instruction execution failed")
	}
	return err
}
