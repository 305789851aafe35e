package vm_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/halvarsson/rvm/pie"
	"github.com/halvarsson/rvm/vm"
)

func newRunning(code []byte) *vm.VM {
	m := vm.New()
	m.Load(pie.Image{Code: code})
	if err := m.Start(); err != nil {
		panic(err)
	}
	return m
}

func TestLoad500(t *testing.T) {
	m := newRunning([]byte{0, 0, 0x01, 0xF4})
	if _, err := m.Step(); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if m.Registers[0] != 500 {
		t.Fatalf("R[0] = %d, want 500", m.Registers[0])
	}
}

func TestAdd(t *testing.T) {
	m := newRunning([]byte{1, 0, 1, 2})
	m.Registers[0] = 5
	m.Registers[1] = 10
	if _, err := m.Step(); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if m.Registers[2] != 15 {
		t.Fatalf("R[2] = %d, want 15", m.Registers[2])
	}
}

func TestJmpb(t *testing.T) {
	m := newRunning([]byte{0, 0, 0, 10, 9, 1, 0, 0})
	m.Registers[1] = 6
	if _, err := m.Step(); err != nil { // executes the LOAD at offset header_len
		t.Fatalf("Step returned error: %v", err)
	}
	if _, err := m.Step(); err != nil { // executes the JMPB at offset header_len+4
		t.Fatalf("Step returned error: %v", err)
	}
	want := pie.HeaderLength + 4 - 6
	if m.PC() != uint32(want) {
		t.Fatalf("pc = %d, want %d", m.PC(), want)
	}
}

func TestPrts(t *testing.T) {
	m := newRunning([]byte{23, 0, 0, 0})
	m.RoData = []byte{'H', 'e', 'l', 'l', 'o', 0}
	var out bytes.Buffer
	m.Stdout = &out
	if _, err := m.Step(); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if out.String() != "Hello" {
		t.Fatalf("stdout = %q, want %q", out.String(), "Hello")
	}
}

func TestHeaderIncorrect(t *testing.T) {
	m := vm.New()
	m.LoadRaw([]byte{0, 0, 0, 0})
	if err := m.Start(); err != vm.ErrHeaderIncorrect {
		t.Fatalf("Start() error = %v, want ErrHeaderIncorrect", err)
	}
}

func TestRunToHalt(t *testing.T) {
	// load $0 #7 ; hlt
	code := []byte{0, 0, 0, 7, 5, 0, 0, 0}
	m := vm.New()
	m.Load(pie.Image{Code: code})
	if err := m.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if m.Registers[0] != 7 {
		t.Fatalf("R[0] = %d, want 7", m.Registers[0])
	}
}

func TestDjmpeTakenAndNotTaken(t *testing.T) {
	m := newRunning([]byte{21, 5, 0, 0})
	m.EqualFlag = true
	if _, err := m.Step(); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if m.PC() != 5 {
		t.Fatalf("pc = %d, want 5", m.PC())
	}

	m2 := newRunning([]byte{21, 5, 0, 0, 22, 0, 0, 0})
	m2.EqualFlag = false
	if _, err := m2.Step(); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	// Not-taken DJMPE reads opcode+dest+one skip byte: 3 of its 4 bytes,
	// a preserved quirk (spec.md §9), so pc lands one byte short of the
	// next instruction rather than exactly on it.
	if want := uint32(pie.HeaderLength + 3); m2.PC() != want {
		t.Fatalf("pc = %d, want %d", m2.PC(), want)
	}
}

func TestDivisionByZero(t *testing.T) {
	m := newRunning([]byte{4, 0, 1, 2})
	m.Registers[0] = 10
	m.Registers[1] = 0
	if _, err := m.Step(); err != vm.ErrDivisionByZero {
		t.Fatalf("Step error = %v, want ErrDivisionByZero", err)
	}
}

// TestPCMonotonicityForNonBranchingOpcodes checks spec.md §8's "Program-counter monotonicity for
// non-branching opcodes" property: pc advances by exactly 4 after each
// of these opcodes.
func TestPCMonotonicityForNonBranchingOpcodes(t *testing.T) {
	nonBranching := [][]byte{
		{0, 0, 0, 1},  // LOAD
		{1, 0, 1, 2},  // ADD
		{2, 0, 1, 2},  // SUB
		{3, 0, 1, 2},  // MUL
		{10, 0, 1, 0}, // EQ
		{11, 0, 1, 0}, // NEQ
		{12, 0, 1, 0}, // GT
		{13, 0, 1, 0}, // LT
		{14, 0, 1, 0}, // GTE
		{15, 0, 1, 0}, // LTE
		{18, 0, 0, 0}, // ALOC
		{19, 0, 0, 0}, // INC
		{20, 0, 0, 0}, // DEC
		{22, 0, 0, 0}, // NOP
	}
	for _, code := range nonBranching {
		m := newRunning(code)
		before := m.PC()
		if _, err := m.Step(); err != nil {
			t.Fatalf("Step(% x) returned error: %v", code, err)
		}
		if got := m.PC() - before; got != 4 {
			t.Errorf("Step(% x): pc advanced by %d, want 4", code, got)
		}
	}
}

func TestRegisterSnapshotAfterArithmetic(t *testing.T) {
	// load $0 #3 ; load $1 #4 ; add $0 $1 $2 ; hlt
	code := []byte{
		0, 0, 0, 3,
		0, 1, 0, 4,
		1, 0, 1, 2,
		5, 0, 0, 0,
	}
	m := vm.New()
	m.Load(pie.Image{Code: code})
	if err := m.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := [vm.NumRegisters]int32{}
	want[0], want[1], want[2] = 3, 4, 7
	if diff := cmp.Diff(want, m.Registers); diff != "" {
		t.Fatalf("register snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterRoundTrip(t *testing.T) {
	for _, v := range []uint16{0, 1, 65535, 500} {
		hi, lo := byte(v>>8), byte(v)
		m := newRunning([]byte{0, 3, hi, lo})
		if _, err := m.Step(); err != nil {
			t.Fatalf("Step returned error: %v", err)
		}
		if m.Registers[3] != int32(v) {
			t.Errorf("R[3] = %d, want %d", m.Registers[3], v)
		}
	}
}
