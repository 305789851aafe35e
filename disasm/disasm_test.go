package disasm_test

import (
	"strings"
	"testing"

	"github.com/halvarsson/rvm/disasm"
	"github.com/halvarsson/rvm/opcode"
)

func TestDisassembleDecodesOpcodes(t *testing.T) {
	code := []byte{
		0, 0, 0x01, 0xF4, // load $0 #500
		5, 0, 0, 0, // hlt
	}
	instrs := disasm.Disassemble(code)
	if len(instrs) != 2 {
		t.Fatalf("got %d instructions, want 2", len(instrs))
	}
	if instrs[0].Op != opcode.LOAD {
		t.Errorf("instrs[0].Op = %v, want LOAD", instrs[0].Op)
	}
	if instrs[1].Op != opcode.HLT {
		t.Errorf("instrs[1].Op = %v, want HLT", instrs[1].Op)
	}
	if instrs[1].Address != instrs[0].Address+4 {
		t.Errorf("addresses not 4 apart: %d, %d", instrs[0].Address, instrs[1].Address)
	}
}

func TestListingIncludesMnemonics(t *testing.T) {
	listing := disasm.Listing([]byte{5, 0, 0, 0})
	if listing == "" {
		t.Fatal("expected non-empty listing")
	}
	if !strings.Contains(listing, "hlt") {
		t.Fatalf("listing %q does not mention mnemonic hlt", listing)
	}
}
