package vm

import (
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/halvarsson/rvm/opcode"
)

func (vm *VM) next8() uint8 {
	b := vm.Program[vm.pc]
	vm.pc++
	return b
}

func (vm *VM) next16() uint16 {
	hi := uint16(vm.next8())
	lo := uint16(vm.next8())
	return hi<<8 | lo
}

// reg reads register idx, wrapping out-of-range indices modulo
// NumRegisters rather than panicking or touching adjacent memory
// (spec.md §4.5: register numbers outside 0..31 are undefined behavior,
// but must not silently corrupt unrelated state).
func (vm *VM) reg(idx uint8) int32 {
	return vm.Registers[int(idx)%NumRegisters]
}

func (vm *VM) setReg(idx uint8, v int32) {
	vm.Registers[int(idx)%NumRegisters] = v
}

// Step executes exactly one instruction starting at the current pc and
// reports whether the VM should stop (HLT or IGL). Grounded on the
// teacher's cpu/execute.go fetch → decode → dispatch loop body, with
// decode and execute collapsed into one switch per opcode since this
// ISA has no separate addressing-mode decode (spec.md §4.5).
func (vm *VM) Step() (bool, error) {
	instrStart := vm.pc
	op := opcode.FromByte(vm.next8())

	switch op {
	case opcode.LOAD:
		r := vm.next8()
		v := vm.next16()
		vm.setReg(r, int32(v))

	case opcode.ADD:
		a, b, c := vm.next8(), vm.next8(), vm.next8()
		vm.setReg(c, vm.reg(a)+vm.reg(b))

	case opcode.SUB:
		a, b, c := vm.next8(), vm.next8(), vm.next8()
		vm.setReg(c, vm.reg(a)-vm.reg(b))

	case opcode.MUL:
		a, b, c := vm.next8(), vm.next8(), vm.next8()
		vm.setReg(c, vm.reg(a)*vm.reg(b))

	case opcode.DIV:
		a, b, c := vm.next8(), vm.next8(), vm.next8()
		divisor := vm.reg(b)
		if divisor == 0 {
			return false, ErrDivisionByZero
		}
		vm.setReg(c, vm.reg(a)/divisor)
		vm.Remainder = vm.reg(a) % divisor

	case opcode.HLT:
		return true, nil

	case opcode.JMP:
		a := vm.next8()
		vm.pc = uint32(vm.reg(a))

	case opcode.JMPF:
		a := vm.next8()
		// Relative to the start of this instruction, not the
		// post-operand-fetch pc: spec.md §8 scenario 4 pins this basis
		// for JMPB, and JMPF is its mirror image.
		vm.pc = instrStart + uint32(vm.reg(a))

	case opcode.JMPB:
		a := vm.next8()
		vm.pc = instrStart - uint32(vm.reg(a))

	case opcode.EQ:
		a, b := vm.next8(), vm.next8()
		vm.next8() // unused third operand byte; still 4 bytes wide (spec.md §4.1)
		vm.EqualFlag = vm.reg(a) == vm.reg(b)

	case opcode.NEQ:
		a, b := vm.next8(), vm.next8()
		vm.next8()
		vm.EqualFlag = vm.reg(a) != vm.reg(b)

	case opcode.GT:
		a, b := vm.next8(), vm.next8()
		vm.next8()
		vm.EqualFlag = vm.reg(a) > vm.reg(b)

	case opcode.LT:
		a, b := vm.next8(), vm.next8()
		vm.next8()
		vm.EqualFlag = vm.reg(a) < vm.reg(b)

	case opcode.GTE:
		a, b := vm.next8(), vm.next8()
		vm.next8()
		vm.EqualFlag = vm.reg(a) >= vm.reg(b)

	case opcode.LTE:
		a, b := vm.next8(), vm.next8()
		vm.next8()
		vm.EqualFlag = vm.reg(a) <= vm.reg(b)

	case opcode.JEQ:
		a := vm.next8()
		target := uint32(vm.reg(a))
		vm.next8()
		vm.next8()
		if vm.EqualFlag {
			vm.pc = target
		}

	case opcode.JNEQ:
		a := vm.next8()
		target := uint32(vm.reg(a))
		vm.next8()
		vm.next8()
		if !vm.EqualFlag {
			vm.pc = target
		}

	case opcode.ALOC:
		a := vm.next8()
		vm.next8()
		vm.next8()
		n := vm.reg(a)
		if n < 0 {
			n = 0 // negative request truncates to no growth (spec.md §4.1)
		}
		vm.Heap = append(vm.Heap, make([]byte, n)...)

	case opcode.INC:
		a := vm.next8()
		vm.next8()
		vm.next8()
		vm.setReg(a, vm.reg(a)+1)

	case opcode.DEC:
		a := vm.next8()
		vm.next8()
		vm.next8()
		vm.setReg(a, vm.reg(a)-1)

	case opcode.DJMPE:
		// Only three of the instruction's four bytes (opcode, destination
		// and one skip byte) are consumed in the not-taken branch; this is a preserved quirk of the system
		// being modeled, not a bug to fix (spec.md §9).
		dest := vm.next8()
		if vm.EqualFlag {
			vm.pc = uint32(dest)
		} else {
			vm.next8()
		}

	case opcode.NOP:
		vm.next8()
		vm.next8()
		vm.next8()

	case opcode.PRTS:
		start := vm.next16()
		vm.next8()
		vm.printString(start)

	case opcode.IGL:
		return true, nil

	default:
		return true, fmt.Errorf("unhandled opcode %v", op)
	}

	return false, nil
}

func (vm *VM) printString(start uint16) {
	if int(start) >= len(vm.RoData) {
		logrus.WithField("offset", start).Warn("prts: offset out of range")
		return
	}
	end := int(start)
	for end < len(vm.RoData) && vm.RoData[end] != 0 {
		end++
	}
	slice := vm.RoData[start:end]
	if !utf8.Valid(slice) {
		logrus.WithField("offset", start).Warn("prts: ro_data slice is not valid UTF-8")
		return
	}
	fmt.Fprint(vm.Stdout, string(slice))
}
