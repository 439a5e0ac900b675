// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package machine

import (
	"errors"
	"fmt"

	"github.com/mwillick/lc3vm/internal/word"
)

// errNotReady marks a KBSR poll that never attempted a read, either
// because there is no keyboard device or because KeyReady said no
// byte was waiting.
var errNotReady = errors.New("keyboard not ready")

// IllegalOpcodeError is returned by Step when it decodes RTI or RES.
// Both are fatal per the ISA: this machine implements no interrupt
// model, so there is no legal return-from-interrupt to fall back to.
type IllegalOpcodeError struct {
	PC        uint16
	Opcode    uint16
	Operation uint16
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode 0x%X at PC=0x%04X (instruction 0x%04X)",
		e.Opcode, e.PC, e.Operation)
}

// Reset zeroes every register and memory cell, then places the
// machine in its initial runnable state: PC at the conventional user
// program origin, COND classifying the (zero) result in R0..R7,
// running.
func (mc *Machine) Reset() {
	for i := range mc.State.Registers {
		mc.State.Registers[i] = 0
	}

	for i := range mc.State.Memory {
		mc.State.Memory[i] = 0
	}

	mc.State.Registers[RCOND] = FlagZro
	mc.State.Registers[RPC] = PCStart
	mc.State.Running = true
}

// read implements mem_read: a KBSR read polls the keyboard device and
// latches KBSR/KBDR before the load completes. Every other address is
// a plain cell read.
//
// The poll itself must never block: Keyboard.ReadByte is only called
// when Devices.KeyReady says a byte is already waiting (or there is
// no KeyReady hook to ask, as in this package's tests). Without that
// guard, a KBSR read on a Keyboard in real blocking raw-mode would
// hang the whole fetch-decode-execute loop instead of just returning
// "nothing ready", which is what GETC/IN's own blocking reads are for.
func (mc *Machine) read(addr uint16) uint16 {
	if addr == KBSR {
		ready := mc.Devices != nil && mc.Devices.Keyboard != nil
		if ready && mc.Devices.KeyReady != nil {
			ready = mc.Devices.KeyReady()
		}

		var key byte
		var err error = errNotReady

		if ready {
			key, err = mc.Devices.Keyboard.ReadByte()
		}

		if err == nil {
			mc.State.Memory[KBSR] = 1 << 15
			mc.State.Memory[KBDR] = uint16(key)
		} else {
			mc.State.Memory[KBSR] = 0
		}
	}

	return mc.State.Memory[addr]
}

// write implements mem_write: an unconditional cell store. Writes to
// MMIO addresses land in the backing array but have no further effect
// since the device model only reacts to reads of KBSR.
func (mc *Machine) write(addr uint16, val uint16) {
	mc.State.Memory[addr] = val
}

// writeReg is the single choke point for every register write the ISA
// specifies as flag-setting: it stores the value and immediately
// reclassifies COND from it, so no call site can forget to update
// flags.
func (mc *Machine) writeReg(r uint16, value uint16) {
	mc.State.Registers[r] = value
	mc.setFlags(value)
}

func (mc *Machine) setFlags(value uint16) {
	switch {
	case value == 0:
		mc.State.Registers[RCOND] = FlagZro
	case value>>15 == 1:
		mc.State.Registers[RCOND] = FlagNeg
	default:
		mc.State.Registers[RCOND] = FlagPos
	}
}

// Step fetches the instruction at PC, advances PC, and executes it.
// PC has already moved past the instruction by the time any
// PC-relative offset in the instruction is applied, per the ISA.
func (mc *Machine) Step() error {
	pc := mc.State.Registers[RPC]
	instr := mc.read(pc)
	mc.State.Registers[RPC] = pc + 1
	opcode := instr >> 12

	switch opcode {
	case OpADD:
		dr := (instr >> 9) & 0x7
		sr1 := (instr >> 6) & 0x7

		if (instr>>5)&0x1 == 1 {
			imm := word.SignExtend(instr&0x1F, 5)
			mc.writeReg(dr, mc.State.Registers[sr1]+imm)
		} else {
			sr2 := instr & 0x7
			mc.writeReg(dr, mc.State.Registers[sr1]+mc.State.Registers[sr2])
		}

	case OpAND:
		dr := (instr >> 9) & 0x7
		sr1 := (instr >> 6) & 0x7

		if (instr>>5)&0x1 == 1 {
			imm := word.SignExtend(instr&0x1F, 5)
			mc.writeReg(dr, mc.State.Registers[sr1]&imm)
		} else {
			sr2 := instr & 0x7
			mc.writeReg(dr, mc.State.Registers[sr1]&mc.State.Registers[sr2])
		}

	case OpNOT:
		dr := (instr >> 9) & 0x7
		sr := (instr >> 6) & 0x7
		mc.writeReg(dr, ^mc.State.Registers[sr])

	case OpBR:
		mask := (instr >> 9) & 0x7
		if mask&mc.State.Registers[RCOND] != 0 {
			mc.State.Registers[RPC] += word.SignExtend(instr&0x1FF, 9)
		}

	case OpJMP:
		base := (instr >> 6) & 0x7
		mc.State.Registers[RPC] = mc.State.Registers[base]

	case OpJSR:
		// Save linkage before mutating PC: BaseR may itself be R7.
		mc.State.Registers[R7] = mc.State.Registers[RPC]

		if (instr>>11)&0x1 == 1 {
			mc.State.Registers[RPC] += word.SignExtend(instr&0x7FF, 11)
		} else {
			base := (instr >> 6) & 0x7
			mc.State.Registers[RPC] = mc.State.Registers[base]
		}

	case OpLD:
		dr := (instr >> 9) & 0x7
		addr := mc.State.Registers[RPC] + word.SignExtend(instr&0x1FF, 9)
		mc.writeReg(dr, mc.read(addr))

	case OpLDI:
		dr := (instr >> 9) & 0x7
		addr := mc.State.Registers[RPC] + word.SignExtend(instr&0x1FF, 9)
		mc.writeReg(dr, mc.read(mc.read(addr)))

	case OpLDR:
		dr := (instr >> 9) & 0x7
		base := (instr >> 6) & 0x7
		addr := mc.State.Registers[base] + word.SignExtend(instr&0x3F, 6)
		mc.writeReg(dr, mc.read(addr))

	case OpLEA:
		dr := (instr >> 9) & 0x7
		addr := mc.State.Registers[RPC] + word.SignExtend(instr&0x1FF, 9)
		mc.writeReg(dr, addr)

	case OpST:
		sr := (instr >> 9) & 0x7
		addr := mc.State.Registers[RPC] + word.SignExtend(instr&0x1FF, 9)
		mc.write(addr, mc.State.Registers[sr])

	case OpSTI:
		sr := (instr >> 9) & 0x7
		addr := mc.State.Registers[RPC] + word.SignExtend(instr&0x1FF, 9)
		mc.write(mc.read(addr), mc.State.Registers[sr])

	case OpSTR:
		sr := (instr >> 9) & 0x7
		base := (instr >> 6) & 0x7
		addr := mc.State.Registers[base] + word.SignExtend(instr&0x3F, 6)
		mc.write(addr, mc.State.Registers[sr])

	case OpTRAP:
		return mc.trap(instr & 0xFF)

	case OpRTI, OpRES:
		mc.State.Running = false
		return &IllegalOpcodeError{PC: pc, Opcode: opcode, Operation: instr}

	default:
		// unreachable: opcode is four bits and every value 0..15 is
		// handled above.
		mc.State.Running = false
		return &IllegalOpcodeError{PC: pc, Opcode: opcode, Operation: instr}
	}

	return nil
}

// Run drives Step until the running flag clears or Step reports a
// fatal error (illegal opcode). A HALT trap clearing Running is not
// itself an error: Run returns nil in that case.
func (mc *Machine) Run() error {
	for mc.State.Running {
		if err := mc.Step(); err != nil {
			return err
		}
	}

	return nil
}
