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

// Condition codes. Exactly one is ever set in Registers[RCOND]; every
// flag-setting instruction clears the other two.
const (
	FlagPos uint16 = 1 << 0
	FlagZro uint16 = 1 << 1
	FlagNeg uint16 = 1 << 2
)

// Trap vectors. Any vector outside this table is a no-op, not a fault.
const (
	TrapGetc  uint16 = 0x20
	TrapOut   uint16 = 0x21
	TrapPuts  uint16 = 0x22
	TrapIn    uint16 = 0x23
	TrapPutsp uint16 = 0x24
	TrapHalt  uint16 = 0x25
)

// PCStart is the address the program counter is set to before the
// first image is loaded, per the original LC-3 tools.
const PCStart uint16 = 0x3000

// Memory-mapped keyboard device registers.
const (
	KBSR uint16 = 0xFE00
	KBDR uint16 = 0xFE02
)

// Opcodes, decoded from the top four bits of the instruction word.
const (
	OpBR   uint16 = 0b0000
	OpADD  uint16 = 0b0001
	OpLD   uint16 = 0b0010
	OpST   uint16 = 0b0011
	OpJSR  uint16 = 0b0100
	OpAND  uint16 = 0b0101
	OpLDR  uint16 = 0b0110
	OpSTR  uint16 = 0b0111
	OpRTI  uint16 = 0b1000 // illegal: unused
	OpNOT  uint16 = 0b1001
	OpLDI  uint16 = 0b1010
	OpSTI  uint16 = 0b1011
	OpJMP  uint16 = 0b1100
	OpRES  uint16 = 0b1101 // illegal: reserved
	OpLEA  uint16 = 0b1110
	OpTRAP uint16 = 0b1111
)

// Register file indices. R0..R7 are general-purpose; PC and COND
// follow them so the whole file is one flat, ordered array.
const (
	R0 = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	RPC
	RCOND
	RegisterCount
)
