// Copyright (c) 2026 The Emjay Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package arm64 is the AArch64 backend: the instruction encoder and
// per-function emitter described in spec.md §4.4, ported opcode-for-opcode
// from the reference implementation's AArch64 backend.
package arm64

// Register is one of AArch64's 31 general-purpose 64-bit registers plus SP.
type Register int

const (
	X0 Register = iota
	X1
	X2
	X3
	X4
	X5
	X6
	X7
	X8
	X9
	X10
	X11
	X12
	X13
	X14
	X15
	X16
	X17
	X18
	X19
	X20
	X21
	X22
	X23
	X24
	X25
	X26
	X27
	X28
	X29
	X30
	SP
)

var registerNames = [...]string{
	"x0", "x1", "x2", "x3", "x4", "x5", "x6", "x7",
	"x8", "x9", "x10", "x11", "x12", "x13", "x14", "x15",
	"x16", "x17", "x18", "x19", "x20", "x21", "x22", "x23",
	"x24", "x25", "x26", "x27", "x28", "x29", "x30", "sp",
}

func (r Register) String() string { return registerNames[r] }

// index returns the 5-bit encoding of the register, used to pack it into an
// instruction word.
func (r Register) index() uint32 { return uint32(r) }

// argumentRegisters is the calling-convention mapping: the i'th argument
// lives in argumentRegisters[i], for i < 8 (spec.md §4.4's `MvArg{dest, i}`
// mandatory range).
var argumentRegisters = [8]Register{X0, X1, X2, X3, X4, X5, X6, X7}

// pool is the caller-saved general-purpose register set the allocator may
// assign IR registers to, per spec.md §4.4. X0-X7 (arguments), X19
// (trampoline target), X29/X30/SP are reserved and excluded.
var pool = []Register{X9, X10, X11, X12, X13, X14, X15}
