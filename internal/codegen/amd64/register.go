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

// Package amd64 is the x86-64 backend (System V ABI), the analogue spec.md
// §4.4 calls out for arm64's instruction encoder and emitter.
package amd64

// Register is one of the 16 general-purpose 64-bit registers.
type Register int

const (
	RAX Register = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

var registerNames = [...]string{
	"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}

func (r Register) String() string { return registerNames[r] }

// encoding is the 4-bit register number ModRM/REX fields pack; registers
// r8-r15 need the REX.R/REX.B extension bit (bit 3).
func (r Register) encoding() (field uint8, extended bool) {
	return uint8(r) & 0x7, r >= R8
}

// argumentRegisters is the System V AMD64 integer argument order.
var argumentRegisters = [6]Register{RDI, RSI, RDX, RCX, R8, R9}

// pool is the register set the allocator may assign IR values to. RAX/RDX
// are reserved as idiv's implicit dividend/remainder, RDI/RSI/RDX/RCX/R8/R9
// carry arguments during a call sequence, R11 is the call-sequence scratch
// register that holds the trampoline's address, RSP/RBP are the stack and
// frame pointers. The survivors are technically callee-saved in the System V
// ABI; the emitter does not save or restore them in the prologue or
// epilogue.
var pool = []Register{RBX, R12, R13, R14, R15}
