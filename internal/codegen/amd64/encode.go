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

package amd64

import (
	"encoding/binary"
	"fmt"
)

// instruction is one emitted x86-64 instruction: its assembly text and
// machine bytes come from the same value, so they can never drift apart.
type instruction interface {
	fmt.Stringer
	encode() []byte
}

const (
	rexW uint8 = 0x48 // REX prefix, 64-bit operand size
	rexR uint8 = 0x04 // REX.R: extends the ModRM.reg field
	rexB uint8 = 0x01 // REX.B: extends the ModRM.rm field (or opcode+reg)
)

func modRM(mod uint8, reg, rm uint8) uint8 { return mod<<6 | (reg&0x7)<<3 | (rm & 0x7) }

type ret struct{}

func (ret) String() string { return "ret" }
func (ret) encode() []byte { return []byte{0xC3} }

// cqo sign-extends rax into rdx:rax, the mandatory setup before idiv.
type cqo struct{}

func (cqo) String() string { return "cqo" }
func (cqo) encode() []byte { return []byte{rexW, 0x99} }

// leave is `mov rsp, rbp; pop rbp` in one byte, the epilogue's counterpart
// to the prologue's `push rbp; mov rbp, rsp`.
type leave struct{}

func (leave) String() string { return "leave" }
func (leave) encode() []byte { return []byte{0xC9} }

type push struct{ register Register }

func (p push) String() string { return fmt.Sprintf("push %s", p.register) }
func (p push) encode() []byte {
	field, ext := p.register.encoding()
	if ext {
		return []byte{0x40 | rexB, 0x50 + field}
	}
	return []byte{0x50 + field}
}

type pop struct{ register Register }

func (p pop) String() string { return fmt.Sprintf("pop  %s", p.register) }
func (p pop) encode() []byte {
	field, ext := p.register.encoding()
	if ext {
		return []byte{0x40 | rexB, 0x58 + field}
	}
	return []byte{0x58 + field}
}

// movImm is `movabs register, value`, the only x86-64 encoding that can load
// an arbitrary 64-bit immediate in one instruction.
type movImm struct {
	register Register
	value    int64
}

func (m movImm) String() string { return fmt.Sprintf("movabs %s, %d", m.register, m.value) }
func (m movImm) encode() []byte {
	field, ext := m.register.encoding()
	rex := rexW
	if ext {
		rex |= rexB
	}
	out := []byte{rex, 0xB8 + field}
	imm := make([]byte, 8)
	binary.LittleEndian.PutUint64(imm, uint64(m.value))
	return append(out, imm...)
}

type movRegToReg struct{ source, destination Register }

func (m movRegToReg) String() string { return fmt.Sprintf("mov  %s, %s", m.destination, m.source) }
func (m movRegToReg) encode() []byte {
	srcField, srcExt := m.source.encoding()
	dstField, dstExt := m.destination.encoding()
	rex := rexW
	if srcExt {
		rex |= rexR
	}
	if dstExt {
		rex |= rexB
	}
	return []byte{rex, 0x89, modRM(0b11, srcField, dstField)}
}

type twoRegOp struct {
	mnemonic           string
	opcode             uint8
	destination, source Register
}

func (t twoRegOp) String() string {
	return fmt.Sprintf("%-4s %s, %s", t.mnemonic, t.destination, t.source)
}
func (t twoRegOp) encode() []byte {
	srcField, srcExt := t.source.encoding()
	dstField, dstExt := t.destination.encoding()
	rex := rexW
	if srcExt {
		rex |= rexR
	}
	if dstExt {
		rex |= rexB
	}
	return []byte{rex, t.opcode, modRM(0b11, srcField, dstField)}
}

func addRegToReg(dest, src Register) instruction { return twoRegOp{"add", 0x01, dest, src} }
func subRegToReg(dest, src Register) instruction { return twoRegOp{"sub", 0x29, dest, src} }

// imul is IMUL r64, r/m64: unlike add/sub, the ModRM.reg field is the
// *destination*, not the source, so it needs its own encode().
type imul struct{ destination, source Register }

func (m imul) String() string { return fmt.Sprintf("imul %s, %s", m.destination, m.source) }
func (m imul) encode() []byte {
	dstField, dstExt := m.destination.encoding()
	srcField, srcExt := m.source.encoding()
	rex := rexW
	if dstExt {
		rex |= rexR
	}
	if srcExt {
		rex |= rexB
	}
	return []byte{rex, 0x0F, 0xAF, modRM(0b11, dstField, srcField)}
}

// idivReg is IDIV r/m64: implicitly divides RDX:RAX by register, quotient
// in RAX, remainder in RDX. Callers must arrange the dividend via cqo first.
type idivReg struct{ register Register }

func (d idivReg) String() string { return fmt.Sprintf("idiv %s", d.register) }
func (d idivReg) encode() []byte {
	field, ext := d.register.encoding()
	rex := rexW
	if ext {
		rex |= rexB
	}
	return []byte{rex, 0xF7, modRM(0b11, 7, field)}
}

type neg struct{ register Register }

func (n neg) String() string { return fmt.Sprintf("neg  %s", n.register) }
func (n neg) encode() []byte {
	field, ext := n.register.encoding()
	rex := rexW
	if ext {
		rex |= rexB
	}
	return []byte{rex, 0xF7, modRM(0b11, 3, field)}
}

// call is an indirect call through a register, used for the trampoline's
// own address (known only at emission time, so it can't be a relative call).
type call struct{ register Register }

func (c call) String() string { return fmt.Sprintf("call %s", c.register) }
func (c call) encode() []byte {
	field, ext := c.register.encoding()
	if ext {
		return []byte{0x40 | rexB, 0xFF, modRM(0b11, 2, field)}
	}
	return []byte{0xFF, modRM(0b11, 2, field)}
}

// storeLocal/loadLocal address a spilled value at [rbp - offset], the
// analogue of the AArch64 backend's str/ldr into the stack frame.
type storeLocal struct {
	source Register
	offset int8 // [rbp - offset]
}

func (s storeLocal) String() string {
	return fmt.Sprintf("mov  [rbp-%d], %s", s.offset, s.source)
}
func (s storeLocal) encode() []byte {
	field, ext := s.source.encoding()
	rex := rexW
	if ext {
		rex |= rexR
	}
	return []byte{rex, 0x89, modRM(0b01, field, 0b101), uint8(-s.offset)}
}

type loadLocal struct {
	destination Register
	offset      int8
}

func (l loadLocal) String() string {
	return fmt.Sprintf("mov  %s, [rbp-%d]", l.destination, l.offset)
}
func (l loadLocal) encode() []byte {
	field, ext := l.destination.encoding()
	rex := rexW
	if ext {
		rex |= rexR
	}
	return []byte{rex, 0x8B, modRM(0b01, field, 0b101), uint8(-l.offset)}
}

type subRspImm struct{ imm32 uint32 }

func (s subRspImm) String() string { return fmt.Sprintf("sub  rsp, %d", s.imm32) }
func (s subRspImm) encode() []byte {
	out := []byte{rexW, 0x81, modRM(0b11, 5, uint8(RSP))}
	imm := make([]byte, 4)
	binary.LittleEndian.PutUint32(imm, s.imm32)
	return append(out, imm...)
}

type pushRbpMovRbpRsp struct{}

func (pushRbpMovRbpRsp) String() string { return "push rbp\nmov  rbp, rsp" }
func (pushRbpMovRbpRsp) encode() []byte {
	return append(push{RBP}.encode(), movRegToReg{source: RSP, destination: RBP}.encode()...)
}
