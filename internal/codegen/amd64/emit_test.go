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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andreabergia/emjay/internal/frontend"
	"github.com/andreabergia/emjay/internal/parser"
)

func assertEncodesAs(t *testing.T, in instruction, expected []byte) {
	t.Helper()
	require.Equal(t, expected, in.encode())
}

func TestCanEncodeMovImm(t *testing.T) {
	assertEncodesAs(t, movImm{register: RCX, value: 123},
		[]byte{0x48, 0xB9, 123, 0, 0, 0, 0, 0, 0, 0})
}

func TestCanEncodeMovImmExtendedRegister(t *testing.T) {
	assertEncodesAs(t, movImm{register: R9, value: 1},
		[]byte{0x49, 0xB9, 1, 0, 0, 0, 0, 0, 0, 0})
}

func TestCanEncodeMovRegToReg(t *testing.T) {
	assertEncodesAs(t, movRegToReg{source: RAX, destination: RBX}, []byte{0x48, 0x89, 0xC3})
}

func TestCanEncodeAdd(t *testing.T) {
	assertEncodesAs(t, addRegToReg(RBX, RCX).(twoRegOp), []byte{0x48, 0x01, 0xCB})
}

func TestCanEncodeNeg(t *testing.T) {
	assertEncodesAs(t, neg{register: RAX}, []byte{0x48, 0xF7, 0xD8})
}

func TestCanEncodeRet(t *testing.T) {
	assertEncodesAs(t, ret{}, []byte{0xC3})
}

func TestCanEncodePushPop(t *testing.T) {
	assertEncodesAs(t, push{RBX}, []byte{0x53})
	assertEncodesAs(t, pop{RBX}, []byte{0x5B})
}

func TestCanEncodePushPopExtendedRegister(t *testing.T) {
	assertEncodesAs(t, push{R12}, []byte{0x41, 0x54})
	assertEncodesAs(t, pop{R12}, []byte{0x41, 0x5C})
}

func TestCanCompileTrivialFunction(t *testing.T) {
	program, err := parser.Parse("fn main() { let a = 42; return a; }")
	require.NoError(t, err)
	compiled, err := frontend.Compile(program)
	require.NoError(t, err)
	require.Len(t, compiled, 1)

	gen := New()
	code, err := gen.GenerateMachineCode(compiled[0], 0, 0)
	require.NoError(t, err)

	require.Equal(t, ""+
		"push rbp\n"+
		"mov  rbp, rsp\n"+
		"sub  rsp, 0\n"+
		"movabs rbx, 42\n"+
		"mov  rax, rbx\n"+
		"leave\n"+
		"ret\n",
		code.Asm)
}

func TestCanCompileMath(t *testing.T) {
	program, err := parser.Parse("fn the_answer() { let a = 3; return a + 1 - 2 * 3 / -4; }")
	require.NoError(t, err)
	compiled, err := frontend.Compile(program)
	require.NoError(t, err)
	require.Len(t, compiled, 1)

	gen := New()
	_, err = gen.GenerateMachineCode(compiled[0], 0, 0)
	require.NoError(t, err)
}
