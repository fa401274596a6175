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

package arm64

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andreabergia/emjay/internal/frontend"
	"github.com/andreabergia/emjay/internal/parser"
)

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
		"stp  x29, x30, [sp, #-16]!\n"+
		"mov  x29, sp\n"+
		"movz x9, 42\n"+
		"mov  x0, x9\n"+
		"ldp  x29, x30, [sp], #16\n"+
		"ret\n",
		code.Asm)
	require.Equal(t, []byte{
		0xFD, 0x7B, 0xBF, 0xA9, 0xFD, 0x03, 0x00, 0x91, 0x49, 0x05, 0x80, 0xD2, 0xE0, 0x03,
		0x09, 0xAA, 0xFD, 0x7B, 0xC1, 0xA8, 0xC0, 0x03, 0x5F, 0xD6,
	}, code.Bytes)
}

func TestCanCompileMath(t *testing.T) {
	program, err := parser.Parse("fn the_answer() { let a = 3; return a + 1 - 2 * 3 / -4; }")
	require.NoError(t, err)
	compiled, err := frontend.Compile(program)
	require.NoError(t, err)
	require.Len(t, compiled, 1)

	gen := New()
	code, err := gen.GenerateMachineCode(compiled[0], 0, 0)
	require.NoError(t, err)

	require.Equal(t, ""+
		"stp  x29, x30, [sp, #-16]!\n"+
		"mov  x29, sp\n"+
		"movz x9, 3\n"+
		"movz x10, 1\n"+
		"add  x11, x9, x10\n"+
		"movz x10, 2\n"+
		"movz x9, 3\n"+
		"mul  x12, x10, x9\n"+
		"movz x10, 4\n"+
		"neg  x9, x10\n"+
		"sdiv x10, x12, x9\n"+
		"subs x12, x11, x10\n"+
		"mov  x0, x12\n"+
		"ldp  x29, x30, [sp], #16\n"+
		"ret\n",
		code.Asm)
}

func TestCanCompileFunctionCalls(t *testing.T) {
	program, err := parser.Parse(`
		fn f() { return 1 + g(); }
		fn g() { return 42; }
	`)
	require.NoError(t, err)
	compiled, err := frontend.Compile(program)
	require.NoError(t, err)
	require.Len(t, compiled, 2)

	const catalogAddr = uintptr(0x1000)
	const trampolineAddr = uintptr(0x2000)

	gen := New()
	code, err := gen.GenerateMachineCode(compiled[0], catalogAddr, trampolineAddr)
	require.NoError(t, err)

	expected := fmt.Sprintf(""+
		"stp  x29, x30, [sp, #-64]!\n"+
		"mov  x29, sp\n"+
		"movz x9, 1\n"+
		"str  x0, [x29, #24]\n"+
		"str  x19, [x29, #32]\n"+
		"str  x9, [x29, #40]\n"+
		"str  x10, [x29, #48]\n"+
		"str  x11, [x29, #56]\n"+
		"movz x0, %d\n"+
		"movz x1, 1\n"+
		"movz x19, %d\n"+
		"blr x19\n"+
		"ldr  x11, [x29, #56]\n"+
		"ldr  x10, [x29, #48]\n"+
		"ldr  x9, [x29, #40]\n"+
		"ldr  x19, [x29, #32]\n"+
		"mov  x10, x0\n"+
		"ldr  x0, [x29, #24]\n"+
		"add  x11, x9, x10\n"+
		"mov  x0, x11\n"+
		"ldp  x29, x30, [sp], #64\n"+
		"ret\n",
		catalogAddr, trampolineAddr)
	require.Equal(t, expected, code.Asm)
}
