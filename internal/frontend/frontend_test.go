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

package frontend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreabergia/emjay/internal/frontend"
	"github.com/andreabergia/emjay/internal/ir"
	"github.com/andreabergia/emjay/internal/parser"
)

func compileSource(t *testing.T, src string) []*ir.CompiledFunction {
	t.Helper()
	program, err := parser.Parse(src)
	require.NoError(t, err)
	compiled, err := frontend.Compile(program)
	require.NoError(t, err)
	return compiled
}

func TestCompileVariableDeclarationAndMath(t *testing.T) {
	compiled := compileSource(t, "fn the_answer() { let a = 3; return a + 1 - 2 * 3 / f(); } fn f() { return 1; }")
	require.Len(t, compiled, 2)

	f := compiled[0]
	assert.Equal(t, "the_answer", f.Name)
	assert.Equal(t, 9, f.NumUsedRegisters)
	assert.Equal(t, []ir.Instruction{
		ir.Mvi{Dest: 0, Val: 3},
		ir.Mvi{Dest: 1, Val: 1},
		ir.BinOp{Op: ir.Add, Dest: 2, Op1: 0, Op2: 1},
		ir.Mvi{Dest: 3, Val: 2},
		ir.Mvi{Dest: 4, Val: 3},
		ir.BinOp{Op: ir.Mul, Dest: 5, Op1: 3, Op2: 4},
		ir.Call{Dest: 6, Name: "f", FunctionId: 1, Args: nil},
		ir.BinOp{Op: ir.Div, Dest: 7, Op1: 5, Op2: 6},
		ir.BinOp{Op: ir.Sub, Dest: 8, Op1: 2, Op2: 7},
		ir.Ret{Reg: 8},
	}, f.Body)
}

func TestCompileAssignments(t *testing.T) {
	compiled := compileSource(t, `fn the_answer() {
		let a = 1;
		{
			a = 2;
		}
		return a;
	}`)
	require.Len(t, compiled, 1)

	f := compiled[0]
	assert.Equal(t, 2, f.NumUsedRegisters)
	assert.Equal(t, []ir.Instruction{
		ir.Mvi{Dest: 0, Val: 1},
		ir.Mvi{Dest: 1, Val: 2},
		ir.Ret{Reg: 1},
	}, f.Body)
}

func TestCanReferToOutsideVariableFromNestedBlock(t *testing.T) {
	compiled := compileSource(t, `fn the_answer() {
		let a = 1;
		{
			return a;
		}
	}`)
	require.Len(t, compiled, 1)

	f := compiled[0]
	assert.Equal(t, 1, f.NumUsedRegisters)
	assert.Equal(t, []ir.Instruction{
		ir.Mvi{Dest: 0, Val: 1},
		ir.Ret{Reg: 0},
	}, f.Body)
}

func TestArgumentsMaterializeOnFirstUse(t *testing.T) {
	compiled := compileSource(t, "fn f(x) { return x + 1; }")
	require.Len(t, compiled, 1)

	f := compiled[0]
	assert.Equal(t, 1, f.NumArgs)
	assert.Equal(t, []ir.Instruction{
		ir.MvArg{Dest: 0, Arg: 0},
		ir.Mvi{Dest: 1, Val: 1},
		ir.BinOp{Op: ir.Add, Dest: 2, Op1: 0, Op2: 1},
		ir.Ret{Reg: 2},
	}, f.Body)
}

func TestArgumentReadTwiceReusesMaterializedRegister(t *testing.T) {
	compiled := compileSource(t, "fn f(x) { return x + x; }")
	require.Len(t, compiled, 1)

	f := compiled[0]
	assert.Equal(t, []ir.Instruction{
		ir.MvArg{Dest: 0, Arg: 0},
		ir.BinOp{Op: ir.Add, Dest: 1, Op1: 0, Op2: 0},
		ir.Ret{Reg: 1},
	}, f.Body)
}

func TestAssignToArgumentMaterializesThenOverwrites(t *testing.T) {
	compiled := compileSource(t, "fn f(x) { x = x + 1; return x; }")
	require.Len(t, compiled, 1)

	f := compiled[0]
	assert.Equal(t, []ir.Instruction{
		ir.MvArg{Dest: 0, Arg: 0},
		ir.Mvi{Dest: 1, Val: 1},
		ir.BinOp{Op: ir.Add, Dest: 2, Op1: 0, Op2: 1},
		ir.Ret{Reg: 2},
	}, f.Body)
}

func TestCompileErrorReturnUndeclaredVariable(t *testing.T) {
	program, err := parser.Parse("fn f() { return a; }")
	require.NoError(t, err)
	_, err = frontend.Compile(program)
	require.Error(t, err)
	var ferr *frontend.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, frontend.VariableNotDefined, ferr.Kind)
	assert.Equal(t, "a", ferr.Name)
}

func TestCompileErrorAssignToUndeclaredVariable(t *testing.T) {
	program, err := parser.Parse("fn f() { a = 1; }")
	require.NoError(t, err)
	_, err = frontend.Compile(program)
	require.Error(t, err)
	var ferr *frontend.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, frontend.VariableNotDefined, ferr.Kind)
}

func TestCompileErrorDoubleVariableDeclaration(t *testing.T) {
	program, err := parser.Parse("fn f() { let a = 1; let a = 2; }")
	require.NoError(t, err)
	_, err = frontend.Compile(program)
	require.Error(t, err)
	var ferr *frontend.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, frontend.VariableAlreadyDefined, ferr.Kind)
}

func TestCompileErrorVariableDeclaredInNestedBlockNotVisibleOutside(t *testing.T) {
	program, err := parser.Parse(`fn f() {
		{
			let a = 1;
		}
		return a;
	}`)
	require.NoError(t, err)
	_, err = frontend.Compile(program)
	require.Error(t, err)
	var ferr *frontend.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, frontend.VariableNotDefined, ferr.Kind)
}

func TestCompileErrorVariableCannotBeShadowedInNestedBlock(t *testing.T) {
	program, err := parser.Parse(`fn f() {
		let a = 1;
		{
			let a = 2;
		}
		return a;
	}`)
	require.NoError(t, err)
	_, err = frontend.Compile(program)
	require.Error(t, err)
	var ferr *frontend.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, frontend.VariableAlreadyDefined, ferr.Kind)
}

func TestCompileErrorArgumentCannotBeShadowed(t *testing.T) {
	program, err := parser.Parse("fn f(x) { let x = 1; }")
	require.NoError(t, err)
	_, err = frontend.Compile(program)
	require.Error(t, err)
	var ferr *frontend.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, frontend.VariableCannotShadowArgument, ferr.Kind)
	assert.Equal(t, "x", ferr.Name)
}

func TestCompileErrorUnknownFunctionCalled(t *testing.T) {
	program, err := parser.Parse("fn f() { return g(); }")
	require.NoError(t, err)
	_, err = frontend.Compile(program)
	require.Error(t, err)
	var ferr *frontend.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, frontend.UnknownFunctionCalled, ferr.Kind)
	assert.Equal(t, "g", ferr.Name)
}

func TestCompileErrorInvalidArgumentsToFunctionCall(t *testing.T) {
	program, err := parser.Parse("fn f(x, y) { return 1; } fn g() { return f(1); }")
	require.NoError(t, err)
	_, err = frontend.Compile(program)
	require.Error(t, err)
	var ferr *frontend.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, frontend.InvalidArgumentsToFunctionCall, ferr.Kind)
	assert.Equal(t, 2, ferr.Expected)
	assert.Equal(t, 1, ferr.Actual)
}

func TestCompileErrorUnsupportedOperator(t *testing.T) {
	program, err := parser.Parse("fn f() { return 5 % 2; }")
	require.NoError(t, err)
	_, err = frontend.Compile(program)
	require.Error(t, err)
	var ferr *frontend.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, frontend.UnsupportedOperator, ferr.Kind)
}

func TestCompileErrorDuplicateArgumentName(t *testing.T) {
	program, err := parser.Parse("fn f(x, y, x) { return x; }")
	require.NoError(t, err)
	_, err = frontend.Compile(program)
	require.Error(t, err)
	var ferr *frontend.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, frontend.DuplicateArgumentName, ferr.Kind)
	assert.Equal(t, "x", ferr.Name)
}

func TestFunctionPrePassAllowsForwardReference(t *testing.T) {
	compiled := compileSource(t, "fn f() { return g(); } fn g() { return 1; }")
	require.Len(t, compiled, 2)
	call := compiled[0].Body[0].(ir.Call)
	assert.Equal(t, ir.FunctionId(1), call.FunctionId)
}
