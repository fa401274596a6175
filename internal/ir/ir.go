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

// Package ir defines the three-address, register-based intermediate form
// that internal/frontend produces and internal/optimize, internal/regalloc
// and internal/codegen consume, per spec.md §3.
package ir

import (
	"fmt"
	"strings"
)

// Register is a dense, per-function virtual register index, assigned in
// monotonically increasing order by the lowering stage.
type Register int

func (r Register) String() string { return fmt.Sprintf("r%d", int(r)) }

// ArgumentIndex is a dense positional argument index, 0 <= index < num_args.
type ArgumentIndex int

func (a ArgumentIndex) String() string { return fmt.Sprintf("a%d", int(a)) }

// FunctionId is a dense, declaration-order function index, stable for the
// lifetime of the compiled program and embedded into emitted call sites.
type FunctionId int

// BinOpOperator is one of the four supported integer binary operators.
type BinOpOperator int

const (
	Add BinOpOperator = iota
	Sub
	Mul
	Div
)

func (op BinOpOperator) String() string {
	switch op {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	default:
		return "?"
	}
}

// Instruction is the tagged union described in spec.md §3. Each concrete
// type below implements it; Operands() reports every register the
// instruction reads or writes, destination first, in the order the
// register allocator must see them.
type Instruction interface {
	fmt.Stringer
	Operands() []Register
}

type Mvi struct {
	Dest Register
	Val  int64
}

type MvArg struct {
	Dest Register
	Arg  ArgumentIndex
}

type BinOp struct {
	Op   BinOpOperator
	Dest Register
	Op1  Register
	Op2  Register
}

type Neg struct {
	Dest Register
	Op   Register
}

type Ret struct {
	Reg Register
}

type Call struct {
	Dest       Register
	Name       string
	FunctionId FunctionId
	Args       []Register
}

func (i Mvi) Operands() []Register   { return []Register{i.Dest} }
func (i MvArg) Operands() []Register { return []Register{i.Dest} }
func (i BinOp) Operands() []Register { return []Register{i.Dest, i.Op1, i.Op2} }
func (i Neg) Operands() []Register   { return []Register{i.Dest, i.Op} }
func (i Ret) Operands() []Register   { return []Register{i.Reg} }
func (i Call) Operands() []Register {
	ops := make([]Register, 0, 1+len(i.Args))
	ops = append(ops, i.Dest)
	ops = append(ops, i.Args...)
	return ops
}

func (i Mvi) String() string   { return fmt.Sprintf("mvi   %s, %d", i.Dest, i.Val) }
func (i MvArg) String() string { return fmt.Sprintf("mvarg %s, %s", i.Dest, i.Arg) }
func (i BinOp) String() string {
	return fmt.Sprintf("%-5s %s, %s, %s", i.Op, i.Dest, i.Op1, i.Op2)
}
func (i Neg) String() string { return fmt.Sprintf("neg   %s, %s", i.Dest, i.Op) }
func (i Ret) String() string { return fmt.Sprintf("ret   %s", i.Reg) }
func (i Call) String() string {
	args := make([]string, len(i.Args))
	for idx, a := range i.Args {
		args[idx] = a.String()
	}
	return fmt.Sprintf("call  %s, %s:%d(%s)", i.Dest, i.Name, i.FunctionId, strings.Join(args, ", "))
}

// CompiledFunction is the IR form of one source function: a flat,
// straight-line sequence of instructions (no basic blocks, no joins - the
// language has no control flow beyond return).
type CompiledFunction struct {
	Name             string
	Id               FunctionId
	NumArgs          int
	Body             []Instruction
	NumUsedRegisters int
}

func (f *CompiledFunction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fn %s - #args: %d, #reg: %d {\n", f.Name, f.NumArgs, f.NumUsedRegisters)
	for i, instr := range f.Body {
		fmt.Fprintf(&b, "  %3d:  %s\n", i, instr)
	}
	b.WriteString("}")
	return b.String()
}
