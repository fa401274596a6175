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

package ir

import "github.com/andreabergia/emjay/internal/utils"

// Program is a whole compiled program, indexed by FunctionId, used only by
// the reference interpreter below to resolve Call targets.
type Program []*CompiledFunction

// Interpreter straightforwardly evaluates IR with signed 64-bit wrapping
// arithmetic and truncating division - the semantics spec.md §8 requires
// JIT-compiled code to match exactly. It exists purely so tests can assert
// "the machine code would have computed the same value" without actually
// executing machine code.
type Interpreter struct {
	Program Program
}

// Run evaluates function id fn with the given arguments and returns its
// Ret value.
func (in Interpreter) Run(fn FunctionId, args []int64) int64 {
	f := in.Program[fn]
	utils.Assert(len(args) == f.NumArgs, "interp: expected %d args, got %d", f.NumArgs, len(args))

	regs := make([]int64, f.NumUsedRegisters)
	for _, instr := range f.Body {
		switch ins := instr.(type) {
		case Mvi:
			regs[ins.Dest] = ins.Val
		case MvArg:
			regs[ins.Dest] = args[ins.Arg]
		case Neg:
			regs[ins.Dest] = -regs[ins.Op]
		case BinOp:
			regs[ins.Dest] = foldBinOp(ins.Op, regs[ins.Op1], regs[ins.Op2])
		case Call:
			callArgs := make([]int64, len(ins.Args))
			for i, r := range ins.Args {
				callArgs[i] = regs[r]
			}
			regs[ins.Dest] = in.Run(ins.FunctionId, callArgs)
		case Ret:
			return regs[ins.Reg]
		default:
			utils.ShouldNotReachHere()
		}
	}
	utils.ShouldNotReachHere()
	return 0
}

// foldBinOp applies op with the wrapping/truncating semantics spec.md §3
// mandates. It is shared with internal/optimize's constant-propagation pass
// so the two stay bit-for-bit identical.
func foldBinOp(op BinOpOperator, a, b int64) int64 {
	switch op {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	case Div:
		return a / b // truncates toward zero, per Go int64 division
	default:
		utils.ShouldNotReachHere()
		return 0
	}
}

// FoldBinOp is the exported form of foldBinOp, used by internal/optimize.
func FoldBinOp(op BinOpOperator, a, b int64) int64 { return foldBinOp(op, a, b) }
