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

package optimize

import "github.com/andreabergia/emjay/internal/ir"

type renamedBody struct {
	body             []ir.Instruction
	numUsedRegisters int
}

// renameRegisters produces the dense register numbering the allocator
// requires: destinations are renumbered with a fresh monotone counter, and
// every operand is rewritten through the same replacement table. Ret does
// not consume a new id, since it never defines a register.
func renameRegisters(body []ir.Instruction, numUsedRegisters int) renamedBody {
	replacement := make([]ir.Register, numUsedRegisters)
	for i := range replacement {
		replacement[i] = ir.Register(i)
	}

	next := ir.Register(0)
	result := make([]ir.Instruction, 0, len(body))
	renumber := func(dest ir.Register) ir.Register {
		out := dest
		if next != dest {
			out = next
			replacement[dest] = next
		}
		next++
		return out
	}

	for _, instr := range body {
		switch in := instr.(type) {
		case ir.Ret:
			result = append(result, ir.Ret{Reg: replacement[in.Reg]})

		case ir.Mvi:
			result = append(result, ir.Mvi{Dest: renumber(in.Dest), Val: in.Val})

		case ir.MvArg:
			result = append(result, ir.MvArg{Dest: renumber(in.Dest), Arg: in.Arg})

		case ir.BinOp:
			op1, op2 := replacement[in.Op1], replacement[in.Op2]
			result = append(result, ir.BinOp{Op: in.Op, Dest: renumber(in.Dest), Op1: op1, Op2: op2})

		case ir.Neg:
			op := replacement[in.Op]
			result = append(result, ir.Neg{Dest: renumber(in.Dest), Op: op})

		case ir.Call:
			args := make([]ir.Register, len(in.Args))
			for i, a := range in.Args {
				args[i] = replacement[a]
			}
			result = append(result, ir.Call{Dest: renumber(in.Dest), Name: in.Name, FunctionId: in.FunctionId, Args: args})
		}
	}

	return renamedBody{body: result, numUsedRegisters: int(next)}
}
