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

// deduplicateConstants drops a repeated Mvi of a value already materialized
// in an earlier register, rewriting every later operand reference to the
// first register instead. Destinations are never rewritten - only operands
// - so register numbering stays sparse until the final renaming pass.
func deduplicateConstants(body []ir.Instruction, numUsedRegisters int) []ir.Instruction {
	replacement := make([]ir.Register, numUsedRegisters)
	for i := range replacement {
		replacement[i] = ir.Register(i)
	}
	byValue := make(map[int64]ir.Register)

	result := make([]ir.Instruction, 0, len(body))
	for _, instr := range body {
		switch in := instr.(type) {
		case ir.Mvi:
			if existing, ok := byValue[in.Val]; ok {
				replacement[in.Dest] = existing
			} else {
				byValue[in.Val] = in.Dest
				result = append(result, in)
			}

		case ir.MvArg:
			result = append(result, in)

		case ir.BinOp:
			result = append(result, ir.BinOp{
				Op:   in.Op,
				Dest: in.Dest,
				Op1:  replacement[in.Op1],
				Op2:  replacement[in.Op2],
			})

		case ir.Neg:
			result = append(result, ir.Neg{Dest: in.Dest, Op: replacement[in.Op]})

		case ir.Ret:
			result = append(result, ir.Ret{Reg: replacement[in.Reg]})

		case ir.Call:
			args := make([]ir.Register, len(in.Args))
			for i, a := range in.Args {
				args[i] = replacement[a]
			}
			result = append(result, ir.Call{Dest: in.Dest, Name: in.Name, FunctionId: in.FunctionId, Args: args})

		default:
			result = append(result, instr)
		}
	}
	return result
}
