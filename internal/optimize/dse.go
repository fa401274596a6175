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

// deadStoreElimination computes liveness with a single backward sweep: Ret
// marks its operand live; a Call is always kept, since the call itself is
// observable, and its arguments become live; every other instruction
// survives only if its destination is already live, in which case its own
// operands become live in turn. Exact over straight-line code, since there
// are no joins to merge liveness across.
func deadStoreElimination(body []ir.Instruction, numUsedRegisters int) []ir.Instruction {
	live := make([]bool, numUsedRegisters)

	reversed := make([]ir.Instruction, 0, len(body))
	for i := len(body) - 1; i >= 0; i-- {
		switch in := body[i].(type) {
		case ir.Ret:
			live[in.Reg] = true
			reversed = append(reversed, in)

		case ir.Mvi:
			if live[in.Dest] {
				reversed = append(reversed, in)
			}

		case ir.MvArg:
			if live[in.Dest] {
				reversed = append(reversed, in)
			}

		case ir.BinOp:
			if live[in.Dest] {
				live[in.Op1] = true
				live[in.Op2] = true
				reversed = append(reversed, in)
			}

		case ir.Neg:
			if live[in.Dest] {
				live[in.Op] = true
				reversed = append(reversed, in)
			}

		case ir.Call:
			for _, a := range in.Args {
				live[a] = true
			}
			reversed = append(reversed, in)
		}
	}

	result := make([]ir.Instruction, len(reversed))
	for i, instr := range reversed {
		result[len(reversed)-1-i] = instr
	}
	return result
}
