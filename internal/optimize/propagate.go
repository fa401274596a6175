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

// Package optimize runs the four-pass per-function optimizer described in
// spec.md §4.2: constant propagation, constant deduplication, dead-store
// elimination, then dense renaming. Each pass consumes one CompiledFunction
// body and produces a new one; none mutate in place, mirroring the
// wholesale-replacement strategy of the original Rust optimizer
// (original_source/src/optimization.rs) this package extends.
package optimize

import "github.com/andreabergia/emjay/internal/ir"

// propagateConstants folds a BinOp or Neg whose operands are both known
// constants into an equivalent Mvi, using the same wrapping/truncating
// arithmetic internal/ir's reference interpreter uses. Division by zero is
// never folded, so that instruction's runtime trap behavior (spec.md §9,
// open question 1) is preserved verbatim.
func propagateConstants(body []ir.Instruction, numUsedRegisters int) []ir.Instruction {
	known := make([]*int64, numUsedRegisters)
	setKnown := func(r ir.Register, v int64) {
		vv := v
		known[r] = &vv
	}

	result := make([]ir.Instruction, 0, len(body))
	for _, instr := range body {
		switch in := instr.(type) {
		case ir.Mvi:
			setKnown(in.Dest, in.Val)
			result = append(result, in)

		case ir.BinOp:
			a, b := known[in.Op1], known[in.Op2]
			if a != nil && b != nil && !(in.Op == ir.Div && *b == 0) {
				folded := ir.FoldBinOp(in.Op, *a, *b)
				setKnown(in.Dest, folded)
				result = append(result, ir.Mvi{Dest: in.Dest, Val: folded})
			} else {
				known[in.Dest] = nil
				result = append(result, in)
			}

		case ir.Neg:
			if a := known[in.Op]; a != nil {
				folded := -*a
				setKnown(in.Dest, folded)
				result = append(result, ir.Mvi{Dest: in.Dest, Val: folded})
			} else {
				known[in.Dest] = nil
				result = append(result, in)
			}

		default:
			// MvArg, Call, Ret write at most one register (Ret writes
			// none) and are never folded; nothing becomes known about
			// their destination.
			if ops := instr.Operands(); len(ops) > 0 {
				if _, isRet := instr.(ir.Ret); !isRet {
					known[ops[0]] = nil
				}
			}
			result = append(result, instr)
		}
	}
	return result
}
