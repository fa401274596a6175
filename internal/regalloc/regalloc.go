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

// Package regalloc implements the lightweight, two-pass allocator described
// in spec.md §4.3: a logical register pool is grown and reused across the
// straight-line body, then mapped onto whatever hardware register pool (or
// stack slot) a backend supplies.
package regalloc

import (
	"fmt"

	"github.com/andreabergia/emjay/internal/ir"
	"github.com/andreabergia/emjay/internal/logging"
)

// AllocatedLocation is where one IR register lives after allocation: either
// a hardware register from the backend's pool, or a stack slot at Offset
// bytes from the frame base. R is the backend's own register-handle type
// (e.g. an arm64 or amd64 register enum).
type AllocatedLocation[R any] struct {
	IsStack  bool
	Register R
	Offset   int
}

func regLoc[R any](r R) AllocatedLocation[R] { return AllocatedLocation[R]{Register: r} }
func stackLoc[R any](offset int) AllocatedLocation[R] {
	return AllocatedLocation[R]{IsStack: true, Offset: offset}
}

func (l AllocatedLocation[R]) String() string {
	if l.IsStack {
		return fmt.Sprintf("stack[%d]", l.Offset)
	}
	return fmt.Sprintf("%v", l.Register)
}

// programCounter indexes one instruction within a function body.
type programCounter int

// computeUsedAt maps each IR register to the ordered list of program
// counters at which it appears as an operand (destination occurrence
// included), built from Instruction.Operands()'s insertion order.
func computeUsedAt(fn *ir.CompiledFunction) [][]programCounter {
	usedAt := make([][]programCounter, fn.NumUsedRegisters)
	for pc, instr := range fn.Body {
		for _, r := range instr.Operands() {
			usedAt[r] = append(usedAt[r], programCounter(pc))
		}
	}
	return usedAt
}

const notAllocated = -1

// allocateLogicalSlots walks the body forward, assigning each IR register a
// logical slot number - reusing a free slot when one is available, else
// growing the virtual pool - and freeing a slot the instant its last use
// has been processed.
func allocateLogicalSlots(fn *ir.CompiledFunction, usedAt [][]programCounter) []int {
	allocation := make([]int, fn.NumUsedRegisters)
	for i := range allocation {
		allocation[i] = notAllocated
	}

	const free = -1
	var content []int // logical slot -> ir register, or free
	var freeSlots []int

	log := logging.L()
	for pc, instr := range fn.Body {
		for _, r := range instr.Operands() {
			switch {
			case allocation[r] != notAllocated:
				// already has a slot
			case len(freeSlots) == 0:
				slot := len(content)
				allocation[r] = slot
				content = append(content, int(r))
			default:
				slot := freeSlots[len(freeSlots)-1]
				freeSlots = freeSlots[:len(freeSlots)-1]
				allocation[r] = slot
				content[slot] = int(r)
			}
		}

		for slot, heldReg := range content {
			if heldReg == free {
				continue
			}
			pcs := usedAt[heldReg]
			if len(pcs) > 0 && pcs[0] == programCounter(pc) {
				pcs = pcs[1:]
				usedAt[heldReg] = pcs
			}
			if len(pcs) == 0 {
				content[slot] = free
				freeSlots = append(freeSlots, slot)
			}
		}
	}

	log.Debugw("allocated logical slots", "function", fn.Name, "slots", len(content))
	return allocation
}

// mapToHardware resolves each logical slot to a concrete hardware register
// when the pool is big enough, else to a stack slot 8 bytes past the last
// one, per spec.md §4.3.
func mapToHardware[R any](allocation []int, pool []R) []AllocatedLocation[R] {
	out := make([]AllocatedLocation[R], len(allocation))
	for ir, slot := range allocation {
		if slot == notAllocated {
			panic(fmt.Sprintf("regalloc: ir register %d was never allocated a slot", ir))
		}
		if slot < len(pool) {
			out[ir] = regLoc(pool[slot])
		} else {
			out[ir] = stackLoc[R]((slot - len(pool)) * 8)
		}
	}
	return out
}

// Allocate runs the full two-pass allocation for fn against the backend's
// hardware register pool. New logical slots take pool entries in order
// (pool[0] first); a freed slot is reused before a new one is opened, the
// most recently freed first.
func Allocate[R any](fn *ir.CompiledFunction, pool []R) []AllocatedLocation[R] {
	usedAt := computeUsedAt(fn)
	allocation := allocateLogicalSlots(fn, usedAt)
	return mapToHardware(allocation, pool)
}
