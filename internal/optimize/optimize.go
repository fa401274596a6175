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

import (
	"github.com/andreabergia/emjay/internal/ir"
	"github.com/andreabergia/emjay/internal/logging"
)

// Function runs all four passes, in the fixed order spec.md §4.2 mandates:
// propagation enables deduplication, deduplication enables dead-store
// elimination, and elimination leaves gaps that renaming closes back up for
// the register allocator.
func Function(fn *ir.CompiledFunction) *ir.CompiledFunction {
	body := propagateConstants(fn.Body, fn.NumUsedRegisters)
	body = deduplicateConstants(body, fn.NumUsedRegisters)
	body = deadStoreElimination(body, fn.NumUsedRegisters)
	renamed := renameRegisters(body, fn.NumUsedRegisters)

	logging.L().Debugw("optimized function",
		"name", fn.Name,
		"before_instructions", len(fn.Body), "after_instructions", len(renamed.body),
		"before_registers", fn.NumUsedRegisters, "after_registers", renamed.numUsedRegisters,
	)

	return &ir.CompiledFunction{
		Name:             fn.Name,
		Id:               fn.Id,
		NumArgs:          fn.NumArgs,
		Body:             renamed.body,
		NumUsedRegisters: renamed.numUsedRegisters,
	}
}

// All runs Function over every compiled function in declaration order.
func All(functions []*ir.CompiledFunction) []*ir.CompiledFunction {
	out := make([]*ir.CompiledFunction, len(functions))
	for i, fn := range functions {
		out[i] = Function(fn)
	}
	return out
}
