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

package regalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andreabergia/emjay/internal/ir"
)

func fn(body []ir.Instruction, numUsedRegisters int) *ir.CompiledFunction {
	return &ir.CompiledFunction{Name: "test", Body: body, NumUsedRegisters: numUsedRegisters}
}

func TestCanAllocateAndHandleSpillover(t *testing.T) {
	f := fn([]ir.Instruction{
		ir.Mvi{Dest: 0, Val: 0},
		ir.Mvi{Dest: 1, Val: 1},
		ir.BinOp{Op: ir.Add, Dest: 2, Op1: 0, Op2: 1},
	}, 3)

	got := Allocate(f, []string{"h0"})
	assert.Equal(t, []AllocatedLocation[string]{
		regLoc("h0"),
		stackLoc[string](0),
		stackLoc[string](8),
	}, got)
}

func TestCanReuseFreeRegisters(t *testing.T) {
	// r2 is unused after instruction #2, so #3 can reuse its hw register.
	f := fn([]ir.Instruction{
		ir.Mvi{Dest: 0, Val: 0},
		ir.Mvi{Dest: 1, Val: 1},
		ir.Mvi{Dest: 2, Val: 2},
		ir.BinOp{Op: ir.Add, Dest: 3, Op1: 0, Op2: 1},
	}, 4)

	got := Allocate(f, []string{"h0", "h1", "h2"})
	assert.Equal(t, []AllocatedLocation[string]{
		regLoc("h0"),
		regLoc("h1"),
		regLoc("h2"),
		regLoc("h2"),
	}, got)
}

func TestEveryOperandGetsALocation(t *testing.T) {
	f := fn([]ir.Instruction{
		ir.Mvi{Dest: 0, Val: 42},
		ir.Ret{Reg: 0},
	}, 1)

	got := Allocate(f, []string{"h0", "h1"})
	assert.Len(t, got, 1)
	assert.Equal(t, regLoc("h0"), got[0])
}
