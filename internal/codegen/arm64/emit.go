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

package arm64

import (
	"strings"

	"github.com/andreabergia/emjay/internal/codegen"
	"github.com/andreabergia/emjay/internal/ir"
	"github.com/andreabergia/emjay/internal/regalloc"
)

// Generator lowers one optimized, allocated CompiledFunction into AArch64
// machine code. A Generator is single-use: construct a fresh one per
// function via New().
type Generator struct {
	locations        []regalloc.AllocatedLocation[Register]
	stackOffset      uint32
	maxStackOffset   uint32
	usedRegisters    []Register
	usedArgRegisters []Register
}

func New() *Generator { return &Generator{} }

func (g *Generator) Name() string { return "arm64" }

func argumentLocation(arg int) (regalloc.AllocatedLocation[Register], *codegen.Error) {
	if arg >= len(argumentRegisters) {
		return regalloc.AllocatedLocation[Register]{}, codegen.NotImplementedf("support for more than %d arguments", len(argumentRegisters))
	}
	return regalloc.AllocatedLocation[Register]{Register: argumentRegisters[arg]}, nil
}

func registerOf(loc regalloc.AllocatedLocation[Register], reason string) (Register, *codegen.Error) {
	if loc.IsStack {
		return 0, codegen.NotImplementedf("%s", reason)
	}
	return loc.Register, nil
}

// GenerateMachineCode implements codegen.Generator.
func (g *Generator) GenerateMachineCode(fn *ir.CompiledFunction, catalogAddr, trampolineAddr uintptr) (*codegen.GeneratedMachineCode, error) {
	g.locations = regalloc.Allocate(fn, pool)
	for _, loc := range g.locations {
		if !loc.IsStack && !containsRegister(g.usedRegisters, loc.Register) {
			g.usedRegisters = append(g.usedRegisters, loc.Register)
		}
	}
	for i := 0; i < fn.NumArgs; i++ {
		loc, err := argumentLocation(i)
		if err != nil {
			return nil, err
		}
		g.usedArgRegisters = append(g.usedArgRegisters, loc.Register)
	}

	var instructions []instruction
	var ldpFixups []int

	g.stackOffset += 16
	g.maxStackOffset = g.stackOffset

	// Prologue placeholder: rewritten below once the final frame size is
	// known. mov x29, sp is stable from the start.
	instructions = append(instructions, nop{})
	instructions = append(instructions, movSpToReg{destination: X29})

	for _, instr := range fn.Body {
		switch in := instr.(type) {
		case ir.Mvi:
			reg, err := registerOf(g.locations[in.Dest], "move immediate to stack")
			if err != nil {
				return nil, err
			}
			instructions = append(instructions, movImm{register: reg, value: in.Val})

		case ir.MvArg:
			argLoc, err := argumentLocation(int(in.Arg))
			if err != nil {
				return nil, err
			}
			source, err := registerOf(argLoc, "move argument from stack")
			if err != nil {
				return nil, err
			}
			destination, err := registerOf(g.locations[in.Dest], "move argument to stack")
			if err != nil {
				return nil, err
			}
			instructions = append(instructions, movRegToReg{source: source, destination: destination})

		case ir.Ret:
			source, err := registerOf(g.locations[in.Reg], "return value from stack")
			if err != nil {
				return nil, err
			}
			instructions = append(instructions, movRegToReg{source: source, destination: X0})
			ldpFixups = append(ldpFixups, len(instructions))
			instructions = append(instructions, nop{})
			instructions = append(instructions, ret{})

		case ir.Neg:
			source, err := registerOf(g.locations[in.Op], "negate stack value")
			if err != nil {
				return nil, err
			}
			destination, err := registerOf(g.locations[in.Dest], "store negation to stack value")
			if err != nil {
				return nil, err
			}
			instructions = append(instructions, neg{source: source, destination: destination})

		case ir.BinOp:
			reg1, err := registerOf(g.locations[in.Op1], "binop when one operand is in stack")
			if err != nil {
				return nil, err
			}
			reg2, err := registerOf(g.locations[in.Op2], "binop when one operand is in stack")
			if err != nil {
				return nil, err
			}
			destination, err := registerOf(g.locations[in.Dest], "binop when destination is in stack")
			if err != nil {
				return nil, err
			}
			switch in.Op {
			case ir.Add:
				instructions = append(instructions, addRegToReg(destination, reg1, reg2))
			case ir.Sub:
				instructions = append(instructions, subRegToReg(destination, reg1, reg2))
			case ir.Mul:
				instructions = append(instructions, mulRegToReg(destination, reg1, reg2))
			case ir.Div:
				instructions = append(instructions, divRegToReg(destination, reg1, reg2))
			}

		case ir.Call:
			emitted, err := g.emitCall(in, catalogAddr, trampolineAddr)
			if err != nil {
				return nil, err
			}
			instructions = append(instructions, emitted...)

		default:
			return nil, codegen.NotImplementedf("unsupported instruction %T", instr)
		}
	}

	frameSize := (g.maxStackOffset + 15) &^ 15
	instructions[0] = stp{reg1: X29, reg2: X30, base: SP, offset: -int32(frameSize), preIndexing: true}
	for _, idx := range ldpFixups {
		instructions[idx] = ldp{reg1: X29, reg2: X30, base: SP, offset: int32(frameSize)}
	}

	var asm strings.Builder
	var bytes []byte
	for _, in := range instructions {
		asm.WriteString(in.String())
		asm.WriteByte('\n')
		bytes = append(bytes, in.encode()...)
	}
	return &codegen.GeneratedMachineCode{Asm: asm.String(), Bytes: bytes}, nil
}

// emitCall lowers a Call per spec.md §4.4: save the registers the caller
// still needs, materialize the trampoline's arguments, branch, then restore
// in reverse order.
func (g *Generator) emitCall(in ir.Call, catalogAddr, trampolineAddr uintptr) ([]instruction, *codegen.Error) {
	var out []instruction

	out = append(out, g.push(X0))
	out = append(out, g.push(X19))

	usedRegisters := append([]Register(nil), g.usedRegisters...)
	for _, r := range usedRegisters {
		out = append(out, g.push(r))
	}
	usedArgRegisters := append([]Register(nil), g.usedArgRegisters...)
	for _, r := range usedArgRegisters {
		if r != X0 {
			out = append(out, g.push(r))
		}
	}

	out = append(out, movImm{register: X0, value: int64(catalogAddr)})
	out = append(out, movImm{register: X1, value: int64(in.FunctionId)})

	for i, arg := range in.Args {
		shifted := i + 2 // X0, X1 already used by the trampoline's own args
		reg, err := registerOf(g.locations[arg], "passing arguments to function from stack")
		if err != nil {
			return nil, err
		}
		argLoc, err := argumentLocation(shifted)
		if err != nil {
			return nil, codegen.NotImplementedf("functions with more than %d call-site arguments", len(argumentRegisters)-2)
		}
		out = append(out, movRegToReg{source: reg, destination: argLoc.Register})
	}

	out = append(out, movImm{register: X19, value: int64(trampolineAddr)})
	out = append(out, blr{register: X19})

	for i := len(usedArgRegisters) - 1; i >= 0; i-- {
		if usedArgRegisters[i] != X0 {
			out = append(out, g.pop(usedArgRegisters[i]))
		}
	}
	for i := len(usedRegisters) - 1; i >= 0; i-- {
		out = append(out, g.pop(usedRegisters[i]))
	}
	out = append(out, g.pop(X19))

	destination, err := registerOf(g.locations[in.Dest], "move register to stack")
	if err != nil {
		return nil, err
	}
	out = append(out, movRegToReg{source: X0, destination: destination})
	out = append(out, g.pop(X0))

	return out, nil
}

func (g *Generator) push(register Register) instruction {
	g.stackOffset += 8
	if g.stackOffset > g.maxStackOffset {
		g.maxStackOffset = g.stackOffset
	}
	return str{source: register, base: X29, offset: g.stackOffset}
}

func (g *Generator) pop(register Register) instruction {
	i := ldr{destination: register, base: X29, offset: g.stackOffset}
	g.stackOffset -= 8
	return i
}

func containsRegister(regs []Register, r Register) bool {
	for _, x := range regs {
		if x == r {
			return true
		}
	}
	return false
}
