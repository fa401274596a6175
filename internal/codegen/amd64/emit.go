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

package amd64

import (
	"strings"

	"github.com/andreabergia/emjay/internal/codegen"
	"github.com/andreabergia/emjay/internal/ir"
	"github.com/andreabergia/emjay/internal/regalloc"
)

// callArgRegisters is where a call site places the trampoline's own
// arguments: catalog address, callee id, then up to 4 forwarded call
// arguments. System V only guarantees 6 integer argument registers (not
// AArch64's 8), so - unlike the arm64 backend's 6-argument call sites -
// amd64 call sites are limited to 4 forwarded arguments.
var callArgRegisters = [6]Register{RDI, RSI, RDX, RCX, R8, R9}

// Generator lowers one optimized, allocated CompiledFunction into x86-64
// machine code. Single-use: construct a fresh one per function via New().
type Generator struct {
	locations        []regalloc.AllocatedLocation[Register]
	stackSlots       int
	usedRegisters    []Register
	usedArgRegisters []Register
}

func New() *Generator { return &Generator{} }

func (g *Generator) Name() string { return "amd64" }

func argumentLocation(arg int) (regalloc.AllocatedLocation[Register], *codegen.Error) {
	if arg >= len(argumentRegisters) {
		return regalloc.AllocatedLocation[Register]{}, codegen.NotImplementedf("support for more than %d arguments", len(argumentRegisters))
	}
	return regalloc.AllocatedLocation[Register]{Register: argumentRegisters[arg]}, nil
}

func (g *Generator) registerOf(loc regalloc.AllocatedLocation[Register]) Register {
	if loc.IsStack {
		return 0
	}
	return loc.Register
}

func localOffset(loc regalloc.AllocatedLocation[Register]) int8 {
	return int8(loc.Offset + 8)
}

// readOperand and writeOperand lower an allocated location to a register
// operand, loading/storing through a scratch register at [rbp-offset] for a
// spilled value. Unlike the arm64 backend (which simply refuses to compile
// anything that spills), this one supports it: x86-64's register pool is
// smaller and spilling is the common case here, not the exceptional one.
func (g *Generator) readOperand(instructions []instruction, loc regalloc.AllocatedLocation[Register], scratch Register) ([]instruction, Register) {
	if !loc.IsStack {
		return instructions, loc.Register
	}
	instructions = append(instructions, loadLocal{destination: scratch, offset: localOffset(loc)})
	return instructions, scratch
}

func (g *Generator) writeOperand(instructions []instruction, loc regalloc.AllocatedLocation[Register], value Register) []instruction {
	if !loc.IsStack {
		if value != loc.Register {
			instructions = append(instructions, movRegToReg{source: value, destination: loc.Register})
		}
		return instructions
	}
	return append(instructions, storeLocal{source: value, offset: localOffset(loc)})
}

// GenerateMachineCode implements codegen.Generator.
func (g *Generator) GenerateMachineCode(fn *ir.CompiledFunction, catalogAddr, trampolineAddr uintptr) (*codegen.GeneratedMachineCode, error) {
	g.locations = regalloc.Allocate(fn, pool)
	for _, loc := range g.locations {
		if !loc.IsStack && !containsRegister(g.usedRegisters, loc.Register) {
			g.usedRegisters = append(g.usedRegisters, loc.Register)
		}
		if loc.IsStack {
			slots := loc.Offset/8 + 1
			if slots > g.stackSlots {
				g.stackSlots = slots
			}
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
	var subRspIdx int

	instructions = append(instructions, pushRbpMovRbpRsp{})
	subRspIdx = len(instructions)
	instructions = append(instructions, subRspImm{})

	for _, instr := range fn.Body {
		switch in := instr.(type) {
		case ir.Mvi:
			destLoc := g.locations[in.Dest]
			reg := g.registerOf(destLoc)
			if destLoc.IsStack {
				reg = RAX
				instructions = append(instructions, movImm{register: reg, value: in.Val})
				instructions = append(instructions, storeLocal{source: reg, offset: localOffset(destLoc)})
				continue
			}
			instructions = append(instructions, movImm{register: reg, value: in.Val})

		case ir.MvArg:
			argLoc, err := argumentLocation(int(in.Arg))
			if err != nil {
				return nil, err
			}
			destLoc := g.locations[in.Dest]
			instructions = g.writeOperand(instructions, destLoc, argLoc.Register)

		case ir.Ret:
			var source Register
			instructions, source = g.readOperand(instructions, g.locations[in.Reg], RAX)
			if source != RAX {
				instructions = append(instructions, movRegToReg{source: source, destination: RAX})
			}
			instructions = append(instructions, leave{})
			instructions = append(instructions, ret{})

		case ir.Neg:
			var source Register
			instructions, source = g.readOperand(instructions, g.locations[in.Op], RAX)
			destLoc := g.locations[in.Dest]
			if source != RAX {
				instructions = append(instructions, movRegToReg{source: source, destination: RAX})
			}
			instructions = append(instructions, neg{register: RAX})
			instructions = g.writeOperand(instructions, destLoc, RAX)

		case ir.BinOp:
			var reg1, reg2 Register
			instructions, reg1 = g.readOperand(instructions, g.locations[in.Op1], RAX)
			instructions, reg2 = g.readOperand(instructions, g.locations[in.Op2], RCX)
			destLoc := g.locations[in.Dest]

			switch in.Op {
			case ir.Add:
				if reg1 != RAX {
					instructions = append(instructions, movRegToReg{source: reg1, destination: RAX})
				}
				instructions = append(instructions, addRegToReg(RAX, reg2))
				instructions = g.writeOperand(instructions, destLoc, RAX)
			case ir.Sub:
				if reg1 != RAX {
					instructions = append(instructions, movRegToReg{source: reg1, destination: RAX})
				}
				instructions = append(instructions, subRegToReg(RAX, reg2))
				instructions = g.writeOperand(instructions, destLoc, RAX)
			case ir.Mul:
				if reg1 != RAX {
					instructions = append(instructions, movRegToReg{source: reg1, destination: RAX})
				}
				instructions = append(instructions, imul{destination: RAX, source: reg2})
				instructions = g.writeOperand(instructions, destLoc, RAX)
			case ir.Div:
				if reg1 != RAX {
					instructions = append(instructions, movRegToReg{source: reg1, destination: RAX})
				}
				instructions = append(instructions, cqo{})
				instructions = append(instructions, idivReg{register: reg2})
				instructions = g.writeOperand(instructions, destLoc, RAX)
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

	frameSize := uint32((g.stackSlots*8 + 15) &^ 15)
	instructions[subRspIdx] = subRspImm{imm32: frameSize}

	var asm strings.Builder
	var bytes []byte
	for _, in := range instructions {
		asm.WriteString(in.String())
		asm.WriteByte('\n')
		bytes = append(bytes, in.encode()...)
	}
	return &codegen.GeneratedMachineCode{Asm: asm.String(), Bytes: bytes}, nil
}

func (g *Generator) emitCall(in ir.Call, catalogAddr, trampolineAddr uintptr) ([]instruction, *codegen.Error) {
	var out []instruction

	out = append(out, push{RAX})
	out = append(out, push{R11})

	usedRegisters := append([]Register(nil), g.usedRegisters...)
	for _, r := range usedRegisters {
		out = append(out, push{r})
	}
	usedArgRegisters := append([]Register(nil), g.usedArgRegisters...)
	for _, r := range usedArgRegisters {
		out = append(out, push{r})
	}

	out = append(out, movImm{register: RDI, value: int64(catalogAddr)})
	out = append(out, movImm{register: RSI, value: int64(in.FunctionId)})

	if len(in.Args) > len(callArgRegisters)-2 {
		return nil, codegen.NotImplementedf("functions with more than %d call-site arguments", len(callArgRegisters)-2)
	}
	for i, arg := range in.Args {
		shifted := i + 2
		loc := g.locations[arg]
		var reg Register
		out, reg = g.readOperand(out, loc, RAX)
		out = append(out, movRegToReg{source: reg, destination: callArgRegisters[shifted]})
	}

	out = append(out, movImm{register: R11, value: int64(trampolineAddr)})
	out = append(out, call{register: R11})

	for i := len(usedArgRegisters) - 1; i >= 0; i-- {
		out = append(out, pop{usedArgRegisters[i]})
	}
	for i := len(usedRegisters) - 1; i >= 0; i-- {
		out = append(out, pop{usedRegisters[i]})
	}
	out = append(out, pop{R11})

	destLoc := g.locations[in.Dest]
	out = g.writeOperand(out, destLoc, RAX)
	out = append(out, pop{RAX})

	return out, nil
}

func containsRegister(regs []Register, r Register) bool {
	for _, x := range regs {
		if x == r {
			return true
		}
	}
	return false
}
