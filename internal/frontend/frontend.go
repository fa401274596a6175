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

package frontend

import (
	"golang.org/x/exp/slices"

	"github.com/andreabergia/emjay/internal/ast"
	"github.com/andreabergia/emjay/internal/ir"
	"github.com/andreabergia/emjay/internal/logging"
)

// Compile lowers a whole parsed program into IR, one CompiledFunction per
// source function, in declaration order. It runs the spec.md §4.1 function
// pre-pass first so that a call to a function declared later in the file
// still resolves.
func Compile(program ast.Program) ([]*ir.CompiledFunction, error) {
	log := logging.L()
	global := newSymbolTable(nil)

	for id, fn := range program {
		global.put(&symbol{
			kind:   symFunction,
			name:   fn.Name,
			funcID: ir.FunctionId(id),
			arity:  len(fn.Args),
		})
	}

	out := make([]*ir.CompiledFunction, 0, len(program))
	for id, fn := range program {
		log.Debugw("lowering function", "name", fn.Name, "id", id)
		compiled, err := compileFunction(ir.FunctionId(id), fn, global)
		if err != nil {
			return nil, err
		}
		out = append(out, compiled)
	}
	return out, nil
}

// functionCompiler holds the per-function mutable state: the monotone
// register counter. It does not survive across functions.
type functionCompiler struct {
	nextReg ir.Register
}

func (c *functionCompiler) allocReg() ir.Register {
	r := c.nextReg
	c.nextReg++
	return r
}

func compileFunction(id ir.FunctionId, fn ast.Function, global *symbolTable) (*ir.CompiledFunction, error) {
	scope := newSymbolTable(global)
	for i, argName := range fn.Args {
		if slices.Contains(fn.Args[:i], argName) {
			return nil, &Error{Kind: DuplicateArgumentName, Name: argName}
		}
		scope.put(&symbol{kind: symArgument, name: argName, argIndex: ir.ArgumentIndex(i)})
	}

	c := &functionCompiler{}
	var body []ir.Instruction
	if err := c.compileBlock(&body, fn.Block, scope); err != nil {
		return nil, err
	}

	return &ir.CompiledFunction{
		Name:             fn.Name,
		Id:               id,
		NumArgs:          len(fn.Args),
		Body:             body,
		NumUsedRegisters: int(c.nextReg),
	}, nil
}

func (c *functionCompiler) compileBlock(body *[]ir.Instruction, block ast.Block, parent *symbolTable) error {
	scope := newSymbolTable(parent)
	for _, elem := range block {
		switch e := elem.(type) {
		case ast.NestedBlock:
			if err := c.compileBlock(body, e.Block, scope); err != nil {
				return err
			}

		case ast.LetStatement:
			// Unlike a read, which only needs the nearest binding, shadowing
			// is checked against every enclosing scope: a `let` may not
			// redeclare a variable or an argument introduced anywhere
			// outward, even from inside a nested block.
			if _, existing := scope.lookup(e.Name); existing != nil {
				switch existing.kind {
				case symVariable:
					return &Error{Kind: VariableAlreadyDefined, Name: e.Name}
				case symArgument:
					return &Error{Kind: VariableCannotShadowArgument, Name: e.Name}
				}
			}
			reg, err := c.compileExpression(body, e.Expr, scope)
			if err != nil {
				return err
			}
			scope.put(&symbol{kind: symVariable, name: e.Name, register: reg})

		case ast.AssignStatement:
			owner, sym := scope.lookup(e.Name)
			if sym == nil {
				return &Error{Kind: VariableNotDefined, Name: e.Name}
			}
			if sym.kind == symArgument {
				// First write to an argument: materialize it into a
				// register via MvArg, then record a Variable symbol in the
				// *current* block scope that shadows the argument from
				// here on, per spec.md §4.1.
				materialized := c.allocReg()
				*body = append(*body, ir.MvArg{Dest: materialized, Arg: sym.argIndex})
				scope.put(&symbol{kind: symVariable, name: e.Name, register: materialized})
				owner, sym = scope.lookup(e.Name)
			}
			reg, err := c.compileExpression(body, e.Expr, scope)
			if err != nil {
				return err
			}
			owner.symbols[sym.name].register = reg

		case ast.ReturnStatement:
			reg, err := c.compileExpression(body, e.Expr, scope)
			if err != nil {
				return err
			}
			*body = append(*body, ir.Ret{Reg: reg})

		default:
			panic("frontend: unknown block element type")
		}
	}
	return nil
}

func (c *functionCompiler) compileExpression(body *[]ir.Instruction, expr ast.Expression, scope *symbolTable) (ir.Register, error) {
	switch e := expr.(type) {
	case ast.Identifier:
		_, sym := scope.lookup(e.Name)
		if sym == nil || (sym.kind != symVariable && sym.kind != symArgument) {
			return 0, &Error{Kind: VariableNotDefined, Name: e.Name}
		}
		if sym.kind == symArgument {
			reg := c.allocReg()
			*body = append(*body, ir.MvArg{Dest: reg, Arg: sym.argIndex})
			// Upgrade the argument symbol in place to a variable bound to
			// this register, so later reads in the same scope reuse it
			// instead of re-emitting MvArg.
			sym.kind = symVariable
			sym.register = reg
			return reg, nil
		}
		return sym.register, nil

	case ast.Number:
		reg := c.allocReg()
		*body = append(*body, ir.Mvi{Dest: reg, Val: e.Value})
		return reg, nil

	case ast.Negate:
		op, err := c.compileExpression(body, e.Operand, scope)
		if err != nil {
			return 0, err
		}
		dest := c.allocReg()
		*body = append(*body, ir.Neg{Dest: dest, Op: op})
		return dest, nil

	case ast.BinaryOp:
		irOp, ok := toIrBinOp(e.Op)
		if !ok {
			return 0, &Error{Kind: UnsupportedOperator, Name: e.Op.String()}
		}
		op1, err := c.compileExpression(body, e.Left, scope)
		if err != nil {
			return 0, err
		}
		op2, err := c.compileExpression(body, e.Right, scope)
		if err != nil {
			return 0, err
		}
		dest := c.allocReg()
		*body = append(*body, ir.BinOp{Op: irOp, Dest: dest, Op1: op1, Op2: op2})
		return dest, nil

	case ast.FunctionCall:
		_, sym := scope.lookup(e.Name)
		if sym == nil || sym.kind != symFunction {
			return 0, &Error{Kind: UnknownFunctionCalled, Name: e.Name}
		}
		if sym.arity != len(e.Args) {
			return 0, &Error{Kind: InvalidArgumentsToFunctionCall, Name: e.Name, Expected: sym.arity, Actual: len(e.Args)}
		}
		args := make([]ir.Register, len(e.Args))
		for i, a := range e.Args {
			reg, err := c.compileExpression(body, a, scope)
			if err != nil {
				return 0, err
			}
			args[i] = reg
		}
		dest := c.allocReg()
		*body = append(*body, ir.Call{Dest: dest, Name: sym.name, FunctionId: sym.funcID, Args: args})
		return dest, nil

	default:
		panic("frontend: unknown expression type")
	}
}

// toIrBinOp maps the six grammar-legal operators onto the four the IR
// supports. `%` and `^` parse fine (spec.md §6 grammar) but have no IR
// representation (spec.md §3), so they are rejected here rather than in the
// parser - this keeps the grammar and the IR each exactly as rich as the
// specification defines them.
func toIrBinOp(op ast.BinaryOperator) (ir.BinOpOperator, bool) {
	switch op {
	case ast.OpAdd:
		return ir.Add, true
	case ast.OpSub:
		return ir.Sub, true
	case ast.OpMul:
		return ir.Mul, true
	case ast.OpDiv:
		return ir.Div, true
	default:
		return 0, false
	}
}
