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

// Package parser turns an Emjay token stream into the internal/ast syntax
// tree, per the grammar in spec.md §6. Expressions are parsed with a Pratt
// (precedence-climbing) loop; statements and function declarations are
// plain recursive descent.
package parser

import (
	"fmt"

	"github.com/andreabergia/emjay/internal/ast"
	"github.com/andreabergia/emjay/internal/lexer"
)

// ParseError reports a syntactic error with source position.
type ParseError struct {
	Line, Column int
	Message      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse lexes and parses a whole source file into a Program.
func Parse(src string) (ast.Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	var prog ast.Program
	for p.cur().Kind != lexer.TkEOF {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		prog = append(prog, fn)
	}
	return prog, nil
}

func (p *parser) cur() lexer.Token  { return p.tokens[p.pos] }
func (p *parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind lexer.TokenKind) (lexer.Token, error) {
	t := p.cur()
	if t.Kind != kind {
		return t, &ParseError{t.Line, t.Column, fmt.Sprintf("expected %s, found %s", kind, t.Kind)}
	}
	return p.advance(), nil
}

func (p *parser) parseFunction() (ast.Function, error) {
	if _, err := p.expect(lexer.TkFn); err != nil {
		return ast.Function{}, err
	}
	name, err := p.expect(lexer.TkIdent)
	if err != nil {
		return ast.Function{}, err
	}
	if _, err := p.expect(lexer.TkLParen); err != nil {
		return ast.Function{}, err
	}
	var args []string
	for p.cur().Kind != lexer.TkRParen {
		if len(args) > 0 {
			if _, err := p.expect(lexer.TkComma); err != nil {
				return ast.Function{}, err
			}
		}
		argName, err := p.expect(lexer.TkIdent)
		if err != nil {
			return ast.Function{}, err
		}
		args = append(args, argName.Text)
	}
	if _, err := p.expect(lexer.TkRParen); err != nil {
		return ast.Function{}, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return ast.Function{}, err
	}
	return ast.Function{Name: name.Text, Args: args, Block: block}, nil
}

func (p *parser) parseBlock() (ast.Block, error) {
	if _, err := p.expect(lexer.TkLBrace); err != nil {
		return nil, err
	}
	var block ast.Block
	for p.cur().Kind != lexer.TkRBrace {
		elem, err := p.parseBlockElement()
		if err != nil {
			return nil, err
		}
		block = append(block, elem)
	}
	if _, err := p.expect(lexer.TkRBrace); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *parser) parseBlockElement() (ast.BlockElement, error) {
	switch p.cur().Kind {
	case lexer.TkLBrace:
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return ast.NestedBlock{Block: block}, nil

	case lexer.TkLet:
		p.advance()
		name, err := p.expect(lexer.TkIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TkAssign); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TkSemi); err != nil {
			return nil, err
		}
		return ast.LetStatement{Name: name.Text, Expr: expr}, nil

	case lexer.TkReturn:
		p.advance()
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TkSemi); err != nil {
			return nil, err
		}
		return ast.ReturnStatement{Expr: expr}, nil

	case lexer.TkIdent:
		name, err := p.expect(lexer.TkIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TkAssign); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TkSemi); err != nil {
			return nil, err
		}
		return ast.AssignStatement{Name: name.Text, Expr: expr}, nil

	default:
		t := p.cur()
		return nil, &ParseError{t.Line, t.Column, fmt.Sprintf("unexpected token %s in statement", t.Kind)}
	}
}

// Binding powers: higher binds tighter. Unary +/- is handled separately and
// binds tighter than every binary operator.
func binaryPrecedence(kind lexer.TokenKind) (int, ast.BinaryOperator, bool) {
	switch kind {
	case lexer.TkPlus:
		return 1, ast.OpAdd, true
	case lexer.TkMinus:
		return 1, ast.OpSub, true
	case lexer.TkStar:
		return 2, ast.OpMul, true
	case lexer.TkSlash:
		return 2, ast.OpDiv, true
	case lexer.TkPercent:
		return 2, ast.OpMod, true
	case lexer.TkCaret:
		return 3, ast.OpPow, true
	default:
		return 0, 0, false
	}
}

func (p *parser) parseExpression(minPrecedence int) (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec, op, ok := binaryPrecedence(p.cur().Kind)
		if !ok || prec < minPrecedence {
			return left, nil
		}
		p.advance()
		// Left-associative for every operator except `^`, which binds its
		// right-hand side at the same precedence so that `2^3^2` groups as
		// `2^(3^2)`.
		nextMin := prec + 1
		if op == ast.OpPow {
			nextMin = prec
		}
		right, err := p.parseExpression(nextMin)
		if err != nil {
			return nil, err
		}
		left = ast.BinaryOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (ast.Expression, error) {
	switch p.cur().Kind {
	case lexer.TkMinus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Negate{Operand: operand}, nil
	case lexer.TkPlus:
		p.advance()
		return p.parseUnary()
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	t := p.cur()
	switch t.Kind {
	case lexer.TkNumber:
		p.advance()
		return ast.Number{Value: t.Number}, nil

	case lexer.TkLParen:
		p.advance()
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TkRParen); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.TkIdent:
		p.advance()
		if p.cur().Kind == lexer.TkLParen {
			p.advance()
			var args []ast.Expression
			for p.cur().Kind != lexer.TkRParen {
				if len(args) > 0 {
					if _, err := p.expect(lexer.TkComma); err != nil {
						return nil, err
					}
				}
				arg, err := p.parseExpression(0)
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}
			if _, err := p.expect(lexer.TkRParen); err != nil {
				return nil, err
			}
			return ast.FunctionCall{Name: t.Text, Args: args}, nil
		}
		return ast.Identifier{Name: t.Text}, nil

	default:
		return nil, &ParseError{t.Line, t.Column, fmt.Sprintf("unexpected token %s in expression", t.Kind)}
	}
}
