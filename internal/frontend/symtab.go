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

import "github.com/andreabergia/emjay/internal/ir"

// symbolKind discriminates the three symbol.md §4.1 kinds.
type symbolKind int

const (
	symFunction symbolKind = iota
	symArgument
	symVariable
)

// symbol is one entry in a symbolTable: a function declaration, an unread
// argument, or a variable (including an argument upgraded on first write).
type symbol struct {
	kind     symbolKind
	name     string
	funcID   ir.FunctionId  // symFunction
	arity    int            // symFunction
	argIndex ir.ArgumentIndex // symArgument
	register ir.Register    // symVariable
}

// symbolTable is one lexical scope: a flat map plus a parent link, per
// spec.md §4.1's scope-stack design.
type symbolTable struct {
	parent  *symbolTable
	symbols map[string]*symbol
}

func newSymbolTable(parent *symbolTable) *symbolTable {
	return &symbolTable{parent: parent, symbols: make(map[string]*symbol)}
}

// lookup walks outward through parent scopes until it finds name, returning
// the defining table along with the symbol so callers can mutate it in
// place (needed by Assign).
func (t *symbolTable) lookup(name string) (*symbolTable, *symbol) {
	for s := t; s != nil; s = s.parent {
		if sym, ok := s.symbols[name]; ok {
			return s, sym
		}
	}
	return nil, nil
}

func (t *symbolTable) put(s *symbol) {
	t.symbols[s.name] = s
}
