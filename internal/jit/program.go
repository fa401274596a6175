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

package jit

import (
	"github.com/andreabergia/emjay/internal/catalog"
)

// Program is the handle Compile hands back to the caller: the catalog and
// every executable page it references must outlive every invocation of Call
// (spec.md §4.7).
type Program struct {
	catalog *catalog.FunctionCatalog
	pages   []*executablePage
	entry   func(a0, a1, a2, a3, a4, a5 int64) int64
	asm     map[string]string
	ir      map[string]string
}

// Call invokes the compiled entry function with up to six int64 arguments;
// unused trailing slots must be zero.
func (p *Program) Call(a0, a1, a2, a3, a4, a5 int64) int64 {
	return p.entry(a0, a1, a2, a3, a4, a5)
}

// Asm returns the assembly text emitted for fnName, for --dump-asm.
func (p *Program) Asm(fnName string) (string, bool) {
	text, ok := p.asm[fnName]
	return text, ok
}

// IR returns the optimized IR text for fnName, for --dump-ir.
func (p *Program) IR(fnName string) (string, bool) {
	text, ok := p.ir[fnName]
	return text, ok
}
