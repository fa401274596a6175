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

// Package catalog is the dense FunctionId -> machine-code-entry-point table
// every call site references by address, per spec.md §4.5.
package catalog

import (
	"unsafe"

	"github.com/andreabergia/emjay/internal/ir"
	"github.com/andreabergia/emjay/internal/utils"
)

// FunctionCatalog must be heap-allocated and pinned for the lifetime of the
// compiled program: emitted call sites embed &FunctionCatalog as an
// immediate, so the struct may never move or be garbage collected while any
// generated code can still run.
type FunctionCatalog struct {
	addresses []uintptr
}

// New reserves room for numFunctions entries, to be filled in declaration
// order via Store.
func New(numFunctions int) *FunctionCatalog {
	return &FunctionCatalog{addresses: make([]uintptr, 0, numFunctions)}
}

// Store records the entry point for id. Must be called in increasing id
// order, once per function in the program - the same discipline the
// reference backend relies on instead of a hash map.
func (c *FunctionCatalog) Store(id ir.FunctionId, entryPoint uintptr) {
	utils.Assert(int(id) == len(c.addresses), "catalog.Store: expected id %d, got %d", len(c.addresses), id)
	c.addresses = append(c.addresses, entryPoint)
}

// Get resolves a function id to its entry point. Called from the trampoline
// at every JIT-to-JIT call site.
func (c *FunctionCatalog) Get(id ir.FunctionId) uintptr {
	utils.Assert(int(id) < len(c.addresses), "catalog.Get: id %d out of range (%d functions)", id, len(c.addresses))
	return c.addresses[id]
}

// Addr returns the catalog's own address, the immediate every call site
// embeds so the trampoline can find it again at call time.
func (c *FunctionCatalog) Addr() uintptr {
	return uintptr(unsafe.Pointer(c))
}
