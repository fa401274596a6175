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

// Package trampoline is the one indirection every JIT-to-JIT call goes
// through, per spec.md §4.6: emitted code never calls another function's
// entry point directly (it doesn't know it yet at codegen time), it calls
// Dispatch, which resolves the callee through the catalog and forwards the
// six-argument calling convention.
package trampoline

import (
	"reflect"
	"unsafe"

	"github.com/andreabergia/emjay/internal/catalog"
	"github.com/andreabergia/emjay/internal/ir"
)

// Dispatch is called from emitted machine code with the catalog's own
// address (recovered as *catalog.FunctionCatalog) and the numeric id of the
// callee, plus up to six integer arguments forwarded verbatim to a callee
// with the JIT calling convention spec.md §4.4 describes: six int64 in,
// one int64 out.
func Dispatch(catalogAddr uintptr, calleeID int64, a0, a1, a2, a3, a4, a5 int64) int64 {
	c := (*catalog.FunctionCatalog)(unsafe.Pointer(catalogAddr))
	entryPoint := c.Get(ir.FunctionId(calleeID))
	fn := makeJitFn(entryPoint)
	return fn(a0, a1, a2, a3, a4, a5)
}

// makeJitFn turns a raw code address into a callable Go func value. A Go
// func value is itself a pointer to a funcval whose first word is the code
// address, so a one-field struct holding that address has the same layout
// funcval does; reinterpreting its address as *jitFn makes it callable.
func makeJitFn(entryPoint uintptr) jitFn {
	funcval := struct{ codePtr uintptr }{codePtr: entryPoint}
	return *(*jitFn)(unsafe.Pointer(&funcval))
}

type jitFn = func(a0, a1, a2, a3, a4, a5 int64) int64

// Address returns Dispatch's own host address, embedded by every backend as
// the trampoline-call-site immediate (spec.md §4.4's "load trampoline
// address into X19, blr X19" step). Go exposes no literal
// function-pointer-from-name syntax the way Rust's `fn_name as usize` does,
// so reflection is the idiomatic way to recover it.
func Address() uintptr {
	return reflect.ValueOf(Dispatch).Pointer()
}
