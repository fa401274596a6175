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

// Package jit is the driver: source text in, a runnable Program out, per
// spec.md §4.7's seven ordered steps.
package jit

import (
	"unsafe"

	"github.com/andreabergia/emjay/internal/catalog"
	"github.com/andreabergia/emjay/internal/codegen"
	"github.com/andreabergia/emjay/internal/frontend"
	"github.com/andreabergia/emjay/internal/logging"
	"github.com/andreabergia/emjay/internal/optimize"
	"github.com/andreabergia/emjay/internal/parser"
	"github.com/andreabergia/emjay/internal/trampoline"
)

// Compile parses, lowers, optimizes, emits and maps source using target,
// then resolves entryName as the callable program entry point.
func Compile(source, entryName string, target codegen.Generator) (*Program, error) {
	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	functions, err := frontend.Compile(program)
	if err != nil {
		return nil, err
	}

	functions = optimize.All(functions)

	cat := catalog.New(len(functions))
	catalogAddr := cat.Addr()
	trampolineAddr := trampoline.Address()

	result := &Program{
		catalog: cat,
		asm:     make(map[string]string, len(functions)),
		ir:      make(map[string]string, len(functions)),
	}
	var entryPoint *func(a0, a1, a2, a3, a4, a5 int64) int64

	for _, fn := range functions {
		result.ir[fn.Name] = fn.String()

		code, err := target.GenerateMachineCode(fn, catalogAddr, trampolineAddr)
		if err != nil {
			return nil, err
		}
		result.asm[fn.Name] = code.Asm

		page, addr, err := allocateExecutable(code.Bytes)
		if err != nil {
			return nil, &MmapError{Reason: err}
		}
		result.pages = append(result.pages, page)
		cat.Store(fn.Id, addr)

		logging.L().Debugw("emitted function", "name", fn.Name, "id", fn.Id, "bytes", len(code.Bytes))

		if fn.Name == entryName {
			f := makeEntryFn(addr)
			entryPoint = &f
		}
	}

	if entryPoint == nil {
		return nil, &MainFunctionNotFound{Name: entryName}
	}
	result.entry = *entryPoint
	return result, nil
}

// makeEntryFn mirrors trampoline.makeJitFn: a Go func value is a pointer to
// a funcval whose first word is the code address, so a one-field struct
// holding that address shares funcval's layout.
func makeEntryFn(entryPoint uintptr) func(a0, a1, a2, a3, a4, a5 int64) int64 {
	funcval := struct{ codePtr uintptr }{codePtr: entryPoint}
	return *(*func(a0, a1, a2, a3, a4, a5 int64) int64)(unsafe.Pointer(&funcval))
}
