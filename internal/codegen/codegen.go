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

// Package codegen defines the shared contract every backend (internal/codegen/arm64,
// internal/codegen/amd64) implements, per spec.md §4.4's "AArch64 described, x86-64
// analogous" framing.
package codegen

import (
	"fmt"

	"github.com/andreabergia/emjay/internal/ir"
)

// ErrorKind discriminates the two BackendError cases spec.md §4.4 and §6 name.
type ErrorKind int

const (
	NotImplemented ErrorKind = iota
	FunctionNotFound
)

type Error struct {
	Kind   ErrorKind
	Reason string
}

func (e *Error) Error() string {
	switch e.Kind {
	case FunctionNotFound:
		return fmt.Sprintf("function not found: %s", e.Reason)
	default:
		return fmt.Sprintf("not implemented: %s", e.Reason)
	}
}

func NotImplementedf(format string, args ...interface{}) *Error {
	return &Error{Kind: NotImplemented, Reason: fmt.Sprintf(format, args...)}
}

// GeneratedMachineCode is one compiled function's emitted assembly text
// (for --dump-asm) alongside the raw bytes the page allocator maps.
type GeneratedMachineCode struct {
	Asm   string
	Bytes []byte
}

// Generator is one backend's entry point: lower an already-optimized
// function into machine code, running the register allocator over it with
// the backend's own register pool first. catalogAddr is the stable
// address of the function catalog (embedded as a call-site immediate);
// trampolineAddr is the host address of the call trampoline.
type Generator interface {
	Name() string
	GenerateMachineCode(fn *ir.CompiledFunction, catalogAddr, trampolineAddr uintptr) (*GeneratedMachineCode, error)
}
