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

import "fmt"

// MmapError wraps a page-allocator failure (spec.md §6's "failure is
// reported as a distinct error").
type MmapError struct {
	Reason error
}

func (e *MmapError) Error() string { return fmt.Sprintf("mmap failed: %s", e.Reason) }
func (e *MmapError) Unwrap() error { return e.Reason }

// MainFunctionNotFound is returned when no compiled function's name matches
// the requested entry name.
type MainFunctionNotFound struct {
	Name string
}

func (e *MainFunctionNotFound) Error() string {
	return fmt.Sprintf("entry function %q not found", e.Name)
}
