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

// Package utils holds small invariant-checking helpers shared by every
// compiler stage. A failed Assert or a call to Unimplement/ShouldNotReachHere
// means the compiler itself is broken, not that the user's program is
// invalid - so they panic rather than returning an error.
package utils

import "fmt"

func Assert(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

func Unimplement(reason string) {
	panic("not implemented: " + reason)
}

func ShouldNotReachHere() {
	panic("should not reach here")
}

// Align16 rounds n up to the next multiple of 16, matching the AArch64 and
// x86-64 stack-alignment requirement at a call boundary.
func Align16(n int) int {
	return (n + 15) &^ 15
}
