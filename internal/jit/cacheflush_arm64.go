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

// clearCache cleans the data cache and invalidates the instruction cache
// over [addr, addr+size) so code just written through the data-cache path
// is visible to the instruction fetch unit. AArch64's I and D caches are not
// required to be coherent, unlike x86-64, so this is needed after every
// mmap+copy+mprotect before the page is ever called into. Implemented in
// cacheflush_arm64.s since the instruction-cache maintenance op it needs
// (IC IVAU) has no operand support in the Go assembler.
func clearCache(addr, size uintptr)
