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
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// executablePage is one RWX-lifecycle mmap'd region: allocated RW so the
// emitted bytes can be copied in, then flipped to RX before anything calls
// into it. Once mapped it must never move or be reclaimed while any
// compiled function could still be on the call path - the page is leaked
// for the life of the process, the same trade-off spec.md §4.7 accepts.
type executablePage struct {
	data []byte
}

// allocateExecutable copies code into a fresh mmap'd region and marks it
// read+execute. The returned address is what the catalog stores and what
// call sites branch to.
func allocateExecutable(code []byte) (*executablePage, uintptr, error) {
	size := (len(code) + unix.Getpagesize() - 1) &^ (unix.Getpagesize() - 1)
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, 0, fmt.Errorf("mmap executable page: %w", err)
	}
	copy(data, code)

	if err := unix.Mprotect(data, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(data)
		return nil, 0, fmt.Errorf("mprotect executable page: %w", err)
	}

	addr := addressOf(data)
	clearCache(addr, uintptr(len(code)))

	return &executablePage{data: data}, addr, nil
}

func addressOf(data []byte) uintptr {
	return uintptr(unsafe.Pointer(&data[0]))
}
