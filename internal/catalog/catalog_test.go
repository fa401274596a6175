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

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andreabergia/emjay/internal/ir"
)

func TestStoreAndGetInOrder(t *testing.T) {
	c := New(2)
	c.Store(0, 0x1000)
	c.Store(1, 0x2000)

	assert.Equal(t, uintptr(0x1000), c.Get(ir.FunctionId(0)))
	assert.Equal(t, uintptr(0x2000), c.Get(ir.FunctionId(1)))
}

func TestStoreOutOfOrderPanics(t *testing.T) {
	c := New(2)
	assert.Panics(t, func() { c.Store(1, 0x1000) })
}

func TestGetOutOfRangePanics(t *testing.T) {
	c := New(1)
	c.Store(0, 0x1000)
	assert.Panics(t, func() { c.Get(ir.FunctionId(1)) })
}

func TestAddrIsStableAcrossStores(t *testing.T) {
	c := New(1)
	addr := c.Addr()
	c.Store(0, 0x1000)
	assert.Equal(t, addr, c.Addr())
}
