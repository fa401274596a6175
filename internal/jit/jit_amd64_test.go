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

//go:build amd64

package jit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andreabergia/emjay/internal/codegen/amd64"
)

func TestCompileAndRunTrivialFunction(t *testing.T) {
	program, err := Compile("fn main() { let a = 2; return -a + 1; }", "main", amd64.New())
	require.NoError(t, err)

	require.Equal(t, int64(-1), program.Call(0, 0, 0, 0, 0, 0))
}

func TestCompileAndRunFunctionCall(t *testing.T) {
	program, err := Compile(`
		fn f(x) { return g() + x; }
		fn g() { return 1; }
	`, "f", amd64.New())
	require.NoError(t, err)

	require.Equal(t, int64(5), program.Call(4, 0, 0, 0, 0, 0))
}

func TestCompileAndRunNestedFunctionCalls(t *testing.T) {
	program, err := Compile(`
		fn main() { return 1000 + f(3, 2, 1); }
		fn f(x, y, z) { return x * 100 + y * 10 + (g(z) + z) * 2; }
		fn g(z) { return z + 1; }
	`, "main", amd64.New())
	require.NoError(t, err)

	require.Equal(t, int64(1326), program.Call(0, 0, 0, 0, 0, 0))
}

func TestMainFunctionNotFound(t *testing.T) {
	_, err := Compile("fn foo() { return 1; }", "main", amd64.New())
	require.Error(t, err)
	require.IsType(t, &MainFunctionNotFound{}, err)
}
