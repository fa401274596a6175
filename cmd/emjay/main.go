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

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/andreabergia/emjay/internal/codegen"
	"github.com/andreabergia/emjay/internal/codegen/amd64"
	"github.com/andreabergia/emjay/internal/codegen/arm64"
	"github.com/andreabergia/emjay/internal/jit"
	"github.com/andreabergia/emjay/internal/logging"
)

var (
	entryName string
	target    string
	dumpAsm   bool
	dumpIR    bool
	verbose   bool
)

func main() {
	root := &cobra.Command{
		Use:   "emjay <source.mj> [a0 a1 ...]",
		Short: "Emjay compiles a tiny integer language straight to machine code and runs it",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run,
	}
	root.Flags().StringVar(&entryName, "entry", "main", "name of the function to invoke once compiled")
	root.Flags().StringVar(&target, "target", defaultTarget(), "backend to emit for: arm64 or amd64")
	root.Flags().BoolVar(&dumpAsm, "dump-asm", false, "print the generated assembly for the entry function before running")
	root.Flags().BoolVar(&dumpIR, "dump-ir", false, "print the optimized IR for the entry function before running")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, cmdArgs []string) error {
	logging.Configure(verbose)
	defer logging.Sync()

	sourcePath := cmdArgs[0]
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", sourcePath, err)
	}

	callArgs, err := parseArgs(cmdArgs[1:])
	if err != nil {
		return err
	}

	generator, err := backendFor(target)
	if err != nil {
		return err
	}

	program, err := jit.Compile(string(source), entryName, generator)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", sourcePath, err)
	}

	if dumpIR {
		if text, ok := program.IR(entryName); ok {
			fmt.Fprintln(cmd.OutOrStdout(), text)
		}
	}
	if dumpAsm {
		if text, ok := program.Asm(entryName); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "; %s:\n%s", entryName, text)
		}
	}

	result := program.Call(callArgs[0], callArgs[1], callArgs[2], callArgs[3], callArgs[4], callArgs[5])
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}

func defaultTarget() string {
	if runtime.GOARCH == "arm64" {
		return "arm64"
	}
	return "amd64"
}

func backendFor(name string) (codegen.Generator, error) {
	switch name {
	case "arm64":
		return arm64.New(), nil
	case "amd64":
		return amd64.New(), nil
	default:
		return nil, fmt.Errorf("unknown target %q: want arm64 or amd64", name)
	}
}

func parseArgs(raw []string) ([6]int64, error) {
	var parsed [6]int64
	if len(raw) > len(parsed) {
		return parsed, fmt.Errorf("at most %d arguments are supported, got %d", len(parsed), len(raw))
	}
	for i, a := range raw {
		var v int64
		if _, err := fmt.Sscanf(a, "%d", &v); err != nil {
			return parsed, fmt.Errorf("argument %q is not an integer", a)
		}
		parsed[i] = v
	}
	return parsed, nil
}
