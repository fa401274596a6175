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

// Package logging provides the single, package-wide structured logger used
// throughout the compiler and JIT pipeline, in place of the original Rust
// implementation's `tracing::debug!` call sites. Every internal package logs
// through the sugared logger returned by L(), never through the stdlib
// "log" package or fmt.Println.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu      sync.Mutex
	base    *zap.Logger
	sugared *zap.SugaredLogger
)

func build(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		// Logger construction only fails on a malformed config; ours is
		// static, so fall back to a no-op logger rather than panic from
		// Configure or L.
		return zap.NewNop()
	}
	return logger
}

// Configure (re)builds the process-wide logger. cmd/emjay calls this once,
// at startup, from the --verbose flag; every other package picks up the
// change on its next L() call.
func Configure(verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	base = build(verbose)
	sugared = base.Sugar()
}

// L returns the current process-wide sugared logger, building a default
// (non-verbose) one on first use if Configure was never called - this keeps
// library packages usable in tests without requiring CLI wiring.
func L() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if sugared == nil {
		base = build(false)
		sugared = base.Sugar()
	}
	return sugared
}

// Sync flushes any buffered log entries; cmd/emjay defers this in run.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if base != nil {
		_ = base.Sync()
	}
}
