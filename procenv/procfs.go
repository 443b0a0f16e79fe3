// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

import (
	"context"
	"log/slog"
)

// ProcfsStrategy reads /proc/<pid>/environ. It only works on Linux.
type ProcfsStrategy struct {
	mount  string
	logger *slog.Logger
}

// NewProcfsStrategy creates a ProcfsStrategy for the proc filesystem mounted
// at mount. An empty mount uses /proc.
func NewProcfsStrategy(mount string, logger *slog.Logger) *ProcfsStrategy {
	if mount == "" {
		mount = "/proc"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcfsStrategy{mount: mount, logger: logger}
}

// Lookup implements Strategy.
func (s *ProcfsStrategy) Lookup(ctx context.Context, pid int, name string) Result {
	environ, res := s.Environ(ctx, pid)
	return lookupIn(environ, res, name)
}

// Environ implements Enumerator.
func (s *ProcfsStrategy) Environ(_ context.Context, pid int) (map[string]string, Result) {
	entries, err := readProcfsEnviron(s.mount, pid)
	if err != nil {
		s.logger.Error("reading process environment from procfs", "pid", pid, "strategy", StrategyProcfs, "error", err)
		return nil, commandFailed(err)
	}
	return environFromEntries(entries), enumerated
}
