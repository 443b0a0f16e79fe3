// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

import (
	"context"
	"strconv"
	"strings"
)

// DefaultPSCommand is the executable run by PSStrategy.
const DefaultPSCommand = "ps"

// PSStrategy extracts a variable from `ps e` output, which prints the
// command line followed by the environment as space-separated NAME=value
// tokens without escaping. No map is built.
type PSStrategy struct {
	diag diagnostic
}

// NewPSStrategy creates a PSStrategy.
func NewPSStrategy(cfg CommandConfig) *PSStrategy {
	return &PSStrategy{diag: newDiagnostic(cfg, DefaultPSCommand)}
}

func psArgs(pid int) []string {
	return []string{"e", "-p", strconv.Itoa(pid), "-o", "command"}
}

// Lookup implements Strategy.
func (s *PSStrategy) Lookup(ctx context.Context, pid int, name string) Result {
	lines, err := s.diag.run(ctx, psArgs(pid))
	if err != nil {
		s.diag.logger.Error("ps failed", "pid", pid, "strategy", StrategyPS, "error", err)
		return commandFailed(err)
	}

	return extractFromCommandLine(strings.Join(lines, " "), name)
}

// extractFromCommandLine finds the first occurrence of name in text and
// returns what follows the separator up to the next space.
// A name that occurs inside an earlier token matches there.
func extractFromCommandLine(text, name string) Result {
	if name == "" {
		return NotFound()
	}

	idx := strings.Index(text, name)
	if idx < 0 {
		return NotFound()
	}

	start := idx + len(name) + 1
	if start > len(text) {
		return NotFound()
	}

	value := text[start:]
	if end := strings.IndexByte(value, ' '); end >= 0 {
		value = value[:end]
	}
	return Found(value)
}
