// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/stacklok/procenv/procexec"
)

// capture accumulates non-empty stdout lines of one diagnostic run.
// The runner calls the handlers from its own goroutines, so appends and
// stderr logging share one mutex.
type capture struct {
	mu     sync.Mutex
	lines  []string
	logger *slog.Logger
}

func newCapture(logger *slog.Logger) *capture {
	return &capture{logger: logger}
}

func (c *capture) stdout(line string) {
	if line == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
}

func (c *capture) stderr(line string) {
	if line == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Debug("diagnostic command stderr", "line", line)
}

func (c *capture) handlers() procexec.Handlers {
	return procexec.Handlers{Stdout: c.stdout, Stderr: c.stderr}
}

// snapshot returns a copy of the captured lines.
func (c *capture) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.lines)
}
