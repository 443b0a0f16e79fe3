// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stacklok/procenv/procexec"
)

// CommandConfig configures a strategy that runs a diagnostic command.
type CommandConfig struct {
	// Runner runs the command. Nil uses a procexec.OSRunner.
	Runner procexec.Runner
	// Command overrides the executable name or path.
	Command string
	// Dir is the working directory of the command, normally the agent root.
	Dir string
	// Logger receives diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// diagnostic runs one external command and captures its stdout.
type diagnostic struct {
	runner  procexec.Runner
	command string
	dir     string
	logger  *slog.Logger
}

func newDiagnostic(cfg CommandConfig, defaultCommand string) diagnostic {
	d := diagnostic{
		runner:  cfg.Runner,
		command: cfg.Command,
		dir:     cfg.Dir,
		logger:  cfg.Logger,
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.runner == nil {
		d.runner = procexec.NewOSRunner(d.logger)
	}
	if d.command == "" {
		d.command = defaultCommand
	}
	return d
}

// run executes the command and returns the non-empty stdout lines. Lines are
// only read after Run has returned, so every line has been delivered.
func (d diagnostic) run(ctx context.Context, args []string) ([]string, error) {
	out := newCapture(d.logger)

	code, err := d.runner.Run(ctx, procexec.Command{
		Dir:  d.dir,
		Name: d.command,
		Args: args,
	}, out.handlers())
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", d.command, err)
	}
	if code != 0 {
		return nil, &exitError{command: d.command, code: code}
	}

	return out.snapshot(), nil
}
