// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Command procenv reads environment variables of running processes.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Version is overridden at build time.
var Version = "dev"

func main() {
	runMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

// SilentExitError reports an exit code without emitting error output.
type SilentExitError struct {
	Code int
}

func (e *SilentExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// execute runs the CLI with the provided args and output writers.
func execute(args []string, stdout, stderr io.Writer, d deps) error {
	cmd := newRootCmd(d)
	cmd.Version = Version
	cmd.SetArgs(args[1:])
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

// runMain executes the CLI and exits on errors.
func runMain(args []string, stdout, stderr io.Writer, exit func(int)) {
	err := execute(args, stdout, stderr, defaultDeps())
	if err == nil {
		return
	}
	var silent *SilentExitError
	if errors.As(err, &silent) {
		exit(silent.Code)
		return
	}
	_, _ = fmt.Fprintln(stderr, err)
	exit(1)
}
