// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package procexec runs external diagnostic commands and streams their output
line by line to caller-supplied handlers.

# Basic Usage

	runner := procexec.NewOSRunner(logger)
	code, err := runner.Run(ctx, procexec.Command{
	    Dir:  "/var/lib/agent",
	    Name: "ps",
	    Args: []string{"e", "-p", "1234", "-o", "command"},
	}, procexec.Handlers{
	    Stdout: func(line string) { ... },
	    Stderr: func(line string) { ... },
	})

Run blocks until the command has exited and every stdout and stderr line
has been delivered. Stdout and stderr are read on separate goroutines, so
the two handlers may be called concurrently with each other; lines of a
single stream are delivered in order.

A non-nil error means the command could not be run at all (for example the
binary is missing) or its output could not be read in full, such as a line
longer than MaxLineLength. A command that ran and exited with a non-zero
status returns that status and a nil error.

# Testing

Code that runs commands should accept a Runner. A generated mock is
available in the mocks sub-package.
*/
package procexec
