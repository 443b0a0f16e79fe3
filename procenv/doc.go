// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package procenv reads a single environment variable from the environment
block of an already-running foreign process.

No portable API exists for this, so a Reader dispatches each lookup to a
platform-specific Strategy selected by OS family:

  - windows: NativeStrategy reads the process environment block directly.
  - linux, freebsd: ProcstatStrategy parses `procstat -e --libxo json <pid>`.
  - darwin: PSStrategy searches the output of `ps e -p <pid> -o command`.

Any other family is rejected with ErrUnsupportedPlatform. The selection
table can be changed per family, for example to use ProcfsStrategy on Linux.
The freebsd entry is an extension beyond windows, linux and darwin, added
because procstat ships with FreeBSD.

# Basic Usage

	reader, err := procenv.NewReader(procenv.WithWorkDir("/var/lib/agent"))
	if err != nil {
	    // handle configuration error
	}

	value, ok, err := reader.GetEnvironmentVariable(ctx, 1234, "HOME")
	if err != nil {
	    // invalid arguments or unsupported platform
	}
	if !ok {
	    // not found
	}

# Absence

A lookup only fails with an error for invalid arguments or an unsupported
platform. A missing process, a missing diagnostic tool, a failed command,
malformed output and a missing variable all collapse to "not found". Callers
that need to tell these apart can use Reader.Lookup, which returns a Result
carrying a Status and a Detail message.

# Known Limitations

PSStrategy works on one space-joined line of command line and environment
text with no escaping. A variable name that also occurs inside another token
(a command-line argument, or a longer variable name it prefixes) can match
the wrong text, and values containing spaces are truncated at the first
space.

# Matching

CompileMatcher builds a CEL predicate over the environment of a process:

	m, err := procenv.CompileMatcher(`"APP_ROLE" in env && env["APP_ROLE"] == "worker" && pid > 1`)
	matched, err := reader.Match(ctx, 1234, m)

Indexing env with a name the process does not define is an evaluation
error, so guard optional variables with the in operator. Matching requires
a strategy that can enumerate the whole environment.
*/
package procenv
