// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

import (
	"errors"
	"fmt"
)

// Sentinel errors for lookups.
var (
	// ErrInvalidProcess is returned when the process id is not positive.
	ErrInvalidProcess = errors.New("process id must be positive")

	// ErrEmptyVariableName is returned when the variable name is empty.
	ErrEmptyVariableName = errors.New("variable name must not be empty")

	// ErrUnsupportedPlatform is returned when no strategy is registered for
	// the OS family.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrEnumerationUnsupported is returned when the selected strategy can
	// only look up single variables.
	ErrEnumerationUnsupported = errors.New("strategy cannot enumerate a process environment")

	// ErrUnknownStrategy is returned for a strategy name that is not registered.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// errMalformedOutput marks diagnostic output that could not be parsed.
var errMalformedOutput = errors.New("malformed diagnostic output")

// UnsupportedPlatformError reports the family that has no strategy.
type UnsupportedPlatformError struct {
	Family Family
}

// Error implements the error interface.
func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedPlatform, e.Family)
}

// Unwrap returns ErrUnsupportedPlatform.
func (*UnsupportedPlatformError) Unwrap() error {
	return ErrUnsupportedPlatform
}

// exitError reports a diagnostic command that exited with a non-zero status.
type exitError struct {
	command string
	code    int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.command, e.code)
}
