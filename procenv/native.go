// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// ErrNativeUnavailable is returned by the native facility on platforms that
// have none.
var ErrNativeUnavailable = errors.New("native environment facility is not available on this platform")

// NativeFacility returns the raw KEY=VALUE entries of a process environment
// without running a subprocess.
type NativeFacility func(pid int) ([]string, error)

// NativeStrategy reads the environment through a platform API.
type NativeStrategy struct {
	facility NativeFacility
	// foldCase matches names case-insensitively, as Windows does.
	foldCase bool
	logger   *slog.Logger
}

// NewNativeStrategy creates a NativeStrategy. A nil facility uses the
// platform implementation.
func NewNativeStrategy(facility NativeFacility, logger *slog.Logger) *NativeStrategy {
	if facility == nil {
		facility = nativeEnviron
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NativeStrategy{
		facility: facility,
		foldCase: nativeFoldCase,
		logger:   logger,
	}
}

// Lookup implements Strategy.
func (s *NativeStrategy) Lookup(_ context.Context, pid int, name string) Result {
	entries, err := s.facility(pid)
	if err != nil {
		s.logger.Error("reading native process environment", "pid", pid, "strategy", StrategyNative, "error", err)
		return commandFailed(err)
	}

	for _, entry := range entries {
		key, value, ok := splitEntry(entry)
		if !ok {
			continue
		}
		if key == name || (s.foldCase && strings.EqualFold(key, name)) {
			return Found(value)
		}
	}
	return NotFound()
}

// Environ implements Enumerator.
func (s *NativeStrategy) Environ(_ context.Context, pid int) (map[string]string, Result) {
	entries, err := s.facility(pid)
	if err != nil {
		s.logger.Error("reading native process environment", "pid", pid, "strategy", StrategyNative, "error", err)
		return nil, commandFailed(err)
	}
	return environFromEntries(entries), enumerated
}
