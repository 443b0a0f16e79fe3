// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/stacklok/procenv/logging"
	"github.com/stacklok/procenv/procexec"
	"github.com/stacklok/procenv/procexec/mocks"
)

const testDir = "/var/lib/agent"

func newTestLogger(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return logging.New(
		logging.WithOutput(&buf),
		logging.WithFormat(logging.FormatText),
		logging.WithLevel(slog.LevelDebug),
	), &buf
}

// fakeOutput describes what a mocked diagnostic command emits.
type fakeOutput struct {
	stdout []string
	stderr []string
	code   int
	err    error
}

// expectCommand expects exactly one run of name with args and replays out
// through the handlers before returning.
func expectCommand(runner *mocks.MockRunner, name string, args []string, out fakeOutput) {
	runner.EXPECT().
		Run(gomock.Any(), procexec.Command{Dir: testDir, Name: name, Args: args}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ procexec.Command, h procexec.Handlers) (int, error) {
			for _, line := range out.stderr {
				h.Stderr(line)
			}
			for _, line := range out.stdout {
				h.Stdout(line)
			}
			return out.code, out.err
		})
}

func newTestProcstat(t *testing.T, runner procexec.Runner) (*ProcstatStrategy, *bytes.Buffer) {
	t.Helper()
	logger, buf := newTestLogger(t)
	return NewProcstatStrategy(CommandConfig{Runner: runner, Dir: testDir, Logger: logger}), buf
}

func newTestPS(t *testing.T, runner procexec.Runner) (*PSStrategy, *bytes.Buffer) {
	t.Helper()
	logger, buf := newTestLogger(t)
	return NewPSStrategy(CommandConfig{Runner: runner, Dir: testDir, Logger: logger}), buf
}
