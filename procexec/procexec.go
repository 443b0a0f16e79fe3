// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procexec

//go:generate mockgen -copyright_file=../.github/license-header.txt -source=procexec.go -destination=mocks/mock_runner.go -package=mocks Runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MaxLineLength is the longest single output line a Runner delivers.
// ps prints the whole environment of a process on one line, so the limit is
// well above bufio's default.
const MaxLineLength = 4 << 20

// ErrEmptyCommand is returned when a Command has no name.
var ErrEmptyCommand = errors.New("command name is empty")

// Command describes an external command to run.
type Command struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Name is the executable name (resolved via PATH) or path.
	Name string
	// Args are the command-line arguments.
	Args []string
	// Env holds environment overrides merged over the current environment.
	// A nil or empty map leaves the inherited environment untouched.
	Env map[string]string
}

// Handlers receive output lines as the command emits them.
// Nil handlers discard their stream.
type Handlers struct {
	Stdout func(line string)
	Stderr func(line string)
}

// Runner runs a command to completion.
type Runner interface {
	// Run starts cmd, delivers every output line to h and waits for exit.
	// It returns the exit code of the command.
	Run(ctx context.Context, cmd Command, h Handlers) (int, error)
}

// OSRunner implements Runner with os/exec.
type OSRunner struct {
	logger *slog.Logger
}

// NewOSRunner creates an OSRunner. A nil logger uses slog.Default().
func NewOSRunner(logger *slog.Logger) *OSRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &OSRunner{logger: logger}
}

// Run implements Runner.
func (r *OSRunner) Run(ctx context.Context, cmd Command, h Handlers) (int, error) {
	if cmd.Name == "" {
		return -1, ErrEmptyCommand
	}

	logger := r.logger.With("run_id", uuid.NewString(), "command", cmd.Name)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) // #nosec G204 - diagnostic commands come from configuration
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = mergeEnv(os.Environ(), cmd.Env)
	}

	stdout, err := c.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("creating stdout pipe for %s: %w", cmd.Name, err)
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return -1, fmt.Errorf("creating stderr pipe for %s: %w", cmd.Name, err)
	}

	logger.Debug("starting command", "args", cmd.Args, "dir", cmd.Dir)
	if err := c.Start(); err != nil {
		return -1, fmt.Errorf("starting %s: %w", cmd.Name, err)
	}

	// Both pipes must be drained before Wait closes them.
	var g errgroup.Group
	g.Go(func() error { return scanLines(stdout, h.Stdout) })
	g.Go(func() error { return scanLines(stderr, h.Stderr) })
	scanErr := g.Wait()

	waitErr := c.Wait()
	if waitErr != nil && ctx.Err() != nil {
		return -1, fmt.Errorf("running %s: %w", cmd.Name, ctx.Err())
	}
	// Partial output must not be mistaken for complete output.
	if scanErr != nil {
		logger.Warn("reading command output", "error", scanErr)
		return -1, fmt.Errorf("reading output of %s: %w", cmd.Name, scanErr)
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			logger.Debug("command exited", "exit_code", exitErr.ExitCode())
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("waiting for %s: %w", cmd.Name, waitErr)
	}

	logger.Debug("command exited", "exit_code", 0)
	return 0, nil
}

// scanLines delivers each line of r to fn. On a scan error the rest of r is
// discarded so the child never blocks on a full pipe.
func scanLines(r io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	for scanner.Scan() {
		if fn != nil {
			fn(scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}

// mergeEnv returns base with overrides applied, overrides sorted by key.
func mergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, _ := cutEnv(kv)
		if _, ok := overrides[key]; ok {
			continue
		}
		out = append(out, kv)
	}
	for _, key := range slices.Sorted(maps.Keys(overrides)) {
		out = append(out, key+"="+overrides[key])
	}
	return out
}

func cutEnv(kv string) (string, string, bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' && i > 0 {
			return kv[:i], kv[i+1:], true
		}
	}
	return kv, "", false
}
