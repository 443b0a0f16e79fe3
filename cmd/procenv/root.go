// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stacklok/procenv/config"
	"github.com/stacklok/procenv/env"
	"github.com/stacklok/procenv/procenv"
	"github.com/stacklok/procenv/validation/varname"
)

// deps are the collaborators the commands are built from.
type deps struct {
	env env.Reader
	// readerOptions are appended after the configured options.
	readerOptions []procenv.Option
}

func defaultDeps() deps {
	return deps{env: &env.OSReader{}}
}

// app is the state shared by subcommands once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	reader *procenv.Reader
}

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd(d deps) *cobra.Command {
	var flags rootFlags
	a := &app{}

	cmd := &cobra.Command{
		Use:           "procenv",
		Short:         "Read environment variables of running processes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, d, flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "",
		fmt.Sprintf("config file (default %s, or $%s)", config.DefaultPath(), config.EnvConfig))
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format: json or text")

	cmd.AddCommand(
		newGetCmd(a),
		newLookupCmd(a),
		newEnvironCmd(a),
		newMatchCmd(a),
		newServeCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command, d deps, flags rootFlags) error {
	cfg, err := config.Resolve(flags.configPath, d.env)
	if err != nil {
		return err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}

	logger, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	reader, err := procenv.NewReader(append(cfg.ReaderOptions(logger), d.readerOptions...)...)
	if err != nil {
		return err
	}

	a.cfg, a.logger, a.reader = cfg, logger, reader
	return nil
}

// lookupContext applies the configured timeout.
func (a *app) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout, _ := a.cfg.Timeout()
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func parsePID(raw string) (int, error) {
	pid, err := strconv.Atoi(raw)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w: %q", procenv.ErrInvalidProcess, raw)
	}
	return pid, nil
}

func parseTarget(args []string) (int, string, error) {
	pid, err := parsePID(args[0])
	if err != nil {
		return 0, "", err
	}
	if err := varname.ValidateName(args[1]); err != nil {
		return 0, "", err
	}
	return pid, args[1], nil
}
