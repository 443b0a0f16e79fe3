// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stacklok/procenv/procenv"
	"github.com/stacklok/procenv/server"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get PID NAME",
		Short: "Print the value of a variable; exit status 1 when it cannot be determined",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, name, err := parseTarget(args)
			if err != nil {
				return err
			}
			ctx, cancel := a.lookupContext(cmd.Context())
			defer cancel()

			value, found, err := a.reader.GetEnvironmentVariable(ctx, pid, name)
			if err != nil {
				return err
			}
			if !found {
				return &SilentExitError{Code: 1}
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newLookupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup PID NAME",
		Short: "Print the lookup status followed by the value or the failure detail",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, name, err := parseTarget(args)
			if err != nil {
				return err
			}
			ctx, cancel := a.lookupContext(cmd.Context())
			defer cancel()

			res, err := a.reader.Lookup(ctx, pid, name)
			if err != nil {
				return err
			}
			text := res.Detail
			if res.Status == procenv.StatusFound {
				text = res.Value
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", res.Status, text)
			return nil
		},
	}
}

func newEnvironCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "environ PID",
		Short: "Print the whole environment as sorted NAME=VALUE lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.lookupContext(cmd.Context())
			defer cancel()

			environ, found, err := a.reader.Environ(ctx, pid)
			if err != nil {
				return err
			}
			if !found {
				return &SilentExitError{Code: 1}
			}

			names := make([]string, 0, len(environ))
			for name := range environ {
				names = append(names, name)
			}
			slices.Sort(names)
			out := cmd.OutOrStdout()
			for _, name := range names {
				_, _ = fmt.Fprintf(out, "%s=%s\n", name, environ[name])
			}
			return nil
		},
	}
}

func newMatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "match PID EXPR",
		Short: "Evaluate a CEL predicate over the environment (env) and pid of a process",
		Example: `  procenv match 4242 '"ROLE" in env && env["ROLE"] == "worker"'
  procenv match 4242 'env.exists(k, k.startsWith("AWS_"))'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			m, err := procenv.CompileMatcher(args[1])
			if err != nil {
				return err
			}
			ctx, cancel := a.lookupContext(cmd.Context())
			defer cancel()

			matched, err := a.reader.Match(ctx, pid, m)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), matched)
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve lookups over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if address == "" {
				address = a.cfg.ServerAddress()
			}
			timeout, _ := a.cfg.Timeout()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.reader,
				server.WithLogger(a.logger),
				server.WithTimeout(timeout),
				server.WithResponseHeaders(a.cfg.Server.ResponseHeaders),
			)
			return srv.ListenAndServe(ctx, address)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address (default from config, then 127.0.0.1:8765)")
	return cmd
}
