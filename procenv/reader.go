// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/stacklok/procenv/procexec"
)

// Reader dispatches environment lookups to the strategy registered for its
// OS family. It holds no per-call state and is safe for concurrent use.
type Reader struct {
	family     Family
	strategies map[Family]Strategy
	logger     *slog.Logger
}

// readerConfig holds the resolved configuration for NewReader.
type readerConfig struct {
	family          Family
	runner          procexec.Runner
	workDir         string
	logger          *slog.Logger
	procstatCommand string
	psCommand       string
	procfsMount     string
	native          NativeFacility
	named           map[Family]string
	strategies      map[Family]Strategy
}

// Option configures a Reader created by NewReader.
type Option func(*readerConfig)

// WithFamily overrides the detected OS family.
func WithFamily(f Family) Option {
	return func(c *readerConfig) {
		c.family = f
	}
}

// WithRunner sets the runner used by command-based strategies.
func WithRunner(r procexec.Runner) Option {
	return func(c *readerConfig) {
		c.runner = r
	}
}

// WithWorkDir sets the working directory of diagnostic commands.
func WithWorkDir(dir string) Option {
	return func(c *readerConfig) {
		c.workDir = dir
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *readerConfig) {
		c.logger = l
	}
}

// WithProcstatCommand overrides the procstat executable.
func WithProcstatCommand(command string) Option {
	return func(c *readerConfig) {
		c.procstatCommand = command
	}
}

// WithPSCommand overrides the ps executable.
func WithPSCommand(command string) Option {
	return func(c *readerConfig) {
		c.psCommand = command
	}
}

// WithProcfsMount sets the proc filesystem mount point used by the procfs
// strategy.
func WithProcfsMount(mount string) Option {
	return func(c *readerConfig) {
		c.procfsMount = mount
	}
}

// WithNativeFacility replaces the platform facility of the native strategy.
func WithNativeFacility(f NativeFacility) Option {
	return func(c *readerConfig) {
		c.native = f
	}
}

// WithNamedStrategy selects one of the built-in strategies (see
// StrategyNames) for family f.
func WithNamedStrategy(f Family, name string) Option {
	return func(c *readerConfig) {
		c.named[f] = name
	}
}

// WithStrategy registers s for family f, replacing any default. A nil s
// removes the family so lookups on it fail with ErrUnsupportedPlatform.
func WithStrategy(f Family, s Strategy) Option {
	return func(c *readerConfig) {
		c.strategies[f] = s
	}
}

// NewReader creates a Reader. Without options it uses the host family, runs
// commands in the current directory and logs through slog.Default().
func NewReader(opts ...Option) (*Reader, error) {
	cfg := &readerConfig{
		family:     CurrentFamily(),
		named:      make(map[Family]string),
		strategies: make(map[Family]Strategy),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.runner == nil {
		cfg.runner = procexec.NewOSRunner(cfg.logger)
	}

	builtin := map[string]func() Strategy{
		StrategyProcstat: func() Strategy {
			return NewProcstatStrategy(CommandConfig{
				Runner: cfg.runner, Command: cfg.procstatCommand, Dir: cfg.workDir, Logger: cfg.logger,
			})
		},
		StrategyPS: func() Strategy {
			return NewPSStrategy(CommandConfig{
				Runner: cfg.runner, Command: cfg.psCommand, Dir: cfg.workDir, Logger: cfg.logger,
			})
		},
		StrategyNative: func() Strategy { return NewNativeStrategy(cfg.native, cfg.logger) },
		StrategyProcfs: func() Strategy { return NewProcfsStrategy(cfg.procfsMount, cfg.logger) },
	}

	// Strategies are stateless, so families may share one instance.
	instances := make(map[string]Strategy)
	byName := func(name string) (Strategy, error) {
		if err := validateStrategyName(name); err != nil {
			return nil, err
		}
		if s, ok := instances[name]; ok {
			return s, nil
		}
		s := builtin[name]()
		instances[name] = s
		return s, nil
	}

	table := make(map[Family]Strategy)
	for f, name := range defaultStrategyNames() {
		s, err := byName(name)
		if err != nil {
			return nil, err
		}
		table[f] = s
	}
	for f, name := range cfg.named {
		s, err := byName(name)
		if err != nil {
			return nil, fmt.Errorf("selecting strategy for %s: %w", f, err)
		}
		table[f] = s
	}
	for f, s := range cfg.strategies {
		if s == nil {
			delete(table, f)
			continue
		}
		table[f] = s
	}

	return &Reader{
		family:     cfg.family,
		strategies: table,
		logger:     cfg.logger,
	}, nil
}

// defaultStrategyNames is the default selection table.
func defaultStrategyNames() map[Family]string {
	return map[Family]string{
		FamilyWindows: StrategyNative,
		FamilyLinux:   StrategyProcstat,
		FamilyFreeBSD: StrategyProcstat,
		FamilyDarwin:  StrategyPS,
	}
}

// Family returns the OS family lookups are dispatched for.
func (r *Reader) Family() Family {
	return r.family
}

// Strategies returns a copy of the selection table.
func (r *Reader) Strategies() map[Family]Strategy {
	return maps.Clone(r.strategies)
}

// GetEnvironmentVariable returns the value of name in the environment of
// process pid. found is false when no value could be determined for any
// reason. An error is only returned for invalid arguments or an unsupported
// platform.
func (r *Reader) GetEnvironmentVariable(ctx context.Context, pid int, name string) (value string, found bool, err error) {
	res, err := r.Lookup(ctx, pid, name)
	if err != nil {
		return "", false, err
	}
	value, found = res.Get()
	return value, found, nil
}

// Lookup is GetEnvironmentVariable returning the full Result.
func (r *Reader) Lookup(ctx context.Context, pid int, name string) (Result, error) {
	if err := validateProcess(pid); err != nil {
		return Result{}, err
	}
	if name == "" {
		return Result{}, ErrEmptyVariableName
	}

	s, err := r.strategy()
	if err != nil {
		return Result{}, err
	}

	res := s.Lookup(ctx, pid, name)
	r.logger.Debug("environment variable lookup",
		"pid", pid, "name", name, "family", r.family, "status", res.Status.String())
	return res, nil
}

// Environ returns the whole environment of process pid. found is false when
// the environment could not be read. ErrEnumerationUnsupported is returned
// when the selected strategy only supports single lookups.
func (r *Reader) Environ(ctx context.Context, pid int) (environ map[string]string, found bool, err error) {
	if err := validateProcess(pid); err != nil {
		return nil, false, err
	}

	s, err := r.strategy()
	if err != nil {
		return nil, false, err
	}
	e, ok := s.(Enumerator)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrEnumerationUnsupported, r.family)
	}

	environ, res := e.Environ(ctx, pid)
	r.logger.Debug("environment enumeration",
		"pid", pid, "family", r.family, "status", res.Status.String(), "count", len(environ))
	if res.Status != StatusFound {
		return nil, false, nil
	}
	return environ, true, nil
}

func (r *Reader) strategy() (Strategy, error) {
	s, ok := r.strategies[r.family]
	if !ok {
		return nil, &UnsupportedPlatformError{Family: r.family}
	}
	return s, nil
}

func validateProcess(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidProcess, pid)
	}
	return nil
}
