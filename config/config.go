// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/procenv/env"
	"github.com/stacklok/procenv/logging"
	"github.com/stacklok/procenv/procenv"
	httpval "github.com/stacklok/procenv/validation/http"
)

// Environment variables read by Resolve.
const (
	EnvConfig           = "PROCENV_CONFIG"
	EnvWorkingDirectory = "PROCENV_WORKING_DIRECTORY"
	EnvLogLevel         = "PROCENV_LOG_LEVEL"
	EnvLogFormat        = "PROCENV_LOG_FORMAT"
)

// DefaultServerAddress is the loopback address the server listens on.
const DefaultServerAddress = "127.0.0.1:8765"

// Config holds the parsed configuration. Zero values select defaults.
type Config struct {
	// WorkingDirectory is where diagnostic commands run, normally the agent
	// root. Empty uses the current directory.
	WorkingDirectory string `yaml:"working_directory"`
	// RawTimeout bounds a single lookup, e.g. "30s". Empty or "0" waits for
	// the diagnostic command indefinitely.
	RawTimeout string         `yaml:"timeout"`
	Commands   CommandsConfig `yaml:"commands"`
	// Strategies maps an OS family to a strategy name, replacing the default.
	Strategies  map[string]string `yaml:"strategies"`
	ProcfsMount string            `yaml:"procfs_mount"`
	Log         LogConfig         `yaml:"log"`
	Server      ServerConfig      `yaml:"server"`
}

// CommandsConfig overrides the diagnostic executables.
type CommandsConfig struct {
	Procstat string `yaml:"procstat"`
	PS       string `yaml:"ps"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address         string            `yaml:"address"`
	ResponseHeaders map[string]string `yaml:"response_headers"`
}

// DefaultPath returns $XDG_CONFIG_HOME/procenv/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "procenv", "config.yaml")
}

// Load reads and decodes the file at path. Unknown fields are rejected. An
// empty file yields a zero Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// Resolve loads the configuration the CLI uses. path wins over
// PROCENV_CONFIG, which wins over DefaultPath. Only a missing default file is
// tolerated. Environment overrides are applied and the result is validated.
func Resolve(path string, r env.Reader) (*Config, error) {
	explicit := true
	if path == "" {
		path = r.Getenv(EnvConfig)
	}
	if path == "" {
		path, explicit = DefaultPath(), false
	}

	cfg, err := Load(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.ApplyEnv(r)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the PROCENV_* variables that are set.
func (c *Config) ApplyEnv(r env.Reader) {
	if v, ok := r.LookupEnv(EnvWorkingDirectory); ok {
		c.WorkingDirectory = v
	}
	if v, ok := r.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := r.LookupEnv(EnvLogFormat); ok {
		c.Log.Format = v
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if _, err := c.Timeout(); err != nil {
		return err
	}
	for _, family := range sortedKeys(c.Strategies) {
		if _, err := procenv.ParseFamily(family); err != nil {
			return fmt.Errorf("strategies: %w", err)
		}
		if !slices.Contains(procenv.StrategyNames(), c.Strategies[family]) {
			return fmt.Errorf("strategies.%s: %w: %q", family, procenv.ErrUnknownStrategy, c.Strategies[family])
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	if err := httpval.ValidateHeaders(c.Server.ResponseHeaders); err != nil {
		return fmt.Errorf("server.response_headers: %w", err)
	}
	return nil
}

// Timeout returns the lookup timeout. Zero means none.
func (c *Config) Timeout() (time.Duration, error) {
	if c.RawTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RawTimeout)
	if err != nil {
		return 0, fmt.Errorf("timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout: must not be negative, got %s", d)
	}
	return d, nil
}

// ServerAddress returns the configured address or DefaultServerAddress.
func (c *Config) ServerAddress() string {
	if c.Server.Address != "" {
		return c.Server.Address
	}
	return DefaultServerAddress
}

// NewLogger builds the logger described by the log section, writing to out.
func (c *Config) NewLogger(out io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.Log.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(
		logging.WithOutput(out),
		logging.WithLevel(level),
		logging.WithFormat(format),
	), nil
}

// ReaderOptions converts the configuration to procenv options.
func (c *Config) ReaderOptions(logger *slog.Logger) []procenv.Option {
	opts := []procenv.Option{
		procenv.WithLogger(logger),
		procenv.WithWorkDir(c.WorkingDirectory),
		procenv.WithProcstatCommand(c.Commands.Procstat),
		procenv.WithPSCommand(c.Commands.PS),
		procenv.WithProcfsMount(c.ProcfsMount),
	}
	for _, family := range sortedKeys(c.Strategies) {
		opts = append(opts, procenv.WithNamedStrategy(procenv.Family(family), c.Strategies[family]))
	}
	return opts
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
