// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultProcstatCommand is the executable run by ProcstatStrategy.
const DefaultProcstatCommand = "procstat"

// ProcstatStrategy reads the environment from procstat's libxo JSON output.
type ProcstatStrategy struct {
	diag diagnostic
}

// NewProcstatStrategy creates a ProcstatStrategy.
func NewProcstatStrategy(cfg CommandConfig) *ProcstatStrategy {
	return &ProcstatStrategy{diag: newDiagnostic(cfg, DefaultProcstatCommand)}
}

// procstatArgs returns the arguments for an environment dump of pid.
func procstatArgs(pid int) []string {
	return []string{"-e", "--libxo", "json", strconv.Itoa(pid)}
}

// Lookup implements Strategy.
func (s *ProcstatStrategy) Lookup(ctx context.Context, pid int, name string) Result {
	environ, res := s.Environ(ctx, pid)
	return lookupIn(environ, res, name)
}

// Environ implements Enumerator.
func (s *ProcstatStrategy) Environ(ctx context.Context, pid int) (map[string]string, Result) {
	logger := s.diag.logger.With("pid", pid, "strategy", StrategyProcstat)

	lines, err := s.diag.run(ctx, procstatArgs(pid))
	if err != nil {
		logger.Error("procstat failed", "error", err)
		return nil, commandFailed(err)
	}

	// A missing process typically yields no output or a plain-text message.
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "{") {
		err := fmt.Errorf("%w: procstat output is not a JSON document", errMalformedOutput)
		logger.Warn("unexpected procstat output", "lines", len(lines))
		return nil, parseError(err)
	}

	// The document may span several lines; no line break falls inside a JSON string.
	environ, err := parseProcstatEnvironment([]byte(strings.Join(lines, " ")), pid)
	if err != nil {
		logger.Warn("parsing procstat output", "error", err)
		return nil, parseError(err)
	}

	return environ, enumerated
}

type procstatDocument struct {
	Procstat *procstatSection `json:"procstat"`
}

type procstatSection struct {
	Environment map[string]*procstatProcess `json:"environment"`
}

type procstatProcess struct {
	Environment *[]string `json:"environment"`
}

// parseProcstatEnvironment navigates procstat.environment.<pid>.environment
// and splits each KEY=VALUE token on its first '='. The map is only returned
// when every step succeeds.
func parseProcstatEnvironment(doc []byte, pid int) (map[string]string, error) {
	if err := validateProcstatDocument(doc); err != nil {
		return nil, err
	}

	var root procstatDocument
	if err := json.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("%w: decoding procstat JSON: %w", errMalformedOutput, err)
	}

	if root.Procstat == nil {
		return nil, missingField("procstat")
	}
	if root.Procstat.Environment == nil {
		return nil, missingField("procstat.environment")
	}
	key := strconv.Itoa(pid)
	proc := root.Procstat.Environment[key]
	if proc == nil {
		return nil, missingField("procstat.environment." + key)
	}
	if proc.Environment == nil {
		return nil, missingField("procstat.environment." + key + ".environment")
	}

	environ := make(map[string]string, len(*proc.Environment))
	for _, token := range *proc.Environment {
		name, value, found := strings.Cut(token, "=")
		if !found {
			return nil, fmt.Errorf("%w: environment entry %q has no '='", errMalformedOutput, token)
		}
		environ[name] = value
	}

	return environ, nil
}

func missingField(path string) error {
	return fmt.Errorf("%w: missing field %s", errMalformedOutput, path)
}

// IsMalformedOutput reports whether err describes unparseable diagnostic output.
func IsMalformedOutput(err error) bool {
	return errors.Is(err, errMalformedOutput)
}
