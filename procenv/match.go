// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package procenv

import (
	"context"
	"fmt"

	"github.com/stacklok/procenv/cel"
)

var matchEngine = cel.NewEngine()

// Matcher is a compiled CEL predicate over a process environment. The
// expression sees `env` (map of string to string) and `pid` (int).
type Matcher struct {
	expr *cel.CompiledExpression
}

// CompileMatcher compiles expr into a Matcher. The expression must be boolean.
func CompileMatcher(expr string) (*Matcher, error) {
	compiled, err := matchEngine.CompileBool(expr)
	if err != nil {
		return nil, err
	}
	return &Matcher{expr: compiled}, nil
}

// String returns the expression source.
func (m *Matcher) String() string {
	return m.expr.Source()
}

// Matches evaluates the predicate for one process.
func (m *Matcher) Matches(pid int, environ map[string]string) (bool, error) {
	return m.expr.EvaluateBool(cel.Activation(pid, environ))
}

// Match enumerates the environment of pid and evaluates m against it. A
// process whose environment cannot be read does not match.
func (r *Reader) Match(ctx context.Context, pid int, m *Matcher) (bool, error) {
	environ, found, err := r.Environ(ctx, pid)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	matched, err := m.Matches(pid, environ)
	if err != nil {
		return false, fmt.Errorf("evaluating %q for process %d: %w", m, pid, err)
	}
	return matched, nil
}
